package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotSavedMessage tells the worker that a new budget revision was
// persisted. It carries only the revision number; the worker fetches the
// snapshot itself from the database.
type SnapshotSavedMessage struct {
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSnapshotSavedMessage creates a message for the given revision.
func NewSnapshotSavedMessage(revision int64) *SnapshotSavedMessage {
	return &SnapshotSavedMessage{
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *SnapshotSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotSavedMessageFromJSON decodes a message from JSON bytes.
func SnapshotSavedMessageFromJSON(data []byte) (*SnapshotSavedMessage, error) {
	var msg SnapshotSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
