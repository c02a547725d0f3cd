// Package memory provides an in-process StateStore, seeded from a JSON
// snapshot file when one exists. It is the default backend and what the
// tests run against.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"pots/internal/core"
)

type Store struct {
	mu       sync.Mutex
	state    core.State
	revision int64
}

// New returns a store holding the given state at revision 0.
func New(s core.State) *Store {
	return &Store{state: core.Sanitize(s)}
}

// NewFromFile seeds the store from a JSON snapshot at path. A missing or
// unreadable file falls back to the default seed budget; a malformed one
// still yields a valid state because decoding is lenient and the result is
// sanitized.
func NewFromFile(path string) *Store {
	data, err := os.ReadFile(path)
	if err != nil {
		return New(core.DefaultState())
	}
	var s core.State
	if err := json.Unmarshal(data, &s); err != nil {
		return New(core.DefaultState())
	}
	return New(s)
}

func (st *Store) Load(_ context.Context) (core.State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state, nil
}

func (st *Store) Save(_ context.Context, s core.State) (int64, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = s
	st.revision++
	return st.revision, nil
}

// Revision returns the current revision counter.
func (st *Store) Revision() int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.revision
}
