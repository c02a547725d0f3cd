// Package storage persists budget snapshots to SQLite: a single-row
// current state plus an append-only revision log the sync worker reads.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"pots/internal/core"

	_ "modernc.org/sqlite"
)

// ErrRevisionNotFound is returned when the snapshot log has no row for the
// requested revision.
var ErrRevisionNotFound = errors.New("revision not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load returns the current budget state, or the default seed budget when
// nothing has been saved yet. The payload is decoded leniently and
// sanitized, so a hand-edited row cannot leave the app with a broken tree.
func (r *SQLiteRepository) Load(ctx context.Context) (core.State, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM budget_state WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Sanitize(core.DefaultState()), nil
	}
	if err != nil {
		return core.State{}, fmt.Errorf("load budget state: %w", err)
	}

	var s core.State
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return core.State{}, fmt.Errorf("decode budget state: %w", err)
	}
	return core.Sanitize(s), nil
}

// Save stores the state as the new current revision and appends it to the
// snapshot log together with its derived household totals.
func (r *SQLiteRepository) Save(ctx context.Context, s core.State) (int64, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return 0, fmt.Errorf("encode budget state: %w", err)
	}
	derived := core.Derive(s)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var revision int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO budget_state (id, revision, payload, updated_at)
		VALUES (1, 1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			revision = budget_state.revision + 1,
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
		RETURNING revision`, string(payload)).Scan(&revision)
	if err != nil {
		return 0, fmt.Errorf("save budget state: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_log (revision, payload, total_funds, total_assigned, ready_to_assign, under_funded)
		VALUES (?, ?, ?, ?, ?, ?)`,
		revision, string(payload),
		int64(derived.TotalFunds), int64(derived.TotalAssigned),
		int64(derived.ReadyToAssign), int64(derived.UnderFunded))
	if err != nil {
		return 0, fmt.Errorf("append snapshot log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save: %w", err)
	}

	slog.InfoContext(ctx, "Budget snapshot saved",
		"revision", revision,
		"total_funds", int64(derived.TotalFunds),
		"ready_to_assign", int64(derived.ReadyToAssign))

	return revision, nil
}

// LoadRevision returns a historical snapshot from the log.
func (r *SQLiteRepository) LoadRevision(ctx context.Context, revision int64) (core.State, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshot_log WHERE revision = ?`, revision).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.State{}, ErrRevisionNotFound
	}
	if err != nil {
		return core.State{}, fmt.Errorf("load revision %d: %w", revision, err)
	}

	var s core.State
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return core.State{}, fmt.Errorf("decode revision %d: %w", revision, err)
	}
	return core.Sanitize(s), nil
}

// LatestRevision returns the highest revision in the snapshot log, 0 when
// the log is empty.
func (r *SQLiteRepository) LatestRevision(ctx context.Context) (int64, error) {
	var revision sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(revision) FROM snapshot_log`).Scan(&revision)
	if err != nil {
		return 0, fmt.Errorf("latest revision: %w", err)
	}
	return revision.Int64, nil
}

// PruneSnapshots keeps the most recent keep revisions in the log.
func (r *SQLiteRepository) PruneSnapshots(ctx context.Context, keep int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM snapshot_log
		WHERE revision <= (SELECT MAX(revision) FROM snapshot_log) - ?`, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
