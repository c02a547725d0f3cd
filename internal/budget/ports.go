// Package budget declares the outbound ports the budgeting service writes
// through. Implementations live in internal/budget/memory and
// internal/storage.
package budget

import (
	"context"

	"pots/internal/core"
)

type (
	// StateStore loads and saves the raw budget state. Save returns the
	// revision assigned to the stored snapshot; revisions are strictly
	// increasing per store.
	StateStore interface {
		Load(ctx context.Context) (core.State, error)
		Save(ctx context.Context, s core.State) (revision int64, err error)
	}

	// RevisionLoader is implemented by stores that can return a specific
	// historical snapshot, used by the sync worker.
	RevisionLoader interface {
		LoadRevision(ctx context.Context, revision int64) (core.State, error)
	}
)
