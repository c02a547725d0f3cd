// Package services orchestrates the budgeting cycle around the pure core:
// load raw state, sanitize, apply one mutation, re-sanitize, persist, then
// notify the sync worker. Every operation returns the freshly derived
// snapshot so callers never see stale figures.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"pots/internal/budget"
	"pots/internal/core"
)

// SnapshotPublisher notifies the sync worker of a saved revision.
// Publishing is fire-and-forget: failures are logged and never affect the
// in-memory or persisted state.
type SnapshotPublisher interface {
	PublishSnapshotSaved(ctx context.Context, revision int64) error
}

type BudgetService struct {
	store     budget.StateStore
	publisher SnapshotPublisher
}

func NewBudgetService(store budget.StateStore, publisher SnapshotPublisher) *BudgetService {
	return &BudgetService{
		store:     store,
		publisher: publisher,
	}
}

// View returns the current derived snapshot without mutating anything.
func (s *BudgetService) View(ctx context.Context) (core.Snapshot, error) {
	st, err := s.load(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}
	return core.Derive(st), nil
}

// State returns the current sanitized raw state, the interchange shape
// persisted snapshots use.
func (s *BudgetService) State(ctx context.Context) (core.State, error) {
	return s.load(ctx)
}

// AssignFunds runs the manual capped assignment. Degenerate outcomes
// (nothing to do, invalid selection, no cash, already funded) report
// without persisting since nothing changed.
func (s *BudgetService) AssignFunds(ctx context.Context, accountID, subGoalID string, amount core.Amount) (core.Snapshot, core.AssignResult, error) {
	st, err := s.load(ctx)
	if err != nil {
		return core.Snapshot{}, core.AssignResult{}, err
	}

	next, res := core.AssignFunds(st, accountID, subGoalID, amount)
	if res.Outcome != core.AssignAppliedFull && res.Outcome != core.AssignAppliedPartial {
		return core.Derive(st), res, nil
	}

	next = core.Sanitize(next)
	if err := s.persist(ctx, next); err != nil {
		return core.Snapshot{}, res, err
	}

	slog.InfoContext(ctx, "Funds assigned",
		"account_id", accountID,
		"sub_goal_id", subGoalID,
		"amount", int64(res.Applied),
		"outcome", string(res.Outcome))

	return core.Derive(next), res, nil
}

// AutoAssign runs the greedy sweep over all accounts and open sub-goals.
func (s *BudgetService) AutoAssign(ctx context.Context) (core.Snapshot, core.AutoAssignResult, error) {
	st, err := s.load(ctx)
	if err != nil {
		return core.Snapshot{}, core.AutoAssignResult{}, err
	}

	next, res := core.AutoAssign(st)
	if res.Outcome != core.AutoAssignMoved {
		return core.Derive(st), res, nil
	}

	next = core.Sanitize(next)
	if err := s.persist(ctx, next); err != nil {
		return core.Snapshot{}, res, err
	}

	slog.InfoContext(ctx, "Auto-assigned ready cash",
		"amount", int64(res.Moved),
		"outcome", string(res.Outcome))

	return core.Derive(next), res, nil
}

// AddAccount creates an account; missing fields are backfilled by the
// sanitizer.
func (s *BudgetService) AddAccount(ctx context.Context, acct core.Account) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.AddAccount(st, acct)
	})
}

// UpdateAccount edits an account's name, owner, or balance.
func (s *BudgetService) UpdateAccount(ctx context.Context, acct core.Account) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.UpdateAccount(st, acct)
	})
}

// RemoveAccount deletes an account and cascades to its allocations.
func (s *BudgetService) RemoveAccount(ctx context.Context, accountID string) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.RemoveAccount(st, accountID)
	})
}

// AddGoal creates a goal with its sub-goals.
func (s *BudgetService) AddGoal(ctx context.Context, goal core.Goal) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.AddGoal(st, goal)
	})
}

// RenameGoal sets a goal's display name.
func (s *BudgetService) RenameGoal(ctx context.Context, goalID, name string) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.RenameGoal(st, goalID, name)
	})
}

// RemoveGoal deletes a goal and cascades to its sub-goals' allocations.
func (s *BudgetService) RemoveGoal(ctx context.Context, goalID string) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.RemoveGoal(st, goalID)
	})
}

// AddSubGoal appends a sub-goal to a goal.
func (s *BudgetService) AddSubGoal(ctx context.Context, goalID string, sub core.SubGoal) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.AddSubGoal(st, goalID, sub)
	})
}

// UpdateSubGoal edits a sub-goal's name or target.
func (s *BudgetService) UpdateSubGoal(ctx context.Context, goalID string, sub core.SubGoal) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.UpdateSubGoal(st, goalID, sub)
	})
}

// RemoveSubGoal deletes a sub-goal and cascades to its allocations.
func (s *BudgetService) RemoveSubGoal(ctx context.Context, goalID, subGoalID string) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.RemoveSubGoal(st, goalID, subGoalID)
	})
}

// SetAllocationAmount overwrites one allocation's amount; zeroed rows are
// dropped by sanitization.
func (s *BudgetService) SetAllocationAmount(ctx context.Context, allocationID string, amount core.Amount) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.SetAllocationAmount(st, allocationID, amount)
	})
}

// RemoveAllocation deletes one allocation.
func (s *BudgetService) RemoveAllocation(ctx context.Context, allocationID string) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.RemoveAllocation(st, allocationID)
	})
}

// UpsertReport records one owner's planned/actual savings for a month.
func (s *BudgetService) UpsertReport(ctx context.Context, rep core.MonthlyReport) (core.Snapshot, error) {
	return s.mutate(ctx, func(st core.State) core.State {
		return core.UpsertReport(st, rep)
	})
}

func (s *BudgetService) load(ctx context.Context) (core.State, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return core.State{}, fmt.Errorf("load state: %w", err)
	}
	return core.Sanitize(st), nil
}

func (s *BudgetService) mutate(ctx context.Context, fn func(core.State) core.State) (core.Snapshot, error) {
	st, err := s.load(ctx)
	if err != nil {
		return core.Snapshot{}, err
	}

	next := core.Sanitize(fn(st))
	if err := s.persist(ctx, next); err != nil {
		return core.Snapshot{}, err
	}
	return core.Derive(next), nil
}

func (s *BudgetService) persist(ctx context.Context, st core.State) error {
	revision, err := s.store.Save(ctx, st)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishSnapshotSaved(ctx, revision); err != nil {
			// The budget is already saved; the worker catches up on its
			// periodic re-export.
			slog.ErrorContext(ctx, "Failed to publish snapshot message",
				"revision", revision, "error", err)
		}
	}
	return nil
}
