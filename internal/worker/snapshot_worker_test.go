package worker

import (
	"context"
	"errors"
	"testing"

	"pots/internal/amqp"
	"pots/internal/core"
)

type fakeRevisions struct {
	states map[int64]core.State
}

func (f *fakeRevisions) LoadRevision(_ context.Context, revision int64) (core.State, error) {
	s, ok := f.states[revision]
	if !ok {
		return core.State{}, errors.New("revision not found")
	}
	return s, nil
}

type fakeSummary struct {
	revisions []int64
	snapshots []core.Snapshot
	fail      bool
}

func (f *fakeSummary) AppendSummary(_ context.Context, revision int64, d core.Snapshot) (string, error) {
	if f.fail {
		return "", errors.New("sheets unavailable")
	}
	f.revisions = append(f.revisions, revision)
	f.snapshots = append(f.snapshots, d)
	return "Savings!A2:G2", nil
}

type fakeReports struct {
	rows []core.ReportFigures
}

func (f *fakeReports) WriteReports(_ context.Context, reports []core.ReportFigures) error {
	f.rows = append([]core.ReportFigures(nil), reports...)
	return nil
}

func TestHandleSnapshotMessageExports(t *testing.T) {
	s := core.Sanitize(core.DefaultState())
	s = core.UpsertReport(s, core.MonthlyReport{Month: "2026-01", Owner: "Alex", Planned: 500, Actual: 320})
	s = core.Sanitize(s)

	store := &fakeRevisions{states: map[int64]core.State{7: s}}
	summary := &fakeSummary{}
	reports := &fakeReports{}
	w := NewSnapshotWorker(store, summary, reports)

	err := w.HandleSnapshotMessage(context.Background(), &amqp.SnapshotSavedMessage{Revision: 7})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if len(summary.revisions) != 1 || summary.revisions[0] != 7 {
		t.Fatalf("expected one summary export for revision 7, got %v", summary.revisions)
	}
	if summary.snapshots[0].TotalFunds != 22800 {
		t.Fatalf("summary totalFunds = %d, want 22800", summary.snapshots[0].TotalFunds)
	}
	if len(reports.rows) != 1 || reports.rows[0].Variance != -180 {
		t.Fatalf("expected one report row with variance -180, got %+v", reports.rows)
	}
}

func TestHandleSnapshotMessageSkipsStale(t *testing.T) {
	s := core.Sanitize(core.DefaultState())
	store := &fakeRevisions{states: map[int64]core.State{3: s, 5: s}}
	summary := &fakeSummary{}
	w := NewSnapshotWorker(store, summary, nil)

	if err := w.HandleSnapshotMessage(context.Background(), &amqp.SnapshotSavedMessage{Revision: 5}); err != nil {
		t.Fatalf("handle revision 5: %v", err)
	}
	if err := w.HandleSnapshotMessage(context.Background(), &amqp.SnapshotSavedMessage{Revision: 3}); err != nil {
		t.Fatalf("stale message should be swallowed, got %v", err)
	}
	if len(summary.revisions) != 1 {
		t.Fatalf("stale revision must not export, got %v", summary.revisions)
	}
}

func TestHandleSnapshotMessagePropagatesExportError(t *testing.T) {
	s := core.Sanitize(core.DefaultState())
	store := &fakeRevisions{states: map[int64]core.State{2: s}}
	w := NewSnapshotWorker(store, &fakeSummary{fail: true}, nil)

	if err := w.HandleSnapshotMessage(context.Background(), &amqp.SnapshotSavedMessage{Revision: 2}); err == nil {
		t.Fatalf("export failure should surface so the message is requeued")
	}
	if w.lastSeen != 0 {
		t.Fatalf("failed export must not advance lastSeen")
	}
}

func TestExportWithoutSinksIsNoOp(t *testing.T) {
	w := NewSnapshotWorker(nil, nil, nil)
	if err := w.Export(context.Background(), 1, core.DefaultState()); err != nil {
		t.Fatalf("export without sinks should succeed: %v", err)
	}
}
