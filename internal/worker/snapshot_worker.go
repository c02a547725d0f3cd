// Package worker consumes snapshot-saved messages and exports budget
// figures to the household spreadsheet. Export failures are retried via
// message requeue; they never touch the stored budget.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"pots/internal/amqp"
	"pots/internal/budget"
	"pots/internal/core"
	"pots/internal/sheets"
)

// SnapshotWorker handles exporting saved budget revisions.
type SnapshotWorker struct {
	store    budget.RevisionLoader
	summary  sheets.SummaryAppender
	reports  sheets.ReportWriter
	lastSeen int64
}

func NewSnapshotWorker(store budget.RevisionLoader, summary sheets.SummaryAppender, reports sheets.ReportWriter) *SnapshotWorker {
	return &SnapshotWorker{
		store:   store,
		summary: summary,
		reports: reports,
	}
}

// HandleSnapshotMessage processes a single snapshot-saved message.
func (w *SnapshotWorker) HandleSnapshotMessage(ctx context.Context, msg *amqp.SnapshotSavedMessage) error {
	if msg.Revision <= w.lastSeen {
		// Requeued or duplicate delivery; the newer revision already went out.
		slog.InfoContext(ctx, "Skipping stale snapshot message",
			"revision", msg.Revision, "last_seen", w.lastSeen)
		return nil
	}

	s, err := w.store.LoadRevision(ctx, msg.Revision)
	if err != nil {
		return fmt.Errorf("load revision %d: %w", msg.Revision, err)
	}

	if err := w.Export(ctx, msg.Revision, s); err != nil {
		return err
	}

	w.lastSeen = msg.Revision
	return nil
}

// Export pushes one revision's derived figures out. Usable directly for
// periodic re-export of the current revision.
func (w *SnapshotWorker) Export(ctx context.Context, revision int64, s core.State) error {
	d := core.Derive(core.Sanitize(s))

	if w.summary != nil {
		ref, err := w.summary.AppendSummary(ctx, revision, d)
		if err != nil {
			return fmt.Errorf("append summary: %w", err)
		}
		slog.InfoContext(ctx, "Exported household summary",
			"revision", revision,
			"ready_to_assign", int64(d.ReadyToAssign),
			"sheets_ref", ref)
	}

	if w.reports != nil && len(d.Reports) > 0 {
		if err := w.reports.WriteReports(ctx, d.Reports); err != nil {
			return fmt.Errorf("write reports: %w", err)
		}
		slog.InfoContext(ctx, "Exported monthly reports",
			"revision", revision,
			"rows", len(d.Reports))
	}

	return nil
}
