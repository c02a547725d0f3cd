package sheets

import (
	"context"

	"pots/internal/core"
)

// Ports for outbound export adapters.
type (
	// SummaryAppender receives one row of household figures per saved
	// revision, for the family's shared progress spreadsheet.
	SummaryAppender interface {
		AppendSummary(ctx context.Context, revision int64, d core.Snapshot) (rowRef string, err error)
	}

	// ReportWriter replaces the monthly per-owner savings rows.
	ReportWriter interface {
		WriteReports(ctx context.Context, reports []core.ReportFigures) error
	}
)
