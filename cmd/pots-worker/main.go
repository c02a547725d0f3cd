package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"pots/internal/amqp"
	"pots/internal/cli"
	applog "pots/internal/log"
	"pots/internal/sheets"
	gsheet "pots/internal/sheets/google"
	"pots/internal/storage"
	"pots/internal/worker"
)

// snapshotHistoryKeep bounds the snapshot log so the database does not
// grow without limit.
const snapshotHistoryKeep = 500

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting pots-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var (
		summary sheets.SummaryAppender
		reports sheets.ReportWriter
	)
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		summary, reports = client, client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	w := worker.NewSnapshotWorker(repo, summary, reports)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		g.Go(func() error {
			err := client.ConsumeSnapshots(ctx, w.HandleSnapshotMessage)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	} else {
		logger.Info("AMQP disabled - relying on periodic export only")
	}

	// Periodic re-export catches revisions whose messages were lost, and
	// keeps the snapshot log pruned.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.ExportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := exportLatest(ctx, repo, w); err != nil {
					logger.Error("Periodic export failed", "error", err)
				}
				if err := repo.PruneSnapshots(ctx, snapshotHistoryKeep); err != nil {
					logger.Error("Snapshot prune failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func exportLatest(ctx context.Context, repo *storage.SQLiteRepository, w *worker.SnapshotWorker) error {
	revision, err := repo.LatestRevision(ctx)
	if err != nil {
		return err
	}
	if revision == 0 {
		return nil
	}
	st, err := repo.LoadRevision(ctx, revision)
	if err != nil {
		return err
	}
	return w.Export(ctx, revision, st)
}
