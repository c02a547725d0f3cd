// Package backend selects and wires the state store the server runs on.
package backend

import (
	"fmt"

	"pots/internal/amqp"
	"pots/internal/budget"
	"pots/internal/budget/memory"
	"pots/internal/config"
	applog "pots/internal/log"
	"pots/internal/services"
	"pots/internal/storage"
)

// Kind names a supported state store implementation.
type Kind string

const (
	MemoryBackend Kind = "memory"
	SQLiteBackend Kind = "sqlite"
)

// IsValid reports whether k names a known backend.
func (k Kind) IsValid() bool {
	return k == MemoryBackend || k == SQLiteBackend
}

// Result bundles an opened store with the publisher and cleanup hook
// that go with it. Publisher is nil when no broker is configured.
type Result struct {
	Store     budget.StateStore
	Publisher services.SnapshotPublisher
	Cleanup   func() error
}

// Open builds the store named by cfg.DataBackend plus an optional AMQP
// publisher. The caller owns Cleanup.
func Open(cfg *config.Config, logger *applog.Logger) (*Result, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentStorage)

	kind := Kind(cfg.DataBackend)
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	res := &Result{}
	var cleanups []func() error

	switch kind {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		cleanups = append(cleanups, repo.Close)
		res.Store = repo
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	case MemoryBackend:
		res.Store = memory.NewFromFile(cfg.SeedFile)
		logger.Info("Initialized memory backend", "seed", cfg.SeedFile)
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// The budget still works without the broker; the worker
			// catches up on its periodic export.
			logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			cleanups = append(cleanups, client.Close)
			res.Publisher = client
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	res.Cleanup = func() error {
		var firstErr error
		for i := len(cleanups) - 1; i >= 0; i-- {
			if err := cleanups[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return res, nil
}
