// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillpad/quillpad/internal/config"
	"github.com/quillpad/quillpad/internal/observability"
	"github.com/quillpad/quillpad/internal/storage"
	"github.com/quillpad/quillpad/internal/store"
)

// ObservabilityServer is the lifecycle of the metrics/health server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// Migrate applies pending migrations.
	// Default: runMigrations
	Migrate func(databaseURL string) error

	// ConnectDB opens the PostgreSQL pool.
	// Default: store.Connect
	ConnectDB func(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error)

	// NewImageStore builds the configured image backend.
	// Default: newImageStore
	NewImageStore func(ctx context.Context, cfg *config.Config) (storage.ImageStore, string, error)

	// NewObservabilityServer creates the metrics/health server.
	// Default: observability.NewServer
	NewObservabilityServer func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer
}

func (d *ServeDeps) applyDefaults() {
	if d.Migrate == nil {
		d.Migrate = runMigrations
	}
	if d.ConnectDB == nil {
		d.ConnectDB = store.Connect
	}
	if d.NewImageStore == nil {
		d.NewImageStore = newImageStore
	}
	if d.NewObservabilityServer == nil {
		d.NewObservabilityServer = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
}
