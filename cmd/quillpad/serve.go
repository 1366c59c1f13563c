// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quillpad/quillpad/internal/auth"
	authpg "github.com/quillpad/quillpad/internal/auth/postgres"
	"github.com/quillpad/quillpad/internal/blog"
	blogpg "github.com/quillpad/quillpad/internal/blog/postgres"
	"github.com/quillpad/quillpad/internal/config"
	"github.com/quillpad/quillpad/internal/logging"
	"github.com/quillpad/quillpad/internal/mail"
	"github.com/quillpad/quillpad/internal/observability"
	"github.com/quillpad/quillpad/internal/storage"
	"github.com/quillpad/quillpad/internal/store"
	"github.com/quillpad/quillpad/internal/web"
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 5 * time.Second

// sessionSweepInterval is how often expired sessions are purged.
const sessionSweepInterval = time.Hour

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the Quillpad web server: the public site, background session
cleanup, and the metrics endpoint.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd, nil)
		},
	}

	config.Flags(cmd.Flags())
	cmd.Flags().Bool("auto-migrate", true, "run pending database migrations on startup")

	return cmd
}

// runServeWithDeps starts the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	deps.applyDefaults()

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("quillpad", version, cfg.Log.Format, cfg.Log.Level)
	logger := slog.Default()

	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	if autoMigrate, _ := cmd.Flags().GetBool("auto-migrate"); autoMigrate {
		if err := deps.Migrate(cfg.DB.URL); err != nil {
			return err
		}
		logger.Info("database migrations up to date")
	}

	pool, err := deps.ConnectDB(ctx, cfg.DB.URL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := authpg.NewUserRepository(pool)
	sessions := authpg.NewSessionRepository(pool)
	posts := blogpg.NewPostRepository(pool)

	hasher := auth.NewArgon2idHasher()
	authSvc, err := auth.NewServiceWithLogger(users, sessions, hasher, logger)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.TokenSecret))
	if err != nil {
		return err
	}

	mailer, err := mail.NewMailer(mail.Config{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
		BaseURL:  cfg.Server.BaseURL,
	}, logger)
	if err != nil {
		return err
	}

	resetSvc, err := auth.NewPasswordResetServiceWithLogger(users, tokens, hasher, mailer, logger)
	if err != nil {
		return err
	}

	blogSvc, err := blog.NewServiceWithLogger(posts, logger)
	if err != nil {
		return err
	}

	images, imageDir, err := deps.NewImageStore(ctx, cfg)
	if err != nil {
		return err
	}

	var metrics *observability.Metrics
	var obsServer ObservabilityServer
	if cfg.Server.MetricsAddr != "" {
		obsServer = deps.NewObservabilityServer(cfg.Server.MetricsAddr, func() bool { return true })
		metrics = obsServer.Metrics()
	}

	webServer, err := web.NewServer(web.Options{
		Addr:     cfg.Server.Addr,
		Auth:     authSvc,
		Reset:    resetSvc,
		Blog:     blogSvc,
		Users:    users,
		Images:   images,
		Metrics:  metrics,
		Logger:   logger,
		ImageDir: imageDir,
	})
	if err != nil {
		return err
	}

	if obsServer != nil {
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return err
		}
		defer stopServer(obsServer, logger, "observability")
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability", logger)
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	webErrCh, err := webServer.Start()
	if err != nil {
		return err
	}
	defer stopServer(webServer, logger, "web")
	go monitorServerErrors(ctx, cancel, webErrCh, "web", logger)

	go sweepExpiredSessions(ctx, sessions, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	cmd.Println("Quillpad started on " + webServer.Addr())
	logger.Info("quillpad ready", "addr", webServer.Addr())

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")
	return nil
}

// stoppable is the part of a server lifecycle shutdown needs.
type stoppable interface {
	Stop(ctx context.Context) error
}

func stopServer(server stoppable, logger *slog.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Warn("server shutdown failed", "server", name, "error", err)
	}
}

// monitorServerErrors cancels the run context when a server fails.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, name string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			logger.Error("server failed", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}

// sweepExpiredSessions periodically deletes expired sessions.
func sweepExpiredSessions(ctx context.Context, sessions auth.SessionRepository, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := sessions.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("session sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("expired sessions deleted", "count", deleted)
			}
		}
	}
}

// newImageStore builds the configured image backend. For the local backend
// the returned directory is served by the web server.
func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, string, error) {
	if cfg.Storage.Backend == "s3" {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage.S3Bucket, cfg.Storage.S3Region)
		if err != nil {
			return nil, "", err
		}
		return s3Store, "", nil
	}

	localStore, err := storage.NewLocalStore(cfg.Storage.LocalDir)
	if err != nil {
		return nil, "", err
	}
	return localStore, localStore.Dir(), nil
}

// runMigrations applies all pending migrations.
func runMigrations(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Debug("migrator close failed", "error", closeErr)
		}
	}()
	return migrator.Up()
}
