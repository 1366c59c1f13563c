// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quillpad Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/quillpad/quillpad/internal/auth"
	authpg "github.com/quillpad/quillpad/internal/auth/postgres"
	"github.com/quillpad/quillpad/internal/blog"
	blogpg "github.com/quillpad/quillpad/internal/blog/postgres"
	"github.com/quillpad/quillpad/internal/config"
	"github.com/quillpad/quillpad/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// Seed account credentials. The password is for local development only.
const (
	seedUsername = "admin"
	seedEmail    = "admin@quillpad.local"
	seedPassword = "changeme-please"
)

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with an initial account and post",
		Long: `Creates an initial admin account and a welcome post.
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	config.Flags(cmd.Flags())
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	appCfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	logger := slog.Default()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, appCfg.DB.URL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := authpg.NewUserRepository(pool)
	posts := blogpg.NewPostRepository(pool)

	admin, err := seedAdminUser(ctx, cmd, users)
	if err != nil {
		return err
	}

	if err := seedWelcomePost(ctx, cmd, posts, admin); err != nil {
		return err
	}

	cmd.Println("Seeding complete!")
	return nil
}

// seedAdminUser creates the admin account, or returns the existing one.
func seedAdminUser(ctx context.Context, cmd *cobra.Command, users auth.UserRepository) (*auth.User, error) {
	existing, err := users.GetByUsername(ctx, seedUsername)
	if err == nil {
		cmd.Println("Admin account already exists, skipping")
		return existing, nil
	}
	if !errors.Is(err, auth.ErrNotFound) {
		return nil, oops.Code("SEED_FAILED").With("operation", "check admin account").Wrap(err)
	}

	hash, err := auth.NewArgon2idHasher().Hash(seedPassword)
	if err != nil {
		return nil, oops.Code("SEED_FAILED").With("operation", "hash seed password").Wrap(err)
	}

	admin, err := auth.NewUser(seedUsername, seedEmail, hash)
	if err != nil {
		return nil, oops.Code("SEED_FAILED").With("operation", "construct admin account").Wrap(err)
	}

	if err := users.Create(ctx, admin); err != nil {
		// A concurrent seed run may have won the race; treat the
		// unique-violation field error as already seeded.
		if _, ok := auth.AsFieldErrors(err); ok {
			cmd.Println("Admin account already exists, skipping")
			return users.GetByUsername(ctx, seedUsername)
		}
		return nil, oops.Code("SEED_FAILED").With("operation", "create admin account").Wrap(err)
	}

	cmd.Println("Created admin account: " + seedUsername)
	slog.Info("created seed account", "username", seedUsername)
	return admin, nil
}

// seedWelcomePost creates the welcome post unless the admin already has posts.
func seedWelcomePost(ctx context.Context, cmd *cobra.Command, posts blog.PostRepository, admin *auth.User) error {
	page, err := posts.ListByAuthorPage(ctx, admin.ID, 1, 1)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "check existing posts").Wrap(err)
	}
	if page.Total > 0 {
		cmd.Println("Welcome post already exists, skipping")
		return nil
	}

	welcome := blog.NewPost(admin.ID, "Welcome to Quillpad",
		"This is your new Quillpad site. Register an account, write posts, and make it yours.")
	if err := posts.Create(ctx, welcome); err != nil {
		return oops.Code("SEED_FAILED").With("operation", "create welcome post").Wrap(err)
	}

	cmd.Println("Created welcome post")
	slog.Info("created seed post", "post_id", welcome.ID.String())
	return nil
}
