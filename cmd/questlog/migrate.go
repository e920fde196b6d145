// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/questlog/questlog/internal/config"
	"github.com/questlog/questlog/internal/store"
)

// NewMigrateCmd creates the migrate subcommand and its actions.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, and inspect schema migrations against the PostgreSQL database.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withMigrator(func(cmd *cobra.Command, args []string, m *store.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations applied")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: withMigrator(func(cmd *cobra.Command, args []string, m *store.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations (negative rolls back)",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, args []string, m *store.Migrator) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("MIGRATION_INVALID_ARG").Wrapf(err, "steps argument must be an integer")
				}
				if err := m.Steps(n); err != nil {
					return err
				}
				cmd.Printf("Applied %d migration step(s)\n", n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the current migration version",
			RunE: withMigrator(func(cmd *cobra.Command, args []string, m *store.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("version: %d, dirty: %t\n", version, dirty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Force the migration version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, args []string, m *store.Migrator) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("MIGRATION_INVALID_ARG").Wrapf(err, "version argument must be an integer")
				}
				if err := m.Force(version); err != nil {
					return err
				}
				cmd.Printf("Forced version to %d\n", version)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "List pending migrations",
			RunE: withMigrator(func(cmd *cobra.Command, args []string, m *store.Migrator) error {
				pending, err := m.PendingMigrations()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					cmd.Println("No pending migrations")
					return nil
				}
				for _, version := range pending {
					cmd.Printf("pending: %d\n", version)
				}
				return nil
			}),
		},
	)

	return cmd
}

// withMigrator wraps a migration action with migrator setup and teardown.
func withMigrator(fn func(cmd *cobra.Command, args []string, m *store.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		databaseURL := os.Getenv(config.EnvDatabaseURL)
		if databaseURL == "" {
			return oops.Code("CONFIG_INVALID").
				Errorf("%s environment variable is required", config.EnvDatabaseURL)
		}

		m, err := store.NewMigrator(databaseURL)
		if err != nil {
			return oops.Code("MIGRATION_FAILED").Wrap(err)
		}
		defer func() {
			if closeErr := m.Close(); closeErr != nil {
				slog.Warn("error closing migrator", "error", closeErr)
			}
		}()

		return fn(cmd, args, m)
	}
}
