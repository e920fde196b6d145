// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/config"
	"github.com/questlog/questlog/internal/game"
	gamepg "github.com/questlog/questlog/internal/game/postgres"
	"github.com/questlog/questlog/internal/store"
)

// Default timeout for the seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout       time.Duration
	adminPassword string
	userPassword  string
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with sample data",
		Long: `Creates an admin account and sample players, quests, and skills.
This command is idempotent - a non-empty database is left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")
	cmd.Flags().StringVar(&cfg.adminPassword, "admin-password", "admin123", "password for the Game Master account")
	cmd.Flags().StringVar(&cfg.userPassword, "user-password", "thomas123", "password for the sample player account")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	databaseURL := os.Getenv(config.EnvDatabaseURL)
	if databaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("%s environment variable is required", config.EnvDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}
	if err := migrator.Close(); err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer pool.Close()

	players := gamepg.NewPlayerRepository(pool)
	svc, err := game.NewService(
		players,
		gamepg.NewQuestRepository(pool),
		gamepg.NewSkillRepository(pool),
		gamepg.NewTransactor(pool),
	)
	if err != nil {
		return err
	}

	existing, err := svc.ListPlayers(ctx)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "check existing players").Wrap(err)
	}
	if len(existing) > 0 {
		cmd.Println("Database already seeded, skipping")
		slog.Info("database already seeded", "players", len(existing))
		return nil
	}

	hasher := auth.NewArgon2idHasher()
	adminHash, err := hasher.Hash(cfg.adminPassword)
	if err != nil {
		return oops.Code("SEED_FAILED").Wrap(err)
	}
	userHash, err := hasher.Hash(cfg.userPassword)
	if err != nil {
		return oops.Code("SEED_FAILED").Wrap(err)
	}

	admin, err := svc.CreatePlayer(ctx, game.CreatePlayerInput{
		Name:         "Game Master",
		ClassName:    "Admin Mage",
		Level:        99,
		XP:           9999,
		IsAdmin:      true,
		PasswordHash: adminHash,
	})
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "create admin").Wrap(err)
	}

	user, err := svc.CreatePlayer(ctx, game.CreatePlayerInput{
		Name:         "Thomas Roncin",
		ClassName:    "Backend Wizard",
		PasswordHash: userHash,
	})
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "create player").Wrap(err)
	}

	skills := map[string]*game.Skill{}
	for _, def := range []struct {
		name  string
		level int
	}{
		{"C intermediate", 2},
		{"Python intermediate", 5},
		{"Git mastering", 3},
	} {
		skill, skillErr := svc.CreateSkill(ctx, def.name, def.level)
		if skillErr != nil {
			return oops.Code("SEED_FAILED").With("skill", def.name).Wrap(skillErr)
		}
		skills[def.name] = skill
	}

	for skillName, playerID := range map[string]ulid.ULID{
		"C intermediate":      user.ID,
		"Python intermediate": user.ID,
		"Git mastering":       admin.ID,
	} {
		if linkErr := svc.AttachSkillToPlayer(ctx, skills[skillName].ID, playerID); linkErr != nil {
			return oops.Code("SEED_FAILED").With("skill", skillName).Wrap(linkErr)
		}
	}

	for _, def := range []struct {
		title   string
		xp      int
		summary string
		skill   string
		ownerID ulid.ULID
	}{
		{
			title:   "Forge the Ancient Function",
			xp:      80,
			summary: "Recreate the printf function in C with format handling.",
			skill:   "C intermediate",
			ownerID: user.ID,
		},
		{
			title:   "Tame the Python Dragon",
			xp:      120,
			summary: "Develop an efficient REST API backend.",
			skill:   "Python intermediate",
			ownerID: admin.ID,
		},
	} {
		ownerID := def.ownerID
		quest, questErr := svc.CreateQuest(ctx, def.title, def.xp, def.summary, &ownerID)
		if questErr != nil {
			return oops.Code("SEED_FAILED").With("quest", def.title).Wrap(questErr)
		}
		if linkErr := svc.AttachSkillToQuest(ctx, skills[def.skill].ID, quest.ID); linkErr != nil {
			return oops.Code("SEED_FAILED").With("quest", def.title).Wrap(linkErr)
		}
	}

	cmd.Println("Database seeded successfully")
	cmd.Printf("Admin login: name=%q\n", admin.Name)
	cmd.Printf("User login: name=%q\n", user.Name)
	slog.Info("database seeded", "admin", admin.Name, "user", user.Name)
	return nil
}
