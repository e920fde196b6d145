// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the QuestLog CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questlog",
		Short: "QuestLog - a gamified portfolio tracker backend",
		Long: `QuestLog is a REST backend for a gamified portfolio tracker:
players, quests, and skills with JWT authentication and an
admin/owner authorization rule.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
