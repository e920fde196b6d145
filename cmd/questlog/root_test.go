// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questlog/questlog/internal/config"
	"github.com/questlog/questlog/pkg/errutil"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "seed"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestServeCmd_FlagDefaults(t *testing.T) {
	flags := NewServeCmd().Flags()

	tests := []struct {
		flag string
		want string
	}{
		{"server.addr", config.DefaultListenAddr},
		{"server.metrics_addr", config.DefaultMetricsAddr},
		{"log.format", config.DefaultLogFormat},
		{"auth.access_ttl", config.DefaultAccessTTL.String()},
	}
	for _, tt := range tests {
		f := flags.Lookup(tt.flag)
		require.NotNil(t, f, "flag %q not registered", tt.flag)
		assert.Equal(t, tt.want, f.DefValue)
	}
}

func TestMigrateCmd_Actions(t *testing.T) {
	var names []string
	for _, sub := range NewMigrateCmd().Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"up", "down", "steps", "version", "force", "status"}, names)
}

func TestCommandsRequireDatabaseURL(t *testing.T) {
	t.Setenv(config.EnvDatabaseURL, "")
	t.Setenv(config.EnvJWTSecret, "")

	tests := []struct {
		name string
		args []string
	}{
		{"migrate up", []string{"migrate", "up"}},
		{"migrate status", []string{"migrate", "status"}},
		{"seed", []string{"seed"}},
		{"serve", []string{"serve"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
		})
	}
}

func TestMigrateSteps_RejectsNonInteger(t *testing.T) {
	t.Setenv(config.EnvDatabaseURL, "")

	err := execute(t, "migrate", "steps", "three")
	require.Error(t, err)
	// The missing database URL is checked before the argument.
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestSeedCmd_Flags(t *testing.T) {
	cmd := NewSeedCmd()
	assert.NotNil(t, cmd.Flags().Lookup("timeout"))
	assert.NotNil(t, cmd.Flags().Lookup("admin-password"))
	assert.NotNil(t, cmd.Flags().Lookup("user-password"))
}
