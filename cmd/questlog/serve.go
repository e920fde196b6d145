// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/config"
	"github.com/questlog/questlog/internal/game"
	gamepg "github.com/questlog/questlog/internal/game/postgres"
	"github.com/questlog/questlog/internal/httpapi"
	"github.com/questlog/questlog/internal/logging"
	"github.com/questlog/questlog/internal/observability"
	"github.com/questlog/questlog/internal/store"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the QuestLog API server",
		Long: `Start the REST API server. Configuration comes from the config
file, flags, and the DATABASE_URL and QUESTLOG_JWT_SECRET environment
variables.`,
		RunE: runServe,
	}

	// Flag names double as config keys for the flag provider.
	flags := cmd.Flags()
	flags.String("server.addr", config.DefaultListenAddr, "API listen address")
	flags.String("server.metrics_addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("log.format", config.DefaultLogFormat, "log format (json or text)")
	flags.Duration("auth.access_ttl", config.DefaultAccessTTL, "access token lifetime")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("questlog", version, cfg.Log.Format)

	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("%s environment variable is required", config.EnvDatabaseURL)
	}
	if cfg.Auth.Secret == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("%s environment variable is required", config.EnvJWTSecret)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}
	defer pool.Close()
	slog.Info("connected to database")

	players := gamepg.NewPlayerRepository(pool)
	gameSvc, err := game.NewService(
		players,
		gamepg.NewQuestRepository(pool),
		gamepg.NewSkillRepository(pool),
		gamepg.NewTransactor(pool),
	)
	if err != nil {
		return err
	}

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.Secret), cfg.Auth.AccessTTL)
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(players, auth.NewArgon2idHasher(), tokens)
	if err != nil {
		return err
	}

	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.Server.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.Server.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()

		obsErrCh, obsErr := obsServer.Start()
		if obsErr != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(obsErr)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	apiServer, err := httpapi.NewServer(cfg.Server.Addr, gameSvc, authSvc, metrics)
	if err != nil {
		return err
	}
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopServers(nil, obsServer)
		return oops.Code("API_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("QuestLog server started")
	slog.Info("server ready", "addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")
	stopServers(apiServer, obsServer)
	slog.Info("shutdown complete")
	return nil
}

// stopServers stops the given servers with a fresh shutdown deadline.
// Either may be nil.
func stopServers(api *httpapi.Server, obs *observability.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if api != nil {
		if err := api.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping api server", "error", err)
		}
	}
	if obs != nil {
		if err := obs.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}
}

// monitorServerErrors cancels the context when a server reports an error,
// so a failed component brings the whole process down gracefully. It exits
// when the channel closes or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
