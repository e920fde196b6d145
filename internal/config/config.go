// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuestLog Contributors

// Package config loads QuestLog configuration from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
// Secrets (database URL, JWT signing secret) come from the environment
// and never from files.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Default values for server configuration.
const (
	DefaultListenAddr  = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultAccessTTL   = time.Hour
)

// Environment variables carrying secrets.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "QUESTLOG_JWT_SECRET"
)

// Config holds the full QuestLog configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Auth   AuthConfig   `koanf:"auth"`
	Log    LogConfig    `koanf:"log"`

	// DatabaseURL comes from DATABASE_URL, never from the config file.
	DatabaseURL string `koanf:"-"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr        string `koanf:"addr"`
	MetricsAddr string `koanf:"metrics_addr"`
}

// AuthConfig holds token issuance settings. The signing secret comes from
// QUESTLOG_JWT_SECRET, never from the config file.
type AuthConfig struct {
	AccessTTL time.Duration `koanf:"access_ttl"`
	Secret    string        `koanf:"-"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Format string `koanf:"format"`
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if c.Auth.AccessTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.access_ttl must be positive")
	}
	return nil
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty), flag overrides (skipped when flags is nil), and the
// secret environment variables.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	cfg := &Config{
		Server: ServerConfig{
			Addr:        DefaultListenAddr,
			MetricsAddr: DefaultMetricsAddr,
		},
		Auth: AuthConfig{
			AccessTTL: DefaultAccessTTL,
		},
		Log: LogConfig{
			Format: DefaultLogFormat,
		},
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	cfg.DatabaseURL = os.Getenv(EnvDatabaseURL)
	cfg.Auth.Secret = os.Getenv(EnvJWTSecret)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
