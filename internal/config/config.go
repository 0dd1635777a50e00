// Package config provides layered configuration for closetprune.
//
// Values are resolved in three layers, later layers winning:
//
//  1. Built-in defaults (DefaultConfig)
//  2. Optional YAML file
//  3. Environment variables prefixed CLOSETPRUNE_, with "__" between
//     sections: CLOSETPRUNE_SERVER__ADDR, CLOSETPRUNE_DECLUTTER__MINIMUM_TENURE_DAYS
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CLOSETPRUNE_"
	// PathEnvVar names the config file when --config is not given.
	PathEnvVar = "CLOSETPRUNE_CONFIG"
	// FileName is the config file name inside Dir().
	FileName = "config.yaml"
)

// Config is the complete closetprune configuration.
type Config struct {
	Database  DatabaseConfig  `koanf:"database" yaml:"database"`
	Server    ServerConfig    `koanf:"server" yaml:"server"`
	Auth      AuthConfig      `koanf:"auth" yaml:"auth"`
	Logging   LoggingConfig   `koanf:"logging" yaml:"logging"`
	Declutter analyzer.Config `koanf:"declutter" yaml:"declutter"`
	CLI       CLIConfig       `koanf:"cli" yaml:"cli"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `koanf:"path" yaml:"path"`
}

// ServerConfig configures `closetprune serve`.
type ServerConfig struct {
	Addr              string        `koanf:"addr" yaml:"addr"`
	ReadTimeout       time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins" yaml:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" yaml:"rate_limit_window"`
	// Timezone determines the calendar used for day counts and seasons.
	Timezone string `koanf:"timezone" yaml:"timezone"`
	PIDFile  string `koanf:"pid_file" yaml:"pid_file"`
	LogFile  string `koanf:"log_file" yaml:"log_file"`
}

// AuthConfig configures bearer-token authentication.
type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret" yaml:"jwt_secret"`
	// Disabled skips token checks and serves every request as DevUser.
	Disabled bool          `koanf:"disabled" yaml:"disabled"`
	DevUser  string        `koanf:"dev_user" yaml:"dev_user"`
	TokenTTL time.Duration `koanf:"token_ttl" yaml:"token_ttl"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

// CLIConfig holds defaults for local commands.
type CLIConfig struct {
	// UserID is the owner used by CLI commands.
	UserID string `koanf:"user_id" yaml:"user_id"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	dataDir, err := DataDir()
	if err != nil {
		dataDir = "."
	}

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dataDir, "closetprune.db"),
		},
		Server: ServerConfig{
			Addr:              "127.0.0.1:8080",
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"http://localhost:3000"},
			RateLimitRequests: 60,
			RateLimitWindow:   time.Minute,
			Timezone:          "UTC",
			PIDFile:           filepath.Join(dataDir, "serve.pid"),
			LogFile:           filepath.Join(dataDir, "serve.log"),
		},
		Auth: AuthConfig{
			DevUser:  "local",
			TokenTTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Declutter: analyzer.DefaultConfig(),
		CLI: CLIConfig{
			UserID: "local",
		},
	}
}

// Dir returns the closetprune config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/closetprune if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "closetprune"), nil
}

// DataDir returns ~/.closetprune, where the database and server files live.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".closetprune"), nil
}

// Path resolves the config file: flagValue if set, else $CLOSETPRUNE_CONFIG,
// else config.yaml in Dir().
func Path(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if p := os.Getenv(PathEnvVar); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads defaults, the YAML file at path (skipped if it does not
// exist) and the environment, then validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCommaList(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envTransform maps CLOSETPRUNE_SERVER__RATE_LIMIT_WINDOW to
// server.rate_limit_window.
func envTransform(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "__", ".")
}

// splitCommaList converts a comma-separated string, as set from the
// environment, into a list.
func splitCommaList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}

	var items []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if err := k.Set(path, items); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

// Location returns the configured server timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Server.Timezone, err)
	}
	return loc, nil
}
