package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/blackwell-systems/closetprune/internal/logging"
)

// minJWTSecretLen is the shortest HS256 secret accepted.
const minJWTSecretLen = 32

// Validate checks the whole configuration and reports every problem found.
// An empty jwt_secret is allowed here; `serve` refuses to start without one
// unless auth is disabled.
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	for name, d := range map[string]time.Duration{
		"server.read_timeout":      c.Server.ReadTimeout,
		"server.write_timeout":     c.Server.WriteTimeout,
		"server.shutdown_timeout":  c.Server.ShutdownTimeout,
		"server.rate_limit_window": c.Server.RateLimitWindow,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	if c.Server.RateLimitRequests < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit_requests must be >= 0, got %d", c.Server.RateLimitRequests))
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("server.timezone %q is not a known location", c.Server.Timezone))
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < minJWTSecretLen {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least %d characters", minJWTSecretLen))
	}
	if c.Auth.Disabled && c.Auth.DevUser == "" {
		errs = append(errs, errors.New("auth.dev_user is required when auth is disabled"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL))
	}

	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level %q is not valid", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	if err := c.Declutter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("declutter: %w", err))
	}

	if c.CLI.UserID == "" {
		errs = append(errs, errors.New("cli.user_id is required"))
	}

	return errors.Join(errs...)
}
