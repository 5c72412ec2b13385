// Package config loads randori-export settings from the environment.
// Command-line flags are layered on top by cmd/randori-export.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"

	"github.com/Sternrassler/randori-export/pkg/client"
	"github.com/Sternrassler/randori-export/pkg/exporter"
	"github.com/Sternrassler/randori-export/pkg/logging"
	"github.com/Sternrassler/randori-export/pkg/pagination"
	"github.com/Sternrassler/randori-export/pkg/runstate"
)

// Version is reported in the default User-Agent and by the version command.
const Version = "0.1.0"

// DefaultSort orders records by descending target temptation.
const DefaultSort = "-target_temptation"

// Config holds runtime settings. The API key is not part of it; pkg/credential
// loads that.
type Config struct {
	BaseURL   string        `env:"RANDORI_PLATFORM_URL"`
	PageSize  int           `env:"RANDORI_PAGE_SIZE"`
	Sort      string        `env:"RANDORI_SORT"`
	Entities  []string      `env:"RANDORI_ENTITIES" envSeparator:","`
	OutputDir string        `env:"RANDORI_OUTPUT_DIR"`
	Timeout   time.Duration `env:"RANDORI_HTTP_TIMEOUT"`
	UserAgent string        `env:"RANDORI_USER_AGENT"`

	LogLevel  string `env:"LOG_LEVEL"`
	LogPretty bool   `env:"LOG_PRETTY"`

	// RedisURL enables the run lock and run summary when set.
	RedisURL string        `env:"REDIS_URL"`
	LockTTL  time.Duration `env:"RANDORI_LOCK_TTL"`

	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
	MetricsFile    string `env:"RANDORI_METRICS_FILE"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BaseURL:   client.DefaultBaseURL,
		PageSize:  pagination.DefaultPageSize,
		Sort:      DefaultSort,
		OutputDir: ".",
		Timeout:   30 * time.Second,
		UserAgent: "randori-export/" + Version,
		LogLevel:  string(logging.LevelInfo),
		LockTTL:   runstate.DefaultLockTTL,
	}
}

// LoadFrom returns the defaults overridden by environment variables. A nil
// environ reads the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := Default()

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings that can be checked without network access.
func (c *Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > pagination.MaxPageSize {
		return fmt.Errorf("page size must be between 1 and %d (got %d)", pagination.MaxPageSize, c.PageSize)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url must be http or https (got %q)", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base url has no host (got %q)", c.BaseURL)
	}

	if _, err := exporter.SelectEntities(c.Entities); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", c.Timeout)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output dir is required")
	}
	if !logging.ValidLevel(logging.LogLevel(c.LogLevel)) {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.RedisURL != "" && c.LockTTL <= 0 {
		return fmt.Errorf("lock ttl must be > 0 (got %s)", c.LockTTL)
	}

	return nil
}

// SelectedEntities resolves Entities against the known entity list.
func (c *Config) SelectedEntities() ([]exporter.Entity, error) {
	return exporter.SelectEntities(c.Entities)
}
