package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.BaseURL != "https://alpha.randori.io/" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.PageSize)
	}
	if cfg.Sort != "-target_temptation" {
		t.Errorf("Sort = %q", cfg.Sort)
	}
	if cfg.OutputDir != "." {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.UserAgent != "randori-export/"+Version {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.LockTTL != 30*time.Minute {
		t.Errorf("LockTTL = %s, want 30m", cfg.LockTTL)
	}
	if cfg.RedisURL != "" || cfg.PushgatewayURL != "" || cfg.MetricsFile != "" {
		t.Error("optional integrations should be disabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFrom_Environment(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"RANDORI_PLATFORM_URL": "https://randori.internal/",
		"RANDORI_PAGE_SIZE":    "500",
		"RANDORI_SORT":         "name",
		"RANDORI_ENTITIES":     "ip,service",
		"RANDORI_OUTPUT_DIR":   "/var/lib/randori",
		"RANDORI_HTTP_TIMEOUT": "45s",
		"LOG_LEVEL":            "debug",
		"LOG_PRETTY":           "true",
		"REDIS_URL":            "redis://localhost:6379/2",
		"RANDORI_LOCK_TTL":     "1h",
		"PUSHGATEWAY_URL":      "http://pushgateway:9091",
		"RANDORI_METRICS_FILE": "/var/lib/node_exporter/randori.prom",
	})
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.BaseURL != "https://randori.internal/" || cfg.PageSize != 500 || cfg.Sort != "name" {
		t.Errorf("api settings not loaded: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Entities, []string{"ip", "service"}) {
		t.Errorf("Entities = %v", cfg.Entities)
	}
	if cfg.OutputDir != "/var/lib/randori" || cfg.Timeout != 45*time.Second {
		t.Errorf("output/timeout not loaded: %+v", cfg)
	}
	if cfg.LogLevel != "debug" || !cfg.LogPretty {
		t.Errorf("logging not loaded: %+v", cfg)
	}
	if cfg.RedisURL != "redis://localhost:6379/2" || cfg.LockTTL != time.Hour {
		t.Errorf("redis not loaded: %+v", cfg)
	}
	if cfg.PushgatewayURL != "http://pushgateway:9091" || cfg.MetricsFile == "" {
		t.Errorf("metrics not loaded: %+v", cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadFrom_BadValue(t *testing.T) {
	tests := map[string]string{
		"RANDORI_PAGE_SIZE":    "ten",
		"RANDORI_HTTP_TIMEOUT": "soon",
		"LOG_PRETTY":           "maybe",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			if _, err := LoadFrom(map[string]string{key: value}); err == nil {
				t.Errorf("LoadFrom(%s=%q) expected error", key, value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"page size zero", func(c *Config) { c.PageSize = 0 }, "page size"},
		{"page size too large", func(c *Config) { c.PageSize = 2001 }, "page size"},
		{"page size max", func(c *Config) { c.PageSize = 2000 }, ""},
		{"ftp url", func(c *Config) { c.BaseURL = "ftp://randori.io/" }, "http or https"},
		{"no host", func(c *Config) { c.BaseURL = "https:///path" }, "no host"},
		{"unparseable url", func(c *Config) { c.BaseURL = "http://[::1" }, "invalid base url"},
		{"unknown entity", func(c *Config) { c.Entities = []string{"hostname", "certificate"} }, "unknown entity"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"empty output dir", func(c *Config) { c.OutputDir = " " }, "output dir"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "log level"},
		{"redis without ttl", func(c *Config) { c.RedisURL = "redis://localhost"; c.LockTTL = 0 }, "lock ttl"},
		{"ttl ignored without redis", func(c *Config) { c.LockTTL = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSelectedEntities(t *testing.T) {
	cfg := Default()
	cfg.Entities = []string{"target"}

	entities, err := cfg.SelectedEntities()
	if err != nil {
		t.Fatal(err)
	}
	if len(entities) != 1 || entities[0].Endpoint != "recon/api/v1/target" {
		t.Errorf("SelectedEntities() = %+v", entities)
	}
}
