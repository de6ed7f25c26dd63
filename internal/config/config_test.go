package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/Roost/internal/scoring"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"ROOST_PORT", "ROOST_METRICS_PORT", "ROOST_ADMIN_TOKEN",
		"ROOST_DATABASE_URL", "ROOST_CACHE_PATH", "ROOST_CACHE_TTL_HOURS",
		"ROOST_HERALD_URL", "ROOST_HERALD_ENABLED", "ROOST_ATLAS_URL",
		"ROOST_ATLAS_TOKEN", "ROOST_BUDGET_CAP", "ROOST_LOG_LEVEL",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected empty database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Cache.Path != "roost_cache.db" {
		t.Errorf("expected default cache path, got '%s'", cfg.Cache.Path)
	}
	if cfg.Cache.TTLHours != 168 {
		t.Errorf("expected cache ttl 168h, got %d", cfg.Cache.TTLHours)
	}
	if cfg.Herald.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got '%s'", cfg.Herald.URL)
	}
	if cfg.Herald.Enabled {
		t.Error("expected herald disabled by default")
	}
	if cfg.Atlas.URL != "http://localhost:8110" {
		t.Errorf("expected atlas URL, got '%s'", cfg.Atlas.URL)
	}
	if cfg.Commute.Lat != 44.9258 || cfg.Commute.Lon != -93.4083 {
		t.Errorf("expected Hopkins commute target, got %f,%f", cfg.Commute.Lat, cfg.Commute.Lon)
	}
	if cfg.Preferences.BudgetCap != 2500 {
		t.Errorf("expected budget cap 2500, got %d", cfg.Preferences.BudgetCap)
	}
	if len(cfg.Preferences.Necessities) != 4 {
		t.Errorf("expected 4 necessities, got %d", len(cfg.Preferences.Necessities))
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}

	// Duration helpers
	if cfg.CacheTTL() != 168*time.Hour {
		t.Errorf("expected CacheTTL 168h, got %v", cfg.CacheTTL())
	}
	if cfg.AtlasTimeout() != 10*time.Second {
		t.Errorf("expected AtlasTimeout 10s, got %v", cfg.AtlasTimeout())
	}
	if cfg.ScoutTimeout() != 15*time.Second {
		t.Errorf("expected ScoutTimeout 15s, got %v", cfg.ScoutTimeout())
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROOST_PORT", "9100")
	t.Setenv("ROOST_METRICS_PORT", "9101")
	t.Setenv("ROOST_ADMIN_TOKEN", "secret-token")
	t.Setenv("ROOST_DATABASE_URL", "postgres://localhost/roost_test")
	t.Setenv("ROOST_CACHE_PATH", "/tmp/roost-test.db")
	t.Setenv("ROOST_CACHE_TTL_HOURS", "24")
	t.Setenv("ROOST_HERALD_URL", "nats://nats:4222")
	t.Setenv("ROOST_HERALD_ENABLED", "true")
	t.Setenv("ROOST_ATLAS_URL", "http://atlas:8110")
	t.Setenv("ROOST_ATLAS_TOKEN", "atlas-secret")
	t.Setenv("ROOST_BUDGET_CAP", "2800")
	t.Setenv("ROOST_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9101 {
		t.Errorf("expected metrics port 9101, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/roost_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Cache.Path != "/tmp/roost-test.db" {
		t.Errorf("expected cache path override, got '%s'", cfg.Cache.Path)
	}
	if cfg.Cache.TTLHours != 24 {
		t.Errorf("expected cache ttl 24, got %d", cfg.Cache.TTLHours)
	}
	if cfg.Herald.URL != "nats://nats:4222" {
		t.Errorf("expected herald URL, got '%s'", cfg.Herald.URL)
	}
	if !cfg.Herald.Enabled {
		t.Error("expected herald enabled")
	}
	if cfg.Atlas.URL != "http://atlas:8110" {
		t.Errorf("expected atlas URL, got '%s'", cfg.Atlas.URL)
	}
	if cfg.Atlas.Token != "atlas-secret" {
		t.Errorf("expected atlas token, got '%s'", cfg.Atlas.Token)
	}
	if cfg.Preferences.BudgetCap != 2800 {
		t.Errorf("expected budget cap 2800, got %d", cfg.Preferences.BudgetCap)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "roost.yaml")
	data := `
server:
  port: 9200
commute:
  name: "Downtown Minneapolis"
  lat: 44.9778
  lon: -93.2650
profile:
  budget_cap: 3000
  necessities: ["dishwasher"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9200 {
		t.Errorf("expected port 9200, got %d", cfg.Server.Port)
	}
	// Unset keys keep their defaults.
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected default metrics port, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Commute.Name != "Downtown Minneapolis" {
		t.Errorf("expected commute override, got '%s'", cfg.Commute.Name)
	}
	if cfg.Preferences.BudgetCap != 3000 {
		t.Errorf("expected budget cap 3000, got %d", cfg.Preferences.BudgetCap)
	}
	if len(cfg.Preferences.Necessities) != 1 || cfg.Preferences.Necessities[0] != "dishwasher" {
		t.Errorf("expected necessities replaced, got %v", cfg.Preferences.Necessities)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load("/nonexistent/roost.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestProfileConversion(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	p := cfg.Profile()
	if p.BudgetCap != 2500 || p.IdealBedrooms != 2 || p.IdealBathrooms != 2 {
		t.Errorf("unexpected profile: %+v", p)
	}
	if len(p.Necessities) != 4 || p.Necessities[0] != scoring.AmenityCoveredParking {
		t.Errorf("unexpected necessities: %v", p.Necessities)
	}

	target := cfg.CommuteTarget()
	if target.Lat != 44.9258 || target.Lon != -93.4083 {
		t.Errorf("unexpected commute target: %+v", target)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"metrics port too high", func(c *Config) { c.Server.MetricsPort = 70000 }},
		{"negative ttl", func(c *Config) { c.Cache.TTLHours = -1 }},
		{"lat out of range", func(c *Config) { c.Commute.Lat = 91 }},
		{"lon out of range", func(c *Config) { c.Commute.Lon = -181 }},
	}
	for _, tt := range tests {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tt.name)
		}
	}
}
