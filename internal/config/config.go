package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Roost/internal/atlas"
	"github.com/MikeSquared-Agency/Roost/internal/scoring"
)

type Config struct {
	Server      ServerConfig   `yaml:"server"`
	Database    DatabaseConfig `yaml:"database"`
	Cache       CacheConfig    `yaml:"cache"`
	Herald      HeraldConfig   `yaml:"herald"`
	Atlas       AtlasConfig    `yaml:"atlas"`
	Scout       ScoutConfig    `yaml:"scout"`
	Commute     CommuteConfig  `yaml:"commute"`
	Preferences ProfileConfig  `yaml:"profile"`
	Logging     LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

// DatabaseConfig selects the store. An empty URL runs on the in-memory store.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type CacheConfig struct {
	Path     string `yaml:"path"`
	TTLHours int    `yaml:"ttl_hours"`
}

type HeraldConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type AtlasConfig struct {
	URL       string `yaml:"url"`
	Token     string `yaml:"token"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type ScoutConfig struct {
	UserAgent string `yaml:"user_agent"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type CommuteConfig struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

type ProfileConfig struct {
	BudgetCap         int      `yaml:"budget_cap"`
	MarketAverageRent int      `yaml:"market_average_rent"`
	IdealBedrooms     int      `yaml:"ideal_bedrooms"`
	IdealBathrooms    int      `yaml:"ideal_bathrooms"`
	IdealAreaSqft     float64  `yaml:"ideal_area_sqft"`
	Necessities       []string `yaml:"necessities"`
	NiceToHaves       []string `yaml:"nice_to_haves"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

func (c *Config) AtlasTimeout() time.Duration {
	return time.Duration(c.Atlas.TimeoutMs) * time.Millisecond
}

func (c *Config) ScoutTimeout() time.Duration {
	return time.Duration(c.Scout.TimeoutMs) * time.Millisecond
}

// Profile converts the configured preferences into the scoring profile.
func (c *Config) Profile() scoring.Profile {
	return scoring.Profile{
		BudgetCap:         c.Preferences.BudgetCap,
		MarketAverageRent: c.Preferences.MarketAverageRent,
		IdealBedrooms:     c.Preferences.IdealBedrooms,
		IdealBathrooms:    c.Preferences.IdealBathrooms,
		IdealAreaSqft:     c.Preferences.IdealAreaSqft,
		Necessities:       amenityIDs(c.Preferences.Necessities),
		NiceToHaves:       amenityIDs(c.Preferences.NiceToHaves),
	}
}

func (c *Config) CommuteTarget() atlas.CommuteTarget {
	return atlas.CommuteTarget{Name: c.Commute.Name, Lat: c.Commute.Lat, Lon: c.Commute.Lon}
}

func amenityIDs(names []string) []scoring.AmenityID {
	out := make([]scoring.AmenityID, 0, len(names))
	for _, n := range names {
		out = append(out, scoring.AmenityID(n))
	}
	return out
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("metrics port %d out of range", c.Server.MetricsPort)
	}
	if c.Cache.TTLHours < 0 {
		return fmt.Errorf("cache ttl_hours %d is negative", c.Cache.TTLHours)
	}
	if c.Commute.Lat < -90 || c.Commute.Lat > 90 {
		return fmt.Errorf("commute lat %f out of range", c.Commute.Lat)
	}
	if c.Commute.Lon < -180 || c.Commute.Lon > 180 {
		return fmt.Errorf("commute lon %f out of range", c.Commute.Lon)
	}
	return nil
}

func Load(path string) (*Config, error) {
	def := scoring.DefaultProfile()
	target := atlas.DefaultCommuteTarget()

	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Cache: CacheConfig{
			Path:     "roost_cache.db",
			TTLHours: 168,
		},
		Herald: HeraldConfig{
			URL:     "nats://localhost:4222",
			Enabled: false,
		},
		Atlas: AtlasConfig{
			URL:       "http://localhost:8110",
			TimeoutMs: 10000,
		},
		Scout: ScoutConfig{
			TimeoutMs: 15000,
		},
		Commute: CommuteConfig{
			Name: target.Name,
			Lat:  target.Lat,
			Lon:  target.Lon,
		},
		Preferences: ProfileConfig{
			BudgetCap:         def.BudgetCap,
			MarketAverageRent: def.MarketAverageRent,
			IdealBedrooms:     def.IdealBedrooms,
			IdealBathrooms:    def.IdealBathrooms,
			IdealAreaSqft:     def.IdealAreaSqft,
			Necessities:       amenityNames(def.Necessities),
			NiceToHaves:       amenityNames(def.NiceToHaves),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func amenityNames(ids []scoring.AmenityID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ROOST_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ROOST_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("ROOST_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("ROOST_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ROOST_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("ROOST_CACHE_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLHours = n
		}
	}
	if v := os.Getenv("ROOST_HERALD_URL"); v != "" {
		cfg.Herald.URL = v
	}
	if v := os.Getenv("ROOST_HERALD_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Herald.Enabled = b
		}
	}
	if v := os.Getenv("ROOST_ATLAS_URL"); v != "" {
		cfg.Atlas.URL = v
	}
	if v := os.Getenv("ROOST_ATLAS_TOKEN"); v != "" {
		cfg.Atlas.Token = v
	}
	if v := os.Getenv("ROOST_BUDGET_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Preferences.BudgetCap = n
		}
	}
	if v := os.Getenv("ROOST_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
