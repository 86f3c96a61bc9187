package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the service configuration.
const (
	DefaultPort          = 8008
	DefaultCacheTTL      = 60 * time.Second
	DefaultSweepInterval = time.Minute
	DefaultDBPath        = "expiring-map.db"
	DefaultIssuer        = "expiring-map-api"
	DefaultAudience      = "expiring-map-clients"
	DefaultTokenTTL      = 24 * time.Hour
	DefaultSecret        = "development-insecure-secret-change-me"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Cache    CacheConfig    `yaml:"cache"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// CacheConfig controls the shared expiring map.
type CacheConfig struct {
	// TTL applies to every entry. Zero is legal: entries are only visible at the
	// instant they were written.
	TTL time.Duration `yaml:"ttl"`

	// SweepInterval is how often expired entries are reclaimed. Zero disables the
	// periodic sweep; POST /api/entries/sweep still works.
	SweepInterval time.Duration `yaml:"sweep_interval"`

	ConcurrencySafe bool `yaml:"concurrency_safe"`
}

type DatabaseConfig struct {
	// Path of the sqlite file holding user accounts.
	Path string `yaml:"path"`
}

// AuthConfig configures JWT issuing and validation.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	Audience string        `yaml:"audience"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// Load builds the configuration from defaults, the YAML file at path (skipped when
// path is empty) and environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: DefaultPort},
		Cache: CacheConfig{
			TTL:             DefaultCacheTTL,
			SweepInterval:   DefaultSweepInterval,
			ConcurrencySafe: true,
		},
		Database: DatabaseConfig{Path: DefaultDBPath},
		Auth: AuthConfig{
			Secret:   DefaultSecret,
			Issuer:   DefaultIssuer,
			Audience: DefaultAudience,
			TokenTTL: DefaultTokenTTL,
		},
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if err := envDuration("CACHE_TTL", &cfg.Cache.TTL); err != nil {
		return err
	}
	if err := envDuration("CACHE_SWEEP_INTERVAL", &cfg.Cache.SweepInterval); err != nil {
		return err
	}
	envString("DB_PATH", &cfg.Database.Path)
	envString("JWT_SECRET", &cfg.Auth.Secret)
	envString("JWT_ISSUER", &cfg.Auth.Issuer)
	envString("JWT_AUDIENCE", &cfg.Auth.Audience)
	return nil
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range [1, 65535]", cfg.Server.Port)
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if cfg.Cache.SweepInterval < 0 {
		return fmt.Errorf("cache.sweep_interval must not be negative")
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if cfg.Auth.Secret == "" || cfg.Auth.Issuer == "" || cfg.Auth.Audience == "" {
		return fmt.Errorf("auth.secret, auth.issuer and auth.audience are required")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}
