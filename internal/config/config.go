// File: internal/config/config.go
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type LicenseConfig struct {
	CodeExpirationDays int `yaml:"code_expiration_days"`
	GenerateAttempts   int `yaml:"generate_attempts"`
	TrialDays          int `yaml:"trial_days"`
	// ActivationRateLimit caps activation attempts per tenant per ActivationWindow.
	ActivationRateLimit int           `yaml:"activation_rate_limit"`
	ActivationWindow    time.Duration `yaml:"activation_window"`
}

type SchedulerConfig struct {
	ExpiryInterval time.Duration `yaml:"expiry_interval"`
	Disabled       bool          `yaml:"disabled"`
}

type StoreConfig struct {
	Currency string `yaml:"currency"`
	// Languages served by the access banner; the first is the fallback.
	Languages []string `yaml:"languages"`
}

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	License   LicenseConfig   `yaml:"license"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Store     StoreConfig     `yaml:"store"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads -config and -dev from the command line.
func LoadConfig() (*Config, error) {
	var configPath string
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()

	return Load(configPath, dev)
}

// Load parses the YAML file at path, applies defaults and validates.
func Load(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.HTTP.Port <= 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = 15 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.License.CodeExpirationDays <= 0 {
		cfg.License.CodeExpirationDays = 90
	}
	if cfg.License.GenerateAttempts <= 0 {
		cfg.License.GenerateAttempts = 8
	}
	if cfg.License.TrialDays <= 0 {
		cfg.License.TrialDays = 14
	}
	if cfg.License.ActivationRateLimit <= 0 {
		cfg.License.ActivationRateLimit = 10
	}
	if cfg.License.ActivationWindow <= 0 {
		cfg.License.ActivationWindow = time.Minute
	}
	if cfg.Scheduler.ExpiryInterval <= 0 {
		cfg.Scheduler.ExpiryInterval = time.Hour
	}
	if cfg.Store.Currency == "" {
		cfg.Store.Currency = "ARS"
	}
	cfg.Store.Currency = strings.ToUpper(cfg.Store.Currency)
	if len(cfg.Store.Languages) == 0 {
		cfg.Store.Languages = []string{"es", "en"}
	}
}

func (cfg *Config) validate() error {
	if cfg.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if len(cfg.Auth.JWTSecret) < 16 {
		return errors.New("auth.jwt_secret must be at least 16 characters")
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
