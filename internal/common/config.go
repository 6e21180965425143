// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Pricing     PricingConfig `toml:"pricing"`
	Auth        AuthConfig    `toml:"auth"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds portfolio store configuration.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Polygon PolygonConfig `toml:"polygon"`
	Stooq   StooqConfig   `toml:"stooq"`
	EDGAR   EDGARConfig   `toml:"edgar"`
}

// PolygonConfig holds Polygon.io API configuration
type PolygonConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *PolygonConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// StooqConfig holds Stooq CSV feed configuration
type StooqConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *StooqConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// EDGARConfig holds SEC EDGAR configuration. The SEC requires a
// descriptive User-Agent with a contact address on all requests.
type EDGARConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EDGARConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// PricingConfig tunes the price resolver.
type PricingConfig struct {
	LookbackDays  int `toml:"lookback_days"`  // calendar days searched backwards for a price
	MaxConcurrent int `toml:"max_concurrent"` // valuation fan-out width
}

// AuthConfig holds authentication configuration for the REST API.
// APIPasswordHash is a bcrypt hash; an empty value disables auth.
type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret"`
	TokenExpiry     string `toml:"token_expiry"`
	APIPasswordHash string `toml:"api_password_hash"`
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/folio",
		},
		Clients: ClientsConfig{
			Polygon: PolygonConfig{
				BaseURL:   "https://api.polygon.io",
				RateLimit: 5,
				Timeout:   "30s",
			},
			Stooq: StooqConfig{
				BaseURL:   "https://stooq.com",
				RateLimit: 2,
				Timeout:   "30s",
			},
			EDGAR: EDGARConfig{
				BaseURL:   "https://www.sec.gov",
				UserAgent: "folio/dev admin@example.com",
				RateLimit: 5,
				Timeout:   "30s",
			},
		},
		Pricing: PricingConfig{
			LookbackDays:  10,
			MaxConcurrent: 4,
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FOLIO_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if key := os.Getenv("POLYGON_API_KEY"); key != "" {
		config.Clients.Polygon.APIKey = key
	}

	if v := os.Getenv("FOLIO_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("FOLIO_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
	if v := os.Getenv("FOLIO_AUTH_PASSWORD_HASH"); v != "" {
		config.Auth.APIPasswordHash = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
