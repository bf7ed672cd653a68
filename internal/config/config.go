// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor
// principles; a local .env file is honored for development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Session tokens
	JWTSecret string `env:"JWT_SECRET,required"`

	// Comma-separated list of admin email addresses
	AdminEmails string `env:"ADMIN_EMAILS" envDefault:""`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Access log directory (daily-partitioned JSON line files)
	AccessLogDir string `env:"ACCESS_LOG_DIR" envDefault:"logs"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting (sliding window per source address)
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"100"`

	// External lookups
	LookupTimeout  time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"10s"`
	LastFMAPIKey   string        `env:"LASTFM_API_KEY" envDefault:""`
	LastFMBaseURL  string        `env:"LASTFM_BASE_URL" envDefault:"https://ws.audioscrobbler.com/2.0/"`
	FiatRateURL    string        `env:"FIAT_RATE_URL" envDefault:"https://open.er-api.com/v6/latest"`
	CryptoPriceURL string        `env:"CRYPTO_PRICE_URL" envDefault:"https://min-api.cryptocompare.com/data/price"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetAdminEmails parses the comma-separated admin list into a slice.
func (c *Config) GetAdminEmails() []string {
	if c.AdminEmails == "" {
		return nil
	}

	entries := strings.Split(c.AdminEmails, ",")
	result := make([]string, 0, len(entries))

	for _, entry := range entries {
		trimmed := strings.TrimSpace(entry)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load reads the optional .env file, then parses environment variables.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	// A missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
