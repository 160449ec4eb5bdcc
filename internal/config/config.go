// Package config loads the iconset runtime settings from the environment.
// Provider attributes and CLI flags override these values.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultMaxBytes is the upload size ceiling (100 KiB).
const DefaultMaxBytes = 100 * 1024

// Config holds the runtime settings.
type Config struct {
	StoreBackend string        `env:"ICONSET_STORE_BACKEND"  envDefault:"file"`
	StorePath    string        `env:"ICONSET_STORE_PATH"     envDefault:"icons.json"`
	MaxBytes     int64         `env:"ICONSET_MAX_BYTES"      envDefault:"102400"`
	LogLevel     string        `env:"ICONSET_LOG_LEVEL"      envDefault:"info"`
	HTTPRetryMax int           `env:"ICONSET_HTTP_RETRY_MAX" envDefault:"3"`
	HTTPTimeout  time.Duration `env:"ICONSET_HTTP_TIMEOUT"   envDefault:"30s"`
}

// Default returns the built-in defaults without consulting the environment.
func Default() Config {
	return Config{
		StoreBackend: "file",
		StorePath:    "icons.json",
		MaxBytes:     DefaultMaxBytes,
		LogLevel:     "info",
		HTTPRetryMax: 3,
		HTTPTimeout:  30 * time.Second,
	}
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.MaxBytes <= 0 {
		return fmt.Errorf("max bytes must be positive, got %d", c.MaxBytes)
	}
	if c.HTTPRetryMax < 0 {
		return fmt.Errorf("http retry max must not be negative, got %d", c.HTTPRetryMax)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
