// Package config loads server configuration from environment variables.
//
// Every field has a development default, so `go run ./cmd/server` works with
// zero setup — but the defaults are NOT production values. In particular the
// JWT secret default exists only so local development doesn't require a .env
// file; main logs a loud warning when it is still in use.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// devJWTSecret is the known-insecure development fallback.
const devJWTSecret = "dev-secret-change-me-now"

// Config holds all server configuration.
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DBPath      string `env:"DB_PATH" envDefault:"data/schematics.db"`
	UploadDir   string `env:"UPLOAD_DIR" envDefault:"data/uploads"`
	TemplateDir string `env:"TEMPLATE_DIR" envDefault:"web/templates"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"web/static"`

	// JWTSecret signs session tokens. Set it to at least 32 random bytes:
	// JWT_SECRET=$(openssl rand -hex 32)
	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me-now"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"15m"`

	// MaxUploadBytes caps the whole multipart request body. 16 MiB default.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"16777216"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: PORT %d out of range", cfg.Port)
	}
	if cfg.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("config: MAX_UPLOAD_BYTES must be positive")
	}
	return cfg, nil
}

// UsingDevSecret reports whether the insecure development JWT secret is in
// use, so main can warn about it.
func (c Config) UsingDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}
