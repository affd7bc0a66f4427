package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string `env:"ENV" envDefault:"development"`
	DBDSN          string `env:"DB_DSN"`
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8080"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	Zoom struct {
		Enabled  bool          `env:"ZOOM_ENABLED"`
		APIURL   string        `env:"ZOOM_API_URL"`
		APIToken string        `env:"ZOOM_API_TOKEN"`
		Timeout  time.Duration `env:"ZOOM_TIMEOUT" envDefault:"5s"`
	}

	IdentityCacheSize int `env:"IDENTITY_CACHE_SIZE" envDefault:"1024"`
}

func Load() (*Config, error) {
	// Load .env if present; fall back to plain environment variables.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	if cfg.Zoom.Enabled && cfg.Zoom.APIURL == "" {
		return nil, fmt.Errorf("ZOOM_API_URL is required when ZOOM_ENABLED is set")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
