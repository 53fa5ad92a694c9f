package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string     `env:"HTTP_ADDR" envDefault:":3001"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir    string     `env:"SPA_DIR" envDefault:"../web/dist"`
	MediaDir  string     `env:"MEDIA_DIR" envDefault:"uploads"`
	PublicURL string     `env:"PUBLIC_URL" envDefault:"http://localhost:3001"`
	AuthMode  string     `env:"AUTH_MODE" envDefault:"password"`
	SentryDSN string     `env:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	// Local development keeps overrides in a .env file; absence is fine.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
