package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr      string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	GameFile      string        `env:"GAME_FILE"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`
	MatchSize     int           `env:"MATCH_SIZE" envDefault:"3"`
	MatchInterval time.Duration `env:"MATCH_INTERVAL" envDefault:"5s"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
