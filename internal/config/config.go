package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration loaded from environment variables.
type Config struct {
	Addr      string `env:"ADDR" envDefault:":3000"`
	DBPath    string `env:"DB_PATH" envDefault:":memory:"`
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
