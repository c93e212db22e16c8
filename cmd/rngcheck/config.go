package main

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read from the environment, after an optional .env file.
type Config struct {
	Device  string `env:"SYNCMEM_DEVICE" envDefault:"emulated"`
	Seed    uint32 `env:"SYNCMEM_SEED" envDefault:"1701"`
	Samples int    `env:"SYNCMEM_SAMPLES" envDefault:"10000"`
	DType   string `env:"SYNCMEM_DTYPE" envDefault:"float32"`
	Workers int    `env:"SYNCMEM_WORKERS"` // 0 means one per CPU

	Mu    float64 `env:"SYNCMEM_MU" envDefault:"0"`
	Sigma float64 `env:"SYNCMEM_SIGMA" envDefault:"1"`
	Lower float64 `env:"SYNCMEM_LOWER" envDefault:"-1"`
	Upper float64 `env:"SYNCMEM_UPPER" envDefault:"1"`
	P     float64 `env:"SYNCMEM_P" envDefault:"0.5"`
}

var errInvalidConfig = errors.New("invalid config")

// loadConfig loads .env if present and parses the environment.
func loadConfig() (Config, error) {
	// A missing .env is fine: the environment alone is enough.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Device {
	case "emulated", "webgpu", "none":
	default:
		return fmt.Errorf("%w: SYNCMEM_DEVICE %q (want emulated, webgpu or none)", errInvalidConfig, c.Device)
	}
	switch c.DType {
	case "float32", "float64":
	default:
		return fmt.Errorf("%w: SYNCMEM_DTYPE %q (want float32 or float64)", errInvalidConfig, c.DType)
	}
	if c.Samples <= 0 {
		return fmt.Errorf("%w: SYNCMEM_SAMPLES must be positive, got %d", errInvalidConfig, c.Samples)
	}
	return nil
}
