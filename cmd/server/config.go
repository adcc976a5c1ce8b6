package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envConfig holds the TRAIL_* environment; command-line flags override it.
type envConfig struct {
	Addr        string `env:"TRAIL_ADDR" envDefault:":8080"`
	DataDir     string `env:"TRAIL_DATA_DIR" envDefault:"./data"`
	ConfigDir   string `env:"TRAIL_CONFIG_DIR" envDefault:"./configs"`
	SaveBackend string `env:"TRAIL_SAVE_BACKEND" envDefault:"sqlite"`
	Seed        int64  `env:"TRAIL_SEED" envDefault:"0"`
	TickLog     bool   `env:"TRAIL_TICK_LOG" envDefault:"true"`
	AuditLog    bool   `env:"TRAIL_AUDIT_LOG" envDefault:"true"`
}

// loadEnv reads an optional .env file, then the process environment.
func loadEnv(dotenv string) (envConfig, error) {
	var cfg envConfig
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func validBackend(name string) bool {
	return name == "sqlite" || name == "memory"
}
