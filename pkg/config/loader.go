// Package config loads configuration structs from environment variables
// using `env` struct tags.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills a new T from the environment and returns it.
//
//	type Settings struct {
//	    BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
//	}
//	settings, err := config.Load[Settings]()
func Load[T any]() (*T, error) {
	cfg := new(T)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Parse fills an existing struct from the environment, for callers that
// embed loaded values in a larger type.
func Parse(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
