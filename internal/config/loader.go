package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if ISOTOPE_CONFIG is set
//  3. env (prefix ISOTOPE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ISOTOPE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ISOTOPE_ADDR, ISOTOPE_STORAGE_DRIVER, ...
	// Map env keys like ISOTOPE_STORAGE_DRIVER -> storage_driver (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ISOTOPE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "isotope_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch cfg.StorageDriver {
	case "memory", "sqlite":
	default:
		return nil, fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, cfg.StorageDriver)
	}
	if cfg.ElementMultiplier < 0 {
		return nil, fmt.Errorf("%w: element_multiplier must not be negative", ErrInvalidConfig)
	}
	return &cfg, nil
}
