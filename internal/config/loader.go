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
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if LBET_CONFIG is set
//  3. env (prefix LBET_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("LBET_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: LBET_ADDR, LBET_SHEET_ID, ...
	// Map env keys like LBET_SHEET_ID -> sheet_id (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("LBET_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "lbet_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation.
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.SheetID == "" {
		return nil, fmt.Errorf("%w: sheet_id must not be empty", ErrInvalidConfig)
	}
	if cfg.APIMode != "summary" && cfg.APIMode != "detail" {
		return nil, fmt.Errorf("%w: api_mode must be summary or detail", ErrInvalidConfig)
	}
	if _, _, err := cfg.DailyBoundary(); err != nil {
		return nil, err
	}
	for _, week := range cfg.Weeks() {
		p, _ := cfg.Period(week)
		if _, _, err := p.Bounds(); err != nil {
			return nil, fmt.Errorf("week %d: %w", week, err)
		}
	}
	return &cfg, nil
}
