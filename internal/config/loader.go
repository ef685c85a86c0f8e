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

	"github.com/somnolab/sleepq/internal/domain/score"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SLEEPQ_CONFIG is set
//  3. env (prefix SLEEPQ_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SLEEPQ_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SLEEPQ_ADDR, SLEEPQ_STRESS_SCALE, ...
	// Map env keys like SLEEPQ_STRESS_SCALE -> stress_scale (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SLEEPQ_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "sleepq_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if !score.Scale(c.StressScale).Valid() {
		return fmt.Errorf("%w: stress_scale must be declared as %q or %q, got %q",
			ErrInvalidConfig, score.ScaleZeroToTen, score.ScaleZeroToFour, c.StressScale)
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 100 {
		return fmt.Errorf("%w: confidence_threshold must be within [0,100]", ErrInvalidConfig)
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("%w: batch_workers must be positive", ErrInvalidConfig)
	}
	return nil
}
