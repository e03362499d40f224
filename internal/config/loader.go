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
//  2. file (YAML) if REELPICK_CONFIG is set
//  3. env (prefix REELPICK_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided.
	if path := os.Getenv("REELPICK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: REELPICK_ADDR, REELPICK_ITEMS_PATH, ...
	// Map env keys like REELPICK_ITEMS_PATH -> items_path (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("REELPICK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "reelpick_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy.
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ItemsPath == "":
		return fmt.Errorf("%w: items_path must not be empty", ErrInvalidConfig)
	case c.UsersPath == "":
		return fmt.Errorf("%w: users_path must not be empty", ErrInvalidConfig)
	case c.UserPoolSize < 1:
		return fmt.Errorf("%w: user_pool_size must be positive", ErrInvalidConfig)
	case c.JointUserPool < 1:
		return fmt.Errorf("%w: joint_user_pool must be positive", ErrInvalidConfig)
	case c.NeighborProbeAttempts < 1:
		return fmt.Errorf("%w: neighbor_probe_attempts must be positive", ErrInvalidConfig)
	case c.MaxSessions < 1:
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	}
	return nil
}
