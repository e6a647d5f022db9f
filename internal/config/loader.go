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

const maxTopN = 12

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if FCBOT_CONFIG is set
//  3. env (prefix FCBOT_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("FCBOT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FCBOT_ADDR, FCBOT_QUEUE_SIZE, ...
	// Map env keys like FCBOT_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve single underscores to match koanf tags on the struct;
	// double underscores become dots for nested keys.
	envProvider := env.Provider("FCBOT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "fcbot_")
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
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
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.SourceBaseURL == "" || c.HistoryBaseURL == "":
		return fmt.Errorf("%w: source urls must not be empty", ErrInvalidConfig)
	case c.SourceTimeoutMS <= 0:
		return fmt.Errorf("%w: source_timeout_ms must be positive", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.TopN < 1 || c.TopN > maxTopN:
		return fmt.Errorf("%w: top_n must be between 1 and %d", ErrInvalidConfig, maxTopN)
	case c.SyncYears < 1:
		return fmt.Errorf("%w: sync_years must be at least 1", ErrInvalidConfig)
	case c.Timezone == "":
		return fmt.Errorf("%w: timezone must not be empty", ErrInvalidConfig)
	}
	return nil
}
