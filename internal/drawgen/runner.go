package drawgen

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
)

// Run executes one full generator pass: synthesize the history, write
// it to the configured target and optionally replay the engine over
// the tail. The returned stats carry the batch id and the replay
// report.
func Run(ctx context.Context, cfg *Config) (Stats, error) {
	stats := Stats{Batch: uuid.NewString()}

	if err := cfg.Validate(); err != nil {
		return stats, err
	}
	stats.Seed = cfg.Seed

	log := logger.Get().Named("drawgen")
	log.Info(ctx, "starting generator run",
		logger.String("batch", stats.Batch),
		logger.Int64("seed", cfg.Seed),
		logger.Int("count", cfg.Count),
	)
	started := time.Now()

	draws, err := Generate(ctx, cfg)
	if err != nil {
		return stats, fmt.Errorf("generate: %w", err)
	}
	stats.Generated = len(draws)

	switch {
	case cfg.StorePath != "":
		stored, duplicate, err := SeedStore(ctx, cfg.StorePath, draws)
		stats.Stored, stats.Duplicate = stored, duplicate
		if err != nil {
			return stats, err
		}
	default:
		path := cfg.OutputFile
		if path == "" {
			path = fmt.Sprintf("draws_%s.jsonl", stats.Batch)
		}
		written, err := WriteJSONL(ctx, path, draws)
		stats.Written = written
		if err != nil {
			return stats, err
		}
	}

	if cfg.ReplayWindow > 0 {
		report, err := Replay(ctx, draws, cfg.ReplayWindow, cfg.TopN)
		if err != nil {
			return stats, fmt.Errorf("replay: %w", err)
		}
		stats.Replay = &report

		log.Info(ctx, "replay finished",
			logger.Int("replayed", report.Replayed),
			logger.Int("hits", report.Rate.Hits),
			logger.Float64("hit_rate", report.Rate.Rate),
			logger.Int("distinct_top_signs", report.DistinctTop),
			logger.Float64("top_diversity", report.Diversity()),
		)
	}

	stats.Duration = time.Since(started)
	log.Info(ctx, "generator run finished",
		logger.String("batch", stats.Batch),
		logger.Int("generated", stats.Generated),
		logger.Int("written", stats.Written),
		logger.Int("stored", stats.Stored),
		logger.Int("duplicate", stats.Duplicate),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}
