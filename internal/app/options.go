package service

import (
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/dedupe"
	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTopN sets how many categories each automatic prediction keeps.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithSyncYears sets how many calendar years the initial backfill
// covers.
func WithSyncYears(years int) Option {
	return func(s *Service) {
		if years > 0 {
			s.syncYears = years
		}
	}
}

// WithLocation overrides the draw calendar's time zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithDeduper replaces the in-memory period tracker.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Service) {
		if d != nil {
			s.deduper = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
