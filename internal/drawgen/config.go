// Package drawgen produces synthetic but structurally valid draw
// histories for offline engine exercise and load checks. Generation is
// seeded: the same seed and settings reproduce the same history byte
// for byte.
package drawgen

import (
	"fmt"
	"runtime"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

// Default generation settings.
const (
	DefaultCount    = 500
	DefaultStartSeq = "2020001"
	DefaultTopN     = 2
)

// Config holds the generator settings for one run.
type Config struct {
	Seed         int64  // 0 derives a seed from the wall clock
	Count        int    // number of draws to generate
	StartSeq     string // first period identifier
	Workers      int    // concurrent generation workers
	OutputFile   string // JSON lines target; empty picks a batch-named default
	StorePath    string // when set, seed this store instead of writing a file
	ReplayWindow int    // tail draws to replay through the engine, 0 skips
	TopN         int    // picks per replayed prediction
}

// Validate normalizes the zero values and rejects settings the
// generator cannot honor.
func (c *Config) Validate() error {
	if c.Count < 1 {
		return fmt.Errorf("%w: count %d", ErrBadConfig, c.Count)
	}
	if c.StartSeq == "" {
		c.StartSeq = DefaultStartSeq
	}
	if err := model.ValidateSeq(c.StartSeq); err != nil {
		return fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	if c.TopN < 1 {
		c.TopN = DefaultTopN
	}
	if c.TopN > zodiac.SignCount {
		c.TopN = zodiac.SignCount
	}
	if c.ReplayWindow < 0 {
		return fmt.Errorf("%w: replay window %d", ErrBadConfig, c.ReplayWindow)
	}
	if c.ReplayWindow >= c.Count {
		c.ReplayWindow = c.Count - 1
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return nil
}

// Stats summarizes one generator run.
type Stats struct {
	Batch     string
	Seed      int64
	Generated int
	Written   int
	Stored    int
	Duplicate int
	Duration  time.Duration
	Replay    *ReplayReport
}
