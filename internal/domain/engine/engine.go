// Package engine implements the multi-dimensional sign scoring engine.
//
// One scoring call takes an immutable window of past draws, runs the
// eighteen analysis dimensions for every sign, aggregates them under
// fixed weights onto a 95-point budget, adds a seeded perturbation and
// ranks the signs. Identical inputs always produce identical output: all
// randomness derives from the target period id, so a prediction can be
// recomputed and audited at any time.
package engine

import (
	"context"
	"fmt"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
	"github.com/liemgreggy-glitch/fcbot/pkg/metrics"
)

// Scoring constants.
const (
	// maxDimensionScore bounds every raw dimension score.
	maxDimensionScore = 100.0

	// scoreBudget is the composite ceiling before perturbation. The
	// dimension weights are relative shares; the residual up to 100 is
	// deliberately reserved for the perturbation band.
	scoreBudget = 95.0

	// perturbationRange bounds the final per-sign perturbation.
	perturbationRange = 15.0

	// neutralScore is substituted when a dimension lacks the history it
	// needs or fails unexpectedly.
	neutralScore = 50.0

	// recentRecords is how many prior predictions feed the repeat
	// penalty.
	recentRecords = 5
)

// HistorySource serves ordered draw history. Implementations return at
// most limit draws from periods before seq, most recent first, and may
// return fewer when history runs short. The slice must be a consistent
// snapshot: no partially ingested draw may appear.
type HistorySource interface {
	History(ctx context.Context, seq string, limit int) ([]model.Draw, error)
}

// PredictionLog serves the engine's own past output. Implementations
// return at most k records from periods before seq, most recent first.
type PredictionLog interface {
	RecentPredictions(ctx context.Context, seq string, k int) ([]model.PredictionRecord, error)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithPeriodicity selects the spectral dimension implementation. The
// choice is made once at construction and never per call.
func WithPeriodicity(p Periodicity) Option {
	return func(e *Engine) {
		if p != nil {
			e.spectral = p
		}
	}
}

// Engine scores signs for upcoming periods. It owns no state beyond its
// collaborators; calls for different periods may run concurrently.
type Engine struct {
	history  HistorySource
	records  PredictionLog
	spectral Periodicity
}

// New creates an Engine reading draws from history and prior output from
// records.
func New(history HistorySource, records PredictionLog, opts ...Option) *Engine {
	e := &Engine{
		history:  history,
		records:  records,
		spectral: NewFFTPeriodicity(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// SignScore carries one sign's full scoring detail for a period.
type SignScore struct {
	Sign zodiac.Sign `json:"sign"`
	// Dimensions holds the raw per-dimension scores by dimension id,
	// each in [0,100].
	Dimensions map[string]float64 `json:"dimensions"`
	// Composite is the weighted sum scaled onto the 95-point budget.
	Composite float64 `json:"composite"`
	// Final is the composite plus the seeded perturbation; it is the
	// ranking key.
	Final float64 `json:"final"`
}

// callCtx bundles the immutable inputs one scoring call works on.
type callCtx struct {
	win      Window
	recent   []zodiac.Sign // flattened picks of the last records
	mc       map[zodiac.Sign]float64
	spectral Periodicity
}

// Score computes the full twelve-sign standing for the given period, in
// cycle order. windowSize <= 0 selects the dynamic window for the period.
func (e *Engine) Score(ctx context.Context, seq string, windowSize int) ([]SignScore, error) {
	cc, seed, err := e.prepare(ctx, seq, windowSize)
	if err != nil {
		return nil, err
	}
	return e.scoreAll(ctx, cc, seed), nil
}

// Predict scores all signs for the period and returns the ranked top-n
// picks. The returned record carries no timestamp; the caller stamps it
// at persistence time.
func (e *Engine) Predict(ctx context.Context, seq string, windowSize, topN int) (model.PredictionRecord, error) {
	if topN < 1 {
		return model.PredictionRecord{}, fmt.Errorf("%w: %d", ErrInvalidTopN, topN)
	}
	if topN > zodiac.SignCount {
		topN = zodiac.SignCount
	}

	scores, err := e.Score(ctx, seq, windowSize)
	if err != nil {
		return model.PredictionRecord{}, err
	}

	ranked := rank(scores)

	picks := make([]model.Pick, 0, topN)
	for _, sc := range ranked[:topN] {
		nums, numErr := zodiac.Members(sc.Sign)
		if numErr != nil {
			return model.PredictionRecord{}, numErr
		}
		picks = append(picks, model.Pick{Sign: sc.Sign, Numbers: nums, Score: sc.Final})
	}

	return model.PredictionRecord{Seq: seq, Picks: picks}, nil
}

// prepare validates the period id, assembles the history window and the
// repeat-penalty feed, and derives the call's seed.
func (e *Engine) prepare(ctx context.Context, seq string, windowSize int) (*callCtx, int64, error) {
	size, err := effectiveWindow(seq, windowSize)
	if err != nil {
		return nil, 0, err
	}

	draws, err := e.history.History(ctx, seq, size)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching history for %s: %w", seq, err)
	}
	win := NewWindow(draws, size)

	seed, err := seedFor(seq, size)
	if err != nil {
		return nil, 0, err
	}

	var recent []zodiac.Sign
	if e.records != nil {
		recs, recErr := e.records.RecentPredictions(ctx, seq, recentRecords)
		if recErr != nil {
			// The repeat penalty degrades to its no-feedback value
			// rather than failing the whole call.
			logger.Get().Warn(ctx, "recent predictions unavailable",
				logger.String("seq", seq), logger.Error(recErr))
		} else {
			for _, rec := range recs {
				recent = append(recent, rec.PickSigns()...)
			}
		}
	}

	return &callCtx{
		win:      win,
		recent:   recent,
		mc:       simulate(win, subStream(seed, streamMonteCarlo)),
		spectral: e.spectral,
	}, seed, nil
}

// scoreAll runs every dimension for every sign and aggregates.
func (e *Engine) scoreAll(ctx context.Context, cc *callCtx, seed int64) []SignScore {
	perturb := subStream(seed, streamPerturbation)

	out := make([]SignScore, 0, zodiac.SignCount)
	for _, sign := range zodiac.Signs() {
		nums, _ := zodiac.Members(sign)

		dims := make(map[string]float64, len(dimensions))
		var weighted float64
		for _, d := range dimensions {
			v := e.safeScore(ctx, cc, d, sign, nums)
			dims[d.id] = v
			weighted += v * float64(d.weight)
		}

		composite := weighted * scoreBudget / (maxDimensionScore * weightTotal)
		final := composite + (perturb.Float64()*2-1)*perturbationRange

		out = append(out, SignScore{
			Sign:       sign,
			Dimensions: dims,
			Composite:  composite,
			Final:      final,
		})
	}
	return out
}

// safeScore runs one dimension behind a recovery boundary: a panicking
// dimension is reported and scored neutral instead of failing the call.
func (e *Engine) safeScore(ctx context.Context, cc *callCtx, d dimension, sign zodiac.Sign, nums []int) (v float64) {
	defer func() {
		if r := recover(); r != nil {
			v = neutralScore
			metrics.RecordDimensionFailure(d.id)
			logger.Get().Error(ctx, "dimension failed, scoring neutral",
				logger.String("dimension", d.id),
				logger.String("sign", string(sign)),
				logger.Any("panic", r))
		}
	}()
	return clampScore(d.score(cc, sign, nums))
}

// clampScore bounds a raw dimension score to [0,100].
func clampScore(v float64) float64 {
	switch {
	case v != v: // NaN
		return neutralScore
	case v < 0:
		return 0
	case v > maxDimensionScore:
		return maxDimensionScore
	default:
		return v
	}
}
