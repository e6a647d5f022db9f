package drawgen

import (
	"context"
	"fmt"
	"sort"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/engine"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

// memoryHistory serves a generated history slice to the engine, newest
// first below the requested bound.
type memoryHistory struct {
	draws []model.Draw // ascending by period
	seqs  []int64      // parallel numeric periods
}

func newMemoryHistory(draws []model.Draw) (*memoryHistory, error) {
	h := &memoryHistory{draws: draws, seqs: make([]int64, len(draws))}
	for i, d := range draws {
		n, err := model.SeqNumber(d.Seq)
		if err != nil {
			return nil, err
		}
		h.seqs[i] = n
	}
	return h, nil
}

func (h *memoryHistory) History(_ context.Context, seq string, limit int) ([]model.Draw, error) {
	bound, err := model.SeqNumber(seq)
	if err != nil {
		return nil, err
	}

	// First index at or past the bound; everything before it qualifies.
	idx := sort.Search(len(h.seqs), func(i int) bool { return h.seqs[i] >= bound })

	out := make([]model.Draw, 0, limit)
	for i := idx - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.draws[i])
	}
	return out, nil
}

// memoryLog accumulates the replay's own predictions so the repeat
// penalty sees them the way it would in production.
type memoryLog struct {
	records []model.PredictionRecord // ascending by period
}

func (l *memoryLog) RecentPredictions(_ context.Context, _ string, k int) ([]model.PredictionRecord, error) {
	out := make([]model.PredictionRecord, 0, k)
	for i := len(l.records) - 1; i >= 0 && len(out) < k; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}

func (l *memoryLog) add(rec model.PredictionRecord) {
	l.records = append(l.records, rec)
}

// ReplayReport summarizes an engine replay over a generated tail.
type ReplayReport struct {
	Replayed    int
	Rate        model.HitRate
	RankHits    []int // hits by pick rank, index 0 is the first pick
	TopSigns    map[zodiac.Sign]int
	DistinctTop int
}

// Diversity reports how much of the wheel the first picks covered, as a
// percentage.
func (r ReplayReport) Diversity() float64 {
	return float64(r.DistinctTop) / float64(zodiac.SignCount) * 100
}

// Replay runs the engine over the last window draws as if each period
// were being predicted the evening before, and scores the picks against
// the generated outcomes.
func Replay(ctx context.Context, draws []model.Draw, window, topN int) (ReplayReport, error) {
	report := ReplayReport{
		RankHits: make([]int, topN),
		TopSigns: make(map[zodiac.Sign]int),
	}
	if window < 1 || len(draws) < 2 {
		return report, nil
	}
	if window > len(draws)-1 {
		window = len(draws) - 1
	}

	history, err := newMemoryHistory(draws)
	if err != nil {
		return report, err
	}
	log := &memoryLog{}
	eng := engine.New(history, log)

	hits := 0
	for _, d := range draws[len(draws)-window:] {
		rec, err := eng.Predict(ctx, d.Seq, 0, topN)
		if err != nil {
			return report, fmt.Errorf("replay %s: %w", d.Seq, err)
		}
		log.add(rec)

		out, err := engine.Verify(rec, d, d.OpenTime)
		if err != nil {
			return report, fmt.Errorf("verify %s: %w", d.Seq, err)
		}

		report.Replayed++
		if top, ok := rec.Top(); ok {
			report.TopSigns[top.Sign]++
		}
		if out.Hit {
			hits++
			report.RankHits[out.Rank-1]++
		}
	}

	report.Rate = model.NewHitRate(report.Replayed, hits)
	report.DistinctTop = len(report.TopSigns)
	return report, nil
}
