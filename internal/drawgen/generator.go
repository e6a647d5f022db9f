package drawgen

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
)

// drawHour places every synthetic draw on the real draw clock.
const (
	drawHour   = 21
	drawMinute = 32
	drawSecond = 32
)

// progressEvery is the generation progress log interval.
const progressEvery = 100000

// drawStream returns the deterministic random stream for one draw
// index. Each index owns its own stream, so workers can fill the slice
// in any order and still reproduce the same history.
func drawStream(seed int64, index int) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(strconv.Itoa(index)))
	//nolint:gosec // deterministic streams are the reproducibility contract
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}

// Generate produces cfg.Count synthetic draws with consecutive period
// identifiers starting at cfg.StartSeq, one per day on the draw clock.
func Generate(ctx context.Context, cfg *Config) ([]model.Draw, error) {
	start, err := model.SeqNumber(cfg.StartSeq)
	if err != nil {
		return nil, err
	}
	base := baseTime(cfg.StartSeq)

	log := logger.Get().Named("drawgen")
	log.Info(ctx, "generating draws",
		logger.Int("count", cfg.Count),
		logger.String("start_seq", cfg.StartSeq),
		logger.Int64("seed", cfg.Seed),
		logger.Int("workers", cfg.Workers),
	)

	draws := make([]model.Draw, cfg.Count)

	workers := cfg.Workers
	if workers > cfg.Count {
		workers = cfg.Count
	}
	perWorker := cfg.Count / workers

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		groupErr error
	)
	fail := func(err error) {
		errOnce.Do(func() { groupErr = err })
	}

	for w := 0; w < workers; w++ {
		lo := w * perWorker
		hi := lo + perWorker
		if w == workers-1 {
			hi = cfg.Count
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if ctx.Err() != nil {
					fail(ctx.Err())
					return
				}

				seq := strconv.FormatInt(start+int64(i), 10)
				d, err := synthesize(cfg.Seed, i, seq, base)
				if err != nil {
					fail(fmt.Errorf("synthesize draw %s: %w", seq, err))
					return
				}
				draws[i] = d

				if (i+1)%progressEvery == 0 {
					log.Debug(ctx, "generation progress", logger.Int("done", i+1))
				}
			}
		}(lo, hi)
	}
	wg.Wait()

	if groupErr != nil {
		return nil, groupErr
	}

	log.Info(ctx, "draws generated", logger.Int("count", len(draws)))
	return draws, nil
}

// drawableNumbers is the physical ball domain. The unassigned number
// sits outside it: no machine ever drops that ball.
const drawableNumbers = zodiac.UnassignedNumber - 1

// synthesize builds the index-th draw of the run: seven distinct balls
// from the physical domain, drawn from the index's own stream.
func synthesize(seed int64, index int, seq string, base time.Time) (model.Draw, error) {
	rng := drawStream(seed, index)

	perm := rng.Perm(drawableNumbers)
	numbers := make([]int, model.DrawNumbers)
	for i := range numbers {
		numbers[i] = perm[i] + 1
	}

	return model.NewDraw(seq, numbers, base.AddDate(0, 0, index))
}

// baseTime anchors the synthetic calendar on January 1st of the start
// period's year, at the draw time.
func baseTime(startSeq string) time.Time {
	year := 2020
	if len(startSeq) >= 4 {
		if y, err := strconv.Atoi(startSeq[:4]); err == nil && y >= 1993 && y <= 9999 {
			year = y
		}
	}
	return time.Date(year, 1, 1, drawHour, drawMinute, drawSecond, 0, model.DrawLocation())
}
