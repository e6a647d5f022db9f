package engine

import (
	"math/rand"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

const (
	// mcMinHistory is the shortest window worth simulating over.
	mcMinHistory = 10
	// mcIterations is the fixed simulation count; each win is worth one
	// score point.
	mcIterations = 100
)

// simulate draws mcIterations outcomes from the window's empirical sign
// distribution under Laplace smoothing and tallies wins per sign. It
// returns nil when the window is too short to estimate from.
func simulate(win Window, rng *rand.Rand) map[zodiac.Sign]float64 {
	if win.Len() < mcMinHistory {
		return nil
	}

	counts := make(map[zodiac.Sign]int, zodiac.SignCount)
	for _, s := range win.Signs() {
		counts[s]++
	}

	signs := zodiac.Signs()
	total := float64(win.Len() + zodiac.SignCount)
	probs := make([]float64, len(signs))
	for i, s := range signs {
		probs[i] = float64(counts[s]+1) / total
	}

	wins := make(map[zodiac.Sign]float64, len(signs))
	for i := 0; i < mcIterations; i++ {
		r := rng.Float64()

		// The probabilities sum to 1 up to rounding; the last sign
		// absorbs the residual.
		pick := len(signs) - 1
		cum := 0.0
		for j, p := range probs {
			cum += p
			if r < cum {
				pick = j
				break
			}
		}
		wins[signs[pick]]++
	}
	return wins
}

func scoreMonteCarlo(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	if c.mc == nil {
		return neutralScore
	}
	return c.mc[sign]
}

// scoreRepeatPenalty suppresses signs the engine itself picked in the
// last rounds, pushing successive predictions apart.
func scoreRepeatPenalty(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	if len(c.recent) == 0 {
		return maxDimensionScore
	}

	n := 0
	for _, s := range c.recent {
		if s == sign {
			n++
		}
	}
	switch n {
	case 0:
		return maxDimensionScore
	case 1:
		return 60
	case 2:
		return 30
	}
	return 0
}
