package engine

import "github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"

// scoreMarkovChain estimates P(next = sign) from empirical transitions.
// It conditions first on the latest outcome; when that sign has no other
// observed transitions it falls back to conditioning on the latest pair,
// and to neutral when even that is unobserved.
func scoreMarkovChain(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	signs := c.win.Signs()
	if len(signs) < 2 {
		return neutralScore
	}

	// First order: wherever the latest sign appeared earlier in the
	// window, what followed it? signs is most-recent-first, so the
	// successor of position j is position j-1.
	last := signs[0]
	total, hits := 0, 0
	for j := 1; j < len(signs); j++ {
		if signs[j] != last {
			continue
		}
		total++
		if signs[j-1] == sign {
			hits++
		}
	}
	if total > 0 {
		return float64(hits) / float64(total) * 100
	}

	// Second order on the latest pair.
	total, hits = 0, 0
	for k := 1; k+1 < len(signs); k++ {
		if signs[k] != signs[0] || signs[k+1] != signs[1] {
			continue
		}
		total++
		if signs[k-1] == sign {
			hits++
		}
	}
	if total > 0 {
		return float64(hits) / float64(total) * 100
	}

	return neutralScore
}
