package engine

import "github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"

// scoreBayesian conditions on the full state of the latest draw: its
// special sign, size band, and parity. Among earlier draws in the same
// state it measures how often the candidate sign came next.
func scoreBayesian(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	if c.win.Len() < 1 {
		return neutralScore
	}

	latest := c.win.Draw(0)
	lastSign := latest.SpecialSign
	lastBig := latest.Special > bigThreshold
	lastOdd := latest.Special%2 == 1

	total, hits := 0, 0
	for j := 1; j < c.win.Len(); j++ {
		d := c.win.Draw(j)
		if d.SpecialSign != lastSign ||
			(d.Special > bigThreshold) != lastBig ||
			(d.Special%2 == 1) != lastOdd {
			continue
		}
		total++
		if c.win.Draw(j-1).SpecialSign == sign {
			hits++
		}
	}
	if total == 0 {
		return neutralScore
	}
	return float64(hits) / float64(total) * 100
}
