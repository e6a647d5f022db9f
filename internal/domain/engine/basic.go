package engine

import (
	"math"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

// Sample spans for the basic statistics dimensions.
const (
	shortTermSpan   = 20
	consecutiveSpan = 5
)

// scoreLongTermMissing rises with the periods elapsed since the sign
// last appeared. The expected gap between appearances is window/12; a
// sign a full double gap overdue scores 100.
func scoreLongTermMissing(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	missing := len(c.win.Signs())
	for i, s := range c.win.Signs() {
		if s == sign {
			missing = i
			break
		}
	}

	expectedGap := float64(c.win.Size()) / zodiac.SignCount
	return math.Min(maxDimensionScore, float64(missing)/expectedGap*50)
}

// scoreShortTermHot is the inverse of recent heat: the rarer the sign in
// the last 20 draws, the higher the score.
func scoreShortTermHot(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	count := 0
	for _, s := range c.win.RecentSigns(shortTermSpan) {
		if s == sign {
			count++
		}
	}
	if count == 0 {
		return maxDimensionScore
	}
	return math.Max(0, maxDimensionScore-float64(count)*15)
}

// scoreCyclePattern rewards signs below their theoretical window/12
// frequency and penalizes those above it.
func scoreCyclePattern(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	count := 0
	for _, s := range c.win.Signs() {
		if s == sign {
			count++
		}
	}

	expected := float64(c.win.Size()) / zodiac.SignCount
	if float64(count) < expected {
		return math.Min(maxDimensionScore, (expected-float64(count))/expected*100)
	}
	return math.Max(0, 50-(float64(count)-expected)/expected*25)
}

// scoreConsecutivePenalty penalizes signs that just appeared: the more
// recent the last hit within the last 5 draws, the lower the score.
func scoreConsecutivePenalty(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	recent := c.win.RecentSigns(consecutiveSpan)
	for i, s := range recent {
		if s != sign {
			continue
		}
		switch {
		case i == 0:
			return 0
		case i <= 2:
			return 30
		default:
			return 60
		}
	}
	return maxDimensionScore
}
