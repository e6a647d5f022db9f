package engine

import "github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"

const waveSpan = 15

// scoreRelationship rates the candidate against the latest outcome's
// sign using the fixed opposition and harmony tables.
func scoreRelationship(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	if c.win.Len() < 1 {
		return neutralScore
	}
	last := c.win.Draw(0).SpecialSign

	score := neutralScore
	if zodiac.Clashes(last, sign) {
		score -= 20
	}
	// A sign shares its own trine group.
	if last == sign || zodiac.InTrine(last, sign) {
		score += 30
	}
	if zodiac.Paired(last, sign) {
		score += 40
	}
	return clampScore(score)
}

// scoreFiveElements rates the candidate's element against the latest
// outcome's element along the productive and controlling cycles.
func scoreFiveElements(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	if c.win.Len() < 1 {
		return neutralScore
	}
	last := zodiac.ElementOf(c.win.Draw(0).SpecialSign)
	own := zodiac.ElementOf(sign)

	score := neutralScore
	if zodiac.Generates(last, own) {
		score += 40
	}
	if zodiac.Restricts(last, own) {
		score -= 30
	}
	return clampScore(score)
}

// scoreColorWave favors signs whose numbers sit in waves that have
// lagged the hottest wave recently.
func scoreColorWave(c *callCtx, _ zodiac.Sign, nums []int) float64 {
	recent := c.win.RecentSpecials(waveSpan)
	if len(recent) == 0 {
		return neutralScore
	}

	counts := make(map[zodiac.Wave]int, 3)
	for _, t := range recent {
		counts[zodiac.WaveOf(t)]++
	}
	peak := 0
	for _, w := range zodiac.Waves() {
		if counts[w] > peak {
			peak = counts[w]
		}
	}

	var total float64
	for _, n := range nums {
		if cold := (peak - counts[zodiac.WaveOf(n)]) * 10; cold > 0 {
			total += float64(cold)
		}
	}
	score := total / float64(len(nums))
	if score > maxDimensionScore {
		return maxDimensionScore
	}
	return score
}
