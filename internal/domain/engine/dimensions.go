package engine

import "github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"

// dimension is one registered analysis unit: a pure scoring function
// with its identity and relative weight.
type dimension struct {
	id     string
	weight int // relative share of the weight budget, in percent
	score  scoreFunc
}

// scoreFunc scores one sign from the call's inputs. nums holds the
// sign's member balls. Implementations return values in [0,100]; the
// boundary clamps and guards them.
type scoreFunc func(c *callCtx, sign zodiac.Sign, nums []int) float64

// weightTotal is the sum of all registered weights. The aggregator
// scales the weighted sum by scoreBudget/weightTotal, so the table can
// change without touching the aggregation.
const weightTotal = 100

// dimensions is the fixed, ordered registration table. Adding or
// removing a dimension is an edit here, never a branch in the
// aggregator.
var dimensions = []dimension{
	// Basic statistics.
	{id: "long_term_missing", weight: 8, score: scoreLongTermMissing},
	{id: "short_term_hot", weight: 7, score: scoreShortTermHot},
	{id: "cycle_pattern", weight: 8, score: scoreCyclePattern},
	{id: "consecutive_penalty", weight: 7, score: scoreConsecutivePenalty},
	// Advanced mathematics.
	{id: "markov_chain", weight: 10, score: scoreMarkovChain},
	{id: "fourier_analysis", weight: 8, score: scoreSpectral},
	{id: "bayesian_probability", weight: 7, score: scoreBayesian},
	// Number properties.
	{id: "number_hot_cold", weight: 5, score: scoreNumberHotCold},
	{id: "tail_trend", weight: 5, score: scoreTailTrend},
	{id: "big_small", weight: 5, score: scoreBigSmall},
	{id: "odd_even", weight: 5, score: scoreOddEven},
	// Metaphysical relations.
	{id: "zodiac_relationship", weight: 5, score: scoreRelationship},
	{id: "five_elements", weight: 5, score: scoreFiveElements},
	{id: "color_wave", weight: 5, score: scoreColorWave},
	// Validation and correction.
	{id: "monte_carlo", weight: 5, score: scoreMonteCarlo},
	{id: "repeat_penalty", weight: 3, score: scoreRepeatPenalty},
	{id: "prime_composite", weight: 2, score: scorePrimeComposite},
}

// DimensionIDs returns the registered dimension ids in table order.
func DimensionIDs() []string {
	ids := make([]string, len(dimensions))
	for i, d := range dimensions {
		ids[i] = d.id
	}
	return ids
}
