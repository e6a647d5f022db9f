package engine

import "github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"

const (
	// bigThreshold splits 1..49 into small (<= 24) and big (> 24).
	bigThreshold = 24

	hotColdSpan = 50
	tailSpan    = 20
	bandSpan    = 20
	primeSpan   = 15

	// contrarianScore rewards signs positioned against a recent streak.
	contrarianScore = 80.0
)

// scoreNumberHotCold compares how often the sign's numbers were drawn
// recently against their fair share of the 49 assignable numbers.
func scoreNumberHotCold(c *callCtx, _ zodiac.Sign, nums []int) float64 {
	recent := c.win.RecentSpecials(hotColdSpan)
	if len(recent) == 0 {
		return neutralScore
	}

	member := make(map[int]bool, len(nums))
	for _, n := range nums {
		member[n] = true
	}
	count := 0
	for _, t := range recent {
		if member[t] {
			count++
		}
	}

	expected := float64(len(recent)) * float64(len(nums)) / 49
	if got := float64(count); got < expected {
		score := (expected - got) / expected * 100
		if score > maxDimensionScore {
			return maxDimensionScore
		}
		return score
	}
	score := neutralScore - (float64(count)-expected)/expected*30
	if score < 0 {
		return 0
	}
	return score
}

// scoreTailTrend favors signs whose number tails have gone cold.
func scoreTailTrend(c *callCtx, _ zodiac.Sign, nums []int) float64 {
	recent := c.win.RecentSpecials(tailSpan)
	if len(recent) == 0 {
		return neutralScore
	}

	counts := make(map[int]int, 10)
	for _, t := range recent {
		counts[t%10]++
	}
	tails := make(map[int]bool, len(nums))
	for _, n := range nums {
		tails[n%10] = true
	}

	var total float64
	for tail := range tails {
		if cold := 10 - counts[tail]*2; cold > 0 {
			total += float64(cold)
		}
	}
	score := total / float64(len(tails)) * 10
	if score > maxDimensionScore {
		return maxDimensionScore
	}
	return score
}

func scoreBigSmall(c *callCtx, _ zodiac.Sign, nums []int) float64 {
	recent := c.win.RecentSpecials(bandSpan)
	if len(recent) == 0 {
		return neutralScore
	}

	big := 0
	for _, t := range recent {
		if t > bigThreshold {
			big++
		}
	}
	small := len(recent) - big

	memberBig := 0
	for _, n := range nums {
		if n > bigThreshold {
			memberBig++
		}
	}
	memberSmall := len(nums) - memberBig

	switch {
	case big > small && memberSmall > memberBig:
		return contrarianScore
	case small > big && memberBig > memberSmall:
		return contrarianScore
	}
	return neutralScore
}

func scoreOddEven(c *callCtx, _ zodiac.Sign, nums []int) float64 {
	recent := c.win.RecentSpecials(bandSpan)
	if len(recent) == 0 {
		return neutralScore
	}

	odd := 0
	for _, t := range recent {
		if t%2 == 1 {
			odd++
		}
	}
	even := len(recent) - odd

	memberOdd := 0
	for _, n := range nums {
		if n%2 == 1 {
			memberOdd++
		}
	}
	memberEven := len(nums) - memberOdd

	switch {
	case odd > even && memberEven > memberOdd:
		return contrarianScore
	case even > odd && memberOdd > memberEven:
		return contrarianScore
	}
	return neutralScore
}

func scorePrimeComposite(c *callCtx, _ zodiac.Sign, nums []int) float64 {
	recent := c.win.RecentSpecials(primeSpan)
	if len(recent) == 0 {
		return neutralScore
	}

	primes := 0
	for _, t := range recent {
		if isPrime(t) {
			primes++
		}
	}
	composites := len(recent) - primes

	memberPrimes := 0
	for _, n := range nums {
		if isPrime(n) {
			memberPrimes++
		}
	}
	memberComposites := len(nums) - memberPrimes

	switch {
	case primes > composites && memberComposites > memberPrimes:
		return contrarianScore
	case composites > primes && memberPrimes > memberComposites:
		return contrarianScore
	}
	return neutralScore
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}
