package engine

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

const (
	// spectralMinSamples is the shortest run worth transforming. Below
	// it the gap-variance fallback gives a steadier estimate.
	spectralMinSamples = 30
	// gapSpan bounds how far back the gap fallback looks.
	gapSpan = 50
)

// Periodicity measures how rhythmically a sign recurs in a run of
// outcomes, most recent first. Implementations must be pure.
type Periodicity interface {
	// Strength returns a score in [0, 100], higher when the sign's
	// appearances follow a regular cycle.
	Strength(signs []zodiac.Sign, target zodiac.Sign) float64
}

// FFTPeriodicity scores the dominant non-trivial frequency of the
// sign's appearance signal. Short runs fall back to gap variance.
type FFTPeriodicity struct{}

// NewFFTPeriodicity returns the default spectral scorer.
func NewFFTPeriodicity() Periodicity { return FFTPeriodicity{} }

// Strength implements Periodicity.
func (FFTPeriodicity) Strength(signs []zodiac.Sign, target zodiac.Sign) float64 {
	if len(signs) < spectralMinSamples {
		return gapStrength(signs, target)
	}

	seq := make([]float64, len(signs))
	for i, s := range signs {
		if s == target {
			seq[i] = 1
		}
	}

	coeffs := fourier.NewFFT(len(seq)).Coefficients(nil, seq)

	// The DC bin only reflects how often the sign appears and the
	// Nyquist bin alternation noise; neither is a cycle.
	var peak float64
	for i := 1; i < len(coeffs)-1; i++ {
		if m := cmplx.Abs(coeffs[i]); m > peak {
			peak = m
		}
	}

	score := peak / float64(len(seq)) * 300
	if score > maxDimensionScore {
		return maxDimensionScore
	}
	return score
}

// gapStrength scores regularity from the variance of the gaps between
// appearances. Tight, even gaps score high; erratic ones score zero.
func gapStrength(signs []zodiac.Sign, target zodiac.Sign) float64 {
	span := signs
	if len(span) > gapSpan {
		span = span[:gapSpan]
	}

	var idx []int
	for i, s := range span {
		if s == target {
			idx = append(idx, i)
		}
	}
	if len(idx) < 2 {
		return neutralScore
	}

	gaps := make([]float64, len(idx)-1)
	var mean float64
	for i := 1; i < len(idx); i++ {
		g := float64(idx[i] - idx[i-1])
		gaps[i-1] = g
		mean += g
	}
	mean /= float64(len(gaps))

	var variance float64
	for _, g := range gaps {
		d := g - mean
		variance += d * d
	}
	variance /= float64(len(gaps))

	if variance >= maxDimensionScore {
		return 0
	}
	return maxDimensionScore - variance
}

func scoreSpectral(c *callCtx, sign zodiac.Sign, _ []int) float64 {
	return c.spectral.Strength(c.win.Signs(), sign)
}
