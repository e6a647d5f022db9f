package engine

import (
	"hash/fnv"
	"math/rand"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
)

// Stream labels for the two stochastic consumers. Each consumer draws
// from its own derived stream, so changing one never shifts the other's
// values.
const (
	streamMonteCarlo   = "montecarlo"
	streamPerturbation = "perturbation"
)

// seedMultiplier spreads period ids so that the window size contributes
// distinct low digits to the seed.
const seedMultiplier = 1000

// seedFor derives the call seed from the period id and the effective
// window. The derivation is pure: the same period always reproduces the
// same streams, across calls and process restarts.
func seedFor(seq string, windowSize int) (int64, error) {
	n, err := model.SeqNumber(seq)
	if err != nil {
		return 0, err
	}
	return n*seedMultiplier + int64(windowSize), nil
}

// subStream returns the deterministic random stream for one labeled
// consumer of the call seed.
func subStream(seed int64, label string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(label))
	//nolint:gosec // deterministic streams are the reproducibility contract
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}
