package engine

import (
	"sort"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

// rank orders scores by final score descending. Ties break on cycle
// ordinal, so equal scores still rank the same way everywhere.
func rank(scores []SignScore) []SignScore {
	ranked := make([]SignScore, len(scores))
	copy(ranked, scores)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Final != ranked[j].Final {
			return ranked[i].Final > ranked[j].Final
		}
		oi, _ := zodiac.Ordinal(ranked[i].Sign)
		oj, _ := zodiac.Ordinal(ranked[j].Sign)
		return oi < oj
	})
	return ranked
}
