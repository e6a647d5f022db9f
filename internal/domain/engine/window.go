package engine

import (
	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

// Window sizing constants.
const (
	// maxWindowSize caps any requested lookback.
	maxWindowSize = 300

	// dynamicSeqDigits is how many trailing digits of the period id
	// select the dynamic window.
	dynamicSeqDigits = 3
)

// dynamicWindows maps the period id's trailing digits mod 5 to a window
// size, so adjacent periods analyze different spans of history.
var dynamicWindows = [5]int{300, 200, 100, 50, 30}

// effectiveWindow resolves the lookback for a period: a positive hint is
// capped at maxWindowSize, anything else selects the dynamic window from
// the period id.
func effectiveWindow(seq string, hint int) (int, error) {
	if err := model.ValidateSeq(seq); err != nil {
		return 0, err
	}
	if hint > 0 {
		if hint > maxWindowSize {
			return maxWindowSize, nil
		}
		return hint, nil
	}

	tail := seq
	if len(tail) > dynamicSeqDigits {
		tail = tail[len(tail)-dynamicSeqDigits:]
	}
	n, err := model.SeqNumber(tail)
	if err != nil {
		return 0, err
	}
	return dynamicWindows[n%int64(len(dynamicWindows))], nil
}

// Window is the read-only, most-recent-first snapshot of draws one
// scoring call analyzes. Size is the requested lookback, which may
// exceed the draws actually available; frequency expectations use Size
// so short history reads as "due" rather than average.
type Window struct {
	draws    []model.Draw
	signs    []zodiac.Sign
	specials []int
	size     int
}

// NewWindow snapshots draws (most recent first) under the requested
// size. The input slice is copied; later appends to the backing store
// never show through.
func NewWindow(draws []model.Draw, size int) Window {
	if size < 1 {
		size = 1
	}
	w := Window{
		draws:    make([]model.Draw, len(draws)),
		signs:    make([]zodiac.Sign, len(draws)),
		specials: make([]int, len(draws)),
		size:     size,
	}
	copy(w.draws, draws)
	for i, d := range w.draws {
		w.signs[i] = d.SpecialSign
		w.specials[i] = d.Special
	}
	return w
}

// Len is the number of draws actually in the window.
func (w Window) Len() int { return len(w.draws) }

// Size is the requested lookback.
func (w Window) Size() int { return w.size }

// Draw returns the i-th draw, 0 being the most recent.
func (w Window) Draw(i int) model.Draw { return w.draws[i] }

// Signs returns the outcome signs, most recent first. Callers must not
// modify the returned slice.
func (w Window) Signs() []zodiac.Sign { return w.signs }

// Specials returns the special balls, most recent first. Callers must
// not modify the returned slice.
func (w Window) Specials() []int { return w.specials }

// RecentSigns returns at most n outcome signs, most recent first.
func (w Window) RecentSigns(n int) []zodiac.Sign {
	if n > len(w.signs) {
		n = len(w.signs)
	}
	return w.signs[:n]
}

// RecentSpecials returns at most n special balls, most recent first.
func (w Window) RecentSpecials(n int) []int {
	if n > len(w.specials) {
		n = len(w.specials)
	}
	return w.specials[:n]
}
