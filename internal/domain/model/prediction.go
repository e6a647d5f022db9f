package model

import (
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

// Pick is one ranked sign in a prediction with its composite score and
// the member balls recommended with it.
type Pick struct {
	Sign    zodiac.Sign `json:"sign"`
	Numbers []int       `json:"numbers"`
	Score   float64     `json:"score"`
}

// Outcome annotates a prediction once the real draw is known. Rank is the
// 1-based position of the actual sign among the picks, 0 on a miss.
type Outcome struct {
	Special    int         `json:"special"`
	Sign       zodiac.Sign `json:"sign"`
	Hit        bool        `json:"hit"`
	Rank       int         `json:"rank"`
	VerifiedAt time.Time   `json:"verified_at"`
}

// PredictionRecord is the engine's ranked output for one period. It is
// append-only: created at scoring time, annotated exactly once when the
// outcome arrives. CreatedAt is stamped by the persistence layer, not the
// engine, so scoring stays reproducible.
type PredictionRecord struct {
	Seq       string    `json:"seq"`
	Picks     []Pick    `json:"picks"`
	CreatedAt time.Time `json:"created_at"`
	Outcome   *Outcome  `json:"outcome,omitempty"`
}

// Verified reports whether the record carries its outcome.
func (r PredictionRecord) Verified() bool {
	return r.Outcome != nil
}

// PickSigns returns the picked signs in rank order.
func (r PredictionRecord) PickSigns() []zodiac.Sign {
	out := make([]zodiac.Sign, len(r.Picks))
	for i, p := range r.Picks {
		out[i] = p.Sign
	}
	return out
}

// Top returns the first pick and false when the record has none.
func (r PredictionRecord) Top() (Pick, bool) {
	if len(r.Picks) == 0 {
		return Pick{}, false
	}
	return r.Picks[0], true
}
