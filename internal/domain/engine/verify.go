package engine

import (
	"fmt"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

// Verify settles a prediction record against its period's actual draw.
// The returned outcome records the special ball, its sign, and the
// 1-based rank of that sign among the picks; rank stays 0 on a miss.
func Verify(rec model.PredictionRecord, draw model.Draw, at time.Time) (model.Outcome, error) {
	if rec.Seq != draw.Seq {
		return model.Outcome{}, fmt.Errorf("%w: record %s, draw %s", ErrSeqMismatch, rec.Seq, draw.Seq)
	}
	if !zodiac.Valid(draw.SpecialSign) {
		return model.Outcome{}, fmt.Errorf("draw %s: %w: %q", draw.Seq, zodiac.ErrUnknownSign, draw.SpecialSign)
	}

	out := model.Outcome{
		Special:    draw.Special,
		Sign:       draw.SpecialSign,
		VerifiedAt: at,
	}
	for i, p := range rec.Picks {
		if p.Sign == draw.SpecialSign {
			out.Hit = true
			out.Rank = i + 1
			break
		}
	}
	return out, nil
}
