// Package model contains domain records passed between layers.
package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

// DrawNumbers is the count of balls in one draw.
const DrawNumbers = 7

// DrawLocation returns the draw calendar's time zone. Falls back to a
// fixed UTC+8 zone when the tz database is unavailable.
func DrawLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}

// Draw is one completed lottery outcome. It is immutable once ingested:
// the seventh ball is the special number and its sign decides the draw's
// outcome category.
type Draw struct {
	Seq         string      `json:"seq"`          // period identifier, digits only, e.g. "2024123"
	Numbers     [7]int      `json:"numbers"`      // balls in drawn order
	Special     int         `json:"special"`      // the seventh ball
	SpecialSign zodiac.Sign `json:"special_sign"` // sign owning the special ball
	OpenTime    time.Time   `json:"open_time"`
}

// NewDraw validates raw draw data and derives the special sign.
func NewDraw(seq string, numbers []int, openTime time.Time) (Draw, error) {
	if err := ValidateSeq(seq); err != nil {
		return Draw{}, err
	}
	if len(numbers) != DrawNumbers {
		return Draw{}, fmt.Errorf("%w: got %d numbers, want %d", ErrMalformedDraw, len(numbers), DrawNumbers)
	}

	var d Draw
	seen := make(map[int]bool, DrawNumbers)
	for i, n := range numbers {
		if n < zodiac.MinNumber || n > zodiac.MaxNumber {
			return Draw{}, fmt.Errorf("%w: ball %d", zodiac.ErrOutOfDomain, n)
		}
		if seen[n] {
			return Draw{}, fmt.Errorf("%w: duplicate ball %d", ErrMalformedDraw, n)
		}
		seen[n] = true
		d.Numbers[i] = n
	}

	d.Seq = seq
	d.Special = d.Numbers[DrawNumbers-1]
	sign, ok, err := zodiac.SignOf(d.Special)
	if err != nil {
		return Draw{}, err
	}
	if !ok {
		return Draw{}, fmt.Errorf("%w: special ball %d", ErrNoSpecialSign, d.Special)
	}
	d.SpecialSign = sign
	d.OpenTime = openTime

	return d, nil
}

// ValidateSeq checks that a period identifier is non-empty and digits only.
func ValidateSeq(seq string) error {
	if seq == "" {
		return fmt.Errorf("%w: empty", ErrMalformedSeq)
	}
	for _, r := range seq {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrMalformedSeq, seq)
		}
	}
	return nil
}

// SeqNumber converts a period identifier to its numeric value.
func SeqNumber(seq string) (int64, error) {
	if err := ValidateSeq(seq); err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(seq, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedSeq, seq)
	}
	return n, nil
}

// NextSeq returns the period identifier following seq.
func NextSeq(seq string) (string, error) {
	n, err := SeqNumber(seq)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n+1, 10), nil
}
