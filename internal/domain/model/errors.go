package model

import "errors"

// Sentinel errors for record validation.
var (
	// ErrMalformedSeq is returned for period identifiers that are empty
	// or not digits only.
	ErrMalformedSeq = errors.New("malformed period id")

	// ErrMalformedDraw is returned when raw draw data has the wrong ball
	// count or repeated balls.
	ErrMalformedDraw = errors.New("malformed draw")

	// ErrNoSpecialSign is returned when a draw's special ball is the one
	// number no sign owns, which makes the outcome uncategorizable.
	ErrNoSpecialSign = errors.New("special ball has no sign")
)
