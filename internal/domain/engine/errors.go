package engine

import "errors"

// Sentinel errors for scoring and verification calls.
var (
	// ErrInvalidTopN is returned when a prediction asks for fewer than
	// one pick.
	ErrInvalidTopN = errors.New("top-n must be at least 1")

	// ErrSeqMismatch is returned when a record is verified against a
	// draw from a different period.
	ErrSeqMismatch = errors.New("record and draw period differ")
)
