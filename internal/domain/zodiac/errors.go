package zodiac

import "errors"

// Sentinel errors for sign and number lookups.
var (
	// ErrUnknownSign is returned when a label or value is not one of the
	// twelve signs.
	ErrUnknownSign = errors.New("unknown zodiac sign")

	// ErrOutOfDomain is returned for ball numbers outside 1..50.
	ErrOutOfDomain = errors.New("number outside ball domain")
)
