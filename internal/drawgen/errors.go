package drawgen

import "errors"

// Sentinel kinds for generator errors.
var (
	ErrBadConfig = errors.New("bad generator config")
)
