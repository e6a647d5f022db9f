package source

import "errors"

var (
	// ErrUpstreamStatus indicates a non-success HTTP or payload status.
	ErrUpstreamStatus = errors.New("upstream status")

	// ErrEmptyResponse indicates the upstream returned no draws.
	ErrEmptyResponse = errors.New("empty upstream response")

	// ErrMalformedEntry indicates a draw entry that cannot be parsed.
	ErrMalformedEntry = errors.New("malformed draw entry")
)
