package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("period already stored")
	ErrAlreadyVerified = errors.New("prediction already verified")
)
