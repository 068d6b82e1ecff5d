package status

import "errors"

var (
	// ErrNotFound covers both an unknown booking id and an email that does
	// not match. Callers cannot tell the two apart.
	ErrNotFound = errors.New("booking not found or email does not match")

	ErrInvalidRequest = errors.New("bookingId and email are required")
)
