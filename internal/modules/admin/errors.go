package admin

import "errors"

var (
	ErrInvalidPassword = errors.New("incorrect password")
	ErrBookingNotFound = errors.New("booking not found")
	ErrInvalidStatus   = errors.New("status must be one of: assigned, completed, cancelled")
	ErrNoFiles         = errors.New("no files provided")
	ErrFileIndex       = errors.New("file index out of range")
)
