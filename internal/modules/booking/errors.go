package booking

import "errors"

var (
	ErrMissingBookingID = errors.New("Missing bookingId")
	ErrInvalidPrice     = errors.New("price must be a number")
)
