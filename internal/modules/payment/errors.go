package payment

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrPayloadTooLarge  = errors.New("payload too large")
)
