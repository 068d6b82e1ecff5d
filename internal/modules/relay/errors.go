package relay

import "errors"

var (
	ErrMissingFields  = errors.New("Missing webhookUrl or data")
	ErrHostNotAllowed = errors.New("Invalid webhook URL")
	ErrUpstream       = errors.New("webhook delivery failed")
)
