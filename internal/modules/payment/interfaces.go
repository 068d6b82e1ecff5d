package payment

import (
	"context"

	"viewminder/internal/modules/booking"
)

// EventVerifier authenticates a raw webhook delivery and decodes its envelope.
type EventVerifier interface {
	Verify(payload []byte, signatureHeader string) (*Event, error)
}

type bookingPersister interface {
	Persist(ctx context.Context, req booking.SaveBookingRequest, source string) (*booking.SaveBookingResponse, error)
}
