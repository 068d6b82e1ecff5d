package status

import (
	"context"

	"viewminder/internal/domain"
)

type bookingReader interface {
	GetByID(ctx context.Context, bookingID string) (*domain.Booking, error)
}

// changeWatcher signals when a booking document may have changed.
type changeWatcher interface {
	Watch(key string) (<-chan struct{}, func())
}
