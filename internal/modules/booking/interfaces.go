package booking

import (
	"context"

	"viewminder/internal/domain"
)

type bookingStore interface {
	Save(ctx context.Context, b *domain.Booking) error
	Path(bookingID string) string
}
