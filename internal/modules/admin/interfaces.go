package admin

import (
	"context"
	"io"
	"time"

	"viewminder/internal/domain"
	"viewminder/internal/storage"
)

type bookingStore interface {
	Save(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
}

type objectStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, progress storage.ProgressFunc) (*storage.Object, error)
	Delete(ctx context.Context, key string) error
}

type tokenIssuer interface {
	GenerateToken(role string) (string, time.Time, error)
}
