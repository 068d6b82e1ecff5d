package repository

import (
	"context"

	"viewminder/internal/domain"
)

type changePublisher interface {
	Publish(key string)
}

// NotifyingStore publishes the booking id on the change feed after every
// successful Save, so in-process status watchers see writes immediately.
type NotifyingStore struct {
	BookingStore
	feed changePublisher
}

func WithChangeFeed(store BookingStore, feed changePublisher) *NotifyingStore {
	return &NotifyingStore{BookingStore: store, feed: feed}
}

func (s *NotifyingStore) Save(ctx context.Context, b *domain.Booking) error {
	if err := s.BookingStore.Save(ctx, b); err != nil {
		return err
	}
	s.feed.Publish(b.BookingID)
	return nil
}
