package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"viewminder/internal/domain"
	"viewminder/internal/pkg/metrics"

	"go.uber.org/zap"
)

const (
	SourceAPI     = "api"
	SourceWebhook = "webhook"
)

type Service struct {
	store   bookingStore
	now     func() time.Time
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewService(store bookingStore, log *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, now: time.Now, log: log, metrics: m}
}

// Persist writes a paid booking at its deterministic path, replacing any
// existing document with the same id. Replays are last-write-wins.
func (s *Service) Persist(ctx context.Context, req SaveBookingRequest, source string) (*SaveBookingResponse, error) {
	id := strings.TrimSpace(req.BookingID)
	if id == "" {
		return nil, ErrMissingBookingID
	}

	now := s.now().UTC()
	b := &domain.Booking{
		BookingID:      id,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerMobile: req.CustomerMobile,
		Suburb:         req.Suburb,
		PropertyLink:   req.PropertyLink,
		InspectionDate: req.InspectionDate,
		InspectionTime: req.InspectionTime,
		PricingTier:    req.PricingTier,
		Price:          int64(req.Price),
		Status:         domain.BookingAssigned,
		PaymentStatus:  domain.PaymentPaid,
		StripeChargeID: req.StripeChargeID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.store.Save(ctx, b)
	s.metrics.BookingsSaved.WithLabelValues(source, metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("save booking %s: %w", id, err)
	}

	path := s.store.Path(id)
	s.log.Info("booking saved", zap.String("booking_id", id), zap.String("path", path), zap.String("source", source))
	return &SaveBookingResponse{
		Success:   true,
		Message:   "Booking saved",
		BookingID: id,
		Path:      path,
	}, nil
}
