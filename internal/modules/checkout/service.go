package checkout

import (
	"context"
	"fmt"
	"math"
	"strings"

	"viewminder/internal/domain"
	"viewminder/internal/pkg/metrics"
	"viewminder/internal/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	sessions    SessionCreator
	frontendURL string
	currency    string
	newID       func() string
	log         *zap.Logger
	metrics     *metrics.Metrics
}

func NewService(sessions SessionCreator, frontendURL, currency string, log *zap.Logger, m *metrics.Metrics) *Service {
	if currency == "" {
		currency = "aud"
	}
	return &Service{
		sessions:    sessions,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		currency:    currency,
		newID:       NewBookingID,
		log:         log,
		metrics:     m,
	}
}

// NewBookingID returns "VM-" followed by 8 upper-case hex characters.
func NewBookingID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "VM-" + strings.ToUpper(id[:8])
}

// MinorUnits converts a whole-currency price to cents, rounding half away from zero.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

func (s *Service) CreateSession(ctx context.Context, req CreateSessionRequest) (*CreateSessionResponse, error) {
	if fields := validator.Validate(req); fields != nil {
		s.metrics.CheckoutSessions.WithLabelValues("invalid").Inc()
		return nil, &ValidationError{Fields: fields}
	}

	md := req.Metadata
	bookingID := s.newID()

	// the submitted price is charged as-is; a mismatch with the listed tier is only logged
	if tier, ok := domain.FindPricingTier(req.PricingTier); ok && MinorUnits(float64(tier.Price)) != MinorUnits(req.Price) {
		s.log.Warn("checkout price differs from listed tier",
			zap.String("booking_id", bookingID),
			zap.String("tier", tier.ID),
			zap.Int64("listed", tier.Price),
			zap.Float64("submitted", req.Price),
		)
	}

	params := SessionParams{
		Currency:      s.currency,
		UnitAmount:    MinorUnits(req.Price),
		ProductName:   fmt.Sprintf("ViewMinder %s Service", md.PricingTierName),
		Description:   fmt.Sprintf("Inspection proxy for %s on %s at %s", md.Suburb, md.InspectionDate, md.InspectionTime),
		CustomerEmail: req.CustomerEmail,
		SuccessURL:    s.frontendURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.frontendURL + "/?canceled=true",
		Metadata: map[string]string{
			"bookingId":       bookingID,
			"customerName":    req.CustomerName,
			"mobile":          md.Mobile,
			"suburb":          md.Suburb,
			"propertyLink":    md.PropertyLink,
			"inspectionDate":  md.InspectionDate,
			"inspectionTime":  md.InspectionTime,
			"pricingTier":     req.PricingTier,
			"pricingTierName": md.PricingTierName,
		},
	}

	session, err := s.sessions.CreateSession(ctx, params)
	s.metrics.CheckoutSessions.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		s.log.Error("checkout session failed", zap.String("booking_id", bookingID), zap.Error(err))
		return nil, &ProcessorError{Err: err}
	}

	s.log.Info("checkout session created",
		zap.String("session_id", session.ID),
		zap.String("booking_id", bookingID),
		zap.Int64("unit_amount", params.UnitAmount),
	)
	return &CreateSessionResponse{SessionID: session.ID, URL: session.URL, BookingID: bookingID}, nil
}
