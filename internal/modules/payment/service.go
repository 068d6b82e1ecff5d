package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"viewminder/internal/modules/booking"
	"viewminder/internal/pkg/metrics"

	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"
)

type Service struct {
	verifier  EventVerifier
	persister bookingPersister
	persist   bool
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// NewService wires the relay. persister may be nil, in which case completed
// checkouts are only logged.
func NewService(verifier EventVerifier, persister bookingPersister, persist bool, log *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		verifier:  verifier,
		persister: persister,
		persist:   persist && persister != nil,
		log:       log,
		metrics:   m,
	}
}

// HandleWebhook verifies payload and dispatches the event. The only error it
// returns is a verification failure; everything after verification is
// acknowledged so the processor does not redeliver.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	ev, err := s.verifier.Verify(payload, signatureHeader)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues("unknown", "invalid_signature").Inc()
		s.log.Warn("webhook signature verification failed", zap.Error(err))
		return err
	}

	outcome := "ok"
	switch ev.Type {
	case EventCheckoutCompleted:
		outcome = s.handleCheckoutCompleted(ctx, ev)
	case EventPaymentFailed:
		s.handlePaymentFailed(ev)
	default:
		outcome = "ignored"
		s.log.Info("unhandled webhook event type", zap.String("event_id", ev.ID), zap.String("type", ev.Type))
	}

	s.metrics.WebhookEvents.WithLabelValues(ev.Type, outcome).Inc()
	return nil
}

func (s *Service) handleCheckoutCompleted(ctx context.Context, ev *Event) string {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(ev.Object, &session); err != nil {
		s.log.Error("malformed checkout session payload", zap.String("event_id", ev.ID), zap.Error(err))
		return "malformed"
	}

	req := bookingFromSession(&session)
	s.log.Info("payment successful",
		zap.String("session_id", session.ID),
		zap.String("customer", req.CustomerEmail),
		zap.Float64("amount", float64(session.AmountTotal)/100),
		zap.Any("metadata", session.Metadata),
	)

	if !s.persist {
		return "ok"
	}
	if err := s.persistIsolated(ctx, req); err != nil {
		s.log.Error("booking persistence from webhook failed",
			zap.String("booking_id", req.BookingID),
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		return "persist_failed"
	}
	return "ok"
}

// persistIsolated keeps persister failures, panics included, from escaping
// the webhook acknowledgement.
func (s *Service) persistIsolated(ctx context.Context, req booking.SaveBookingRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("persister panic: %v", r)
		}
	}()
	_, err = s.persister.Persist(ctx, req, booking.SourceWebhook)
	return err
}

func (s *Service) handlePaymentFailed(ev *Event) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Object, &pi); err != nil {
		s.log.Error("malformed payment intent payload", zap.String("event_id", ev.ID), zap.Error(err))
		return
	}
	customer := ""
	if pi.Customer != nil {
		customer = pi.Customer.ID
	}
	s.log.Info("payment failed", zap.String("payment_intent", pi.ID), zap.String("customer", customer))
}

func bookingFromSession(session *stripe.CheckoutSession) booking.SaveBookingRequest {
	md := session.Metadata
	req := booking.SaveBookingRequest{
		BookingID:      md["bookingId"],
		CustomerName:   md["customerName"],
		CustomerEmail:  session.CustomerEmail,
		CustomerMobile: md["mobile"],
		Suburb:         md["suburb"],
		PropertyLink:   md["propertyLink"],
		InspectionDate: md["inspectionDate"],
		InspectionTime: md["inspectionTime"],
		PricingTier:    md["pricingTier"],
		Price:          booking.Price(math.Round(float64(session.AmountTotal) / 100)),
		StripeChargeID: session.ID,
	}
	if req.BookingID == "" {
		req.BookingID = session.ID
	}
	if req.PricingTier == "" {
		req.PricingTier = md["pricingTierName"]
	}
	if d := session.CustomerDetails; d != nil {
		if req.CustomerEmail == "" {
			req.CustomerEmail = d.Email
		}
		if req.CustomerName == "" {
			req.CustomerName = d.Name
		}
		if req.CustomerMobile == "" {
			req.CustomerMobile = d.Phone
		}
	}
	if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
		req.StripeChargeID = session.PaymentIntent.ID
	}
	return req
}
