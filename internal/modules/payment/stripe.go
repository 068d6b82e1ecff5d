package payment

import (
	"fmt"

	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeVerifier checks the Stripe-Signature header against the endpoint secret.
// An empty secret rejects every delivery.
type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

func (v *StripeVerifier) Verify(payload []byte, signatureHeader string) (*Event, error) {
	if v.secret == "" {
		return nil, fmt.Errorf("%w: webhook secret not configured", ErrInvalidSignature)
	}

	ev, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	e := &Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data != nil {
		e.Object = ev.Data.Raw
	}
	return e, nil
}
