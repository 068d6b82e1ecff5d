package checkout

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeSessions creates hosted Checkout sessions through the Stripe API.
type StripeSessions struct {
	api *client.API
}

func NewStripeSessions(secretKey string) *StripeSessions {
	return &StripeSessions{api: client.New(secretKey, nil)}
}

func (s *StripeSessions) CreateSession(ctx context.Context, p SessionParams) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(p.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(p.ProductName),
					Description: stripe.String(p.Description),
				},
				UnitAmount: stripe.Int64(p.UnitAmount),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(p.SuccessURL),
		CancelURL:                stripe.String(p.CancelURL),
		CustomerEmail:            stripe.String(p.CustomerEmail),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) && serr.Msg != "" {
			return nil, errors.New(serr.Msg)
		}
		return nil, err
	}
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}
