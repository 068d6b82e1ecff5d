package checkout

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"viewminder/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessions struct {
	calls []SessionParams
	err   error
}

func (f *fakeSessions) CreateSession(_ context.Context, p SessionParams) (*Session, error) {
	f.calls = append(f.calls, p)
	if f.err != nil {
		return nil, f.err
	}
	return &Session{ID: "cs_test_123", URL: "https://checkout.stripe.com/c/pay/cs_test_123"}, nil
}

func validRequest() CreateSessionRequest {
	return CreateSessionRequest{
		PricingTier:   "Standard",
		Price:         49,
		CustomerEmail: "a@b.com",
		CustomerName:  "Alex Doe",
		Metadata: &Metadata{
			Mobile:          "0412345678",
			Suburb:          "Bondi",
			PropertyLink:    "https://example.com/listing/1",
			InspectionDate:  "2026-10-20",
			InspectionTime:  "10:30",
			PricingTierName: "Standard",
		},
	}
}

func newTestService(sessions SessionCreator) *Service {
	svc := NewService(sessions, "https://viewminder.app/", "aud", zap.NewNop(), metrics.NewNop())
	svc.newID = func() string { return "VM-0A1B2C3D" }
	return svc
}

func TestCreateSession_BuildsStripeSession(t *testing.T) {
	fake := &fakeSessions{}
	svc := newTestService(fake)

	resp, err := svc.CreateSession(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "cs_test_123", resp.SessionID)
	assert.Equal(t, "VM-0A1B2C3D", resp.BookingID)
	require.Len(t, fake.calls, 1)

	p := fake.calls[0]
	assert.Equal(t, "aud", p.Currency)
	assert.Equal(t, int64(4900), p.UnitAmount)
	assert.Equal(t, "ViewMinder Standard Service", p.ProductName)
	assert.Equal(t, "Inspection proxy for Bondi on 2026-10-20 at 10:30", p.Description)
	assert.Equal(t, "a@b.com", p.CustomerEmail)
	assert.Equal(t, "https://viewminder.app/success?session_id={CHECKOUT_SESSION_ID}", p.SuccessURL)
	assert.Equal(t, "https://viewminder.app/?canceled=true", p.CancelURL)
	assert.Equal(t, "VM-0A1B2C3D", p.Metadata["bookingId"])
	assert.Equal(t, "Alex Doe", p.Metadata["customerName"])
	assert.Equal(t, "0412345678", p.Metadata["mobile"])
	assert.Equal(t, "Standard", p.Metadata["pricingTier"])
}

func TestCreateSession_MinorUnitsAreRoundedCents(t *testing.T) {
	fake := &fakeSessions{}
	svc := newTestService(fake)
	rng := rand.New(rand.NewSource(42))

	prices := []float64{39, 49, 89, 0.01, 19.99, 10.005, 0.125}
	for i := 0; i < 200; i++ {
		prices = append(prices, math.Round(rng.Float64()*100000)/100)
	}

	for _, price := range prices {
		if price <= 0 {
			continue
		}
		req := validRequest()
		req.Price = price
		_, err := svc.CreateSession(context.Background(), req)
		require.NoError(t, err)

		got := fake.calls[len(fake.calls)-1].UnitAmount
		assert.Equal(t, int64(math.Round(price*100)), got, "price %v", price)
	}
}

func TestCreateSession_Validation(t *testing.T) {
	cases := map[string]struct {
		mutate func(r *CreateSessionRequest)
		field  string
	}{
		"missing price":    {func(r *CreateSessionRequest) { r.Price = 0 }, "price"},
		"negative price":   {func(r *CreateSessionRequest) { r.Price = -5 }, "price"},
		"missing email":    {func(r *CreateSessionRequest) { r.CustomerEmail = "" }, "customerEmail"},
		"missing metadata": {func(r *CreateSessionRequest) { r.Metadata = nil }, "metadata"},
		"missing suburb":   {func(r *CreateSessionRequest) { r.Metadata.Suburb = "" }, "metadata.suburb"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			fake := &fakeSessions{}
			svc := newTestService(fake)
			req := validRequest()
			tc.mutate(&req)

			_, err := svc.CreateSession(context.Background(), req)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tc.field)
			assert.Empty(t, fake.calls, "processor must not be called")
		})
	}
}

func TestCreateSession_ProcessorFailure(t *testing.T) {
	svc := newTestService(&fakeSessions{err: errors.New("Invalid API Key provided")})

	_, err := svc.CreateSession(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrProcessor)
	assert.Equal(t, "Invalid API Key provided", err.Error())
}

func TestNewBookingID(t *testing.T) {
	id := NewBookingID()
	assert.Regexp(t, `^VM-[0-9A-F]{8}$`, id)
	assert.NotEqual(t, id, NewBookingID())
}
