package booking

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"viewminder/internal/database"
	"viewminder/internal/domain"
	"viewminder/internal/pkg/metrics"
	"viewminder/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockStore) Path(id string) string {
	return domain.BookingPath("viewminder", id)
}

func sqlStore(t *testing.T) *repository.BookingRepository {
	t.Helper()
	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, repository.Models()...))
	return repository.NewBookingRepository(db, "viewminder")
}

func sampleRequest() SaveBookingRequest {
	return SaveBookingRequest{
		BookingID:      "B1",
		CustomerName:   "Alex Doe",
		CustomerEmail:  "a@b.com",
		CustomerMobile: "0412345678",
		Suburb:         "Bondi",
		PricingTier:    "Standard",
		Price:          49,
		StripeChargeID: "pi_123",
	}
}

func TestPersist_WritesPaidAssignedBooking(t *testing.T) {
	store := new(MockStore)
	store.On("Save", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.BookingID == "B1" &&
			b.Status == domain.BookingAssigned &&
			b.PaymentStatus == domain.PaymentPaid &&
			b.Price == 49 &&
			!b.CreatedAt.IsZero() && b.CreatedAt.Equal(b.UpdatedAt)
	})).Return(nil).Once()

	svc := NewService(store, zap.NewNop(), metrics.NewNop())
	resp, err := svc.Persist(context.Background(), sampleRequest(), SourceAPI)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "B1", resp.BookingID)
	assert.Equal(t, "/artifacts/viewminder/public/data/jobs/B1", resp.Path)
	store.AssertExpectations(t)
}

func TestPersist_MissingBookingID(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store, zap.NewNop(), metrics.NewNop())

	req := sampleRequest()
	req.BookingID = "  "
	_, err := svc.Persist(context.Background(), req, SourceAPI)

	assert.ErrorIs(t, err, ErrMissingBookingID)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPersist_StoreFailure(t *testing.T) {
	store := new(MockStore)
	store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	svc := NewService(store, zap.NewNop(), metrics.NewNop())
	_, err := svc.Persist(context.Background(), sampleRequest(), SourceWebhook)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestPersist_ReplayKeepsOneRecord(t *testing.T) {
	ctx := context.Background()
	store := sqlStore(t)
	svc := NewService(store, zap.NewNop(), metrics.NewNop())

	first := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	_, err := svc.Persist(ctx, sampleRequest(), SourceAPI)
	require.NoError(t, err)

	svc.now = func() time.Time { return first.Add(time.Hour) }
	resp, err := svc.Persist(ctx, sampleRequest(), SourceWebhook)
	require.NoError(t, err)
	assert.Equal(t, "/artifacts/viewminder/public/data/jobs/B1", resp.Path)

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "B1", all[0].BookingID)
	assert.Equal(t, domain.BookingAssigned, all[0].Status)
	assert.Equal(t, domain.PaymentPaid, all[0].PaymentStatus)
	assert.WithinDuration(t, first.Add(time.Hour), all[0].CreatedAt, time.Second)
}

func TestPrice_Unmarshal(t *testing.T) {
	cases := map[string]int64{
		`49`:     49,
		`"49"`:   49,
		`" 89 "`: 89,
		`39.0`:   39,
		`null`:   0,
		`""`:     0,
	}
	for in, want := range cases {
		var p Price
		require.NoError(t, json.Unmarshal([]byte(in), &p), in)
		assert.Equal(t, want, int64(p), in)
	}

	var p Price
	assert.Error(t, json.Unmarshal([]byte(`"forty-nine"`), &p))
}
