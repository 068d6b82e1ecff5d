package status

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"viewminder/internal/domain"
	"viewminder/internal/pkg/changefeed"
	"viewminder/internal/pkg/metrics"
	"viewminder/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type memStore struct {
	mu       sync.Mutex
	bookings map[string]domain.Booking
	feed     *changefeed.Feed
	err      error
}

func newMemStore(feed *changefeed.Feed, bookings ...domain.Booking) *memStore {
	s := &memStore{bookings: map[string]domain.Booking{}, feed: feed}
	for _, b := range bookings {
		s.bookings[b.BookingID] = b
	}
	return s
}

func (s *memStore) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &b, nil
}

// put writes silently; publish also notifies the feed.
func (s *memStore) put(b domain.Booking) {
	s.mu.Lock()
	s.bookings[b.BookingID] = b
	s.mu.Unlock()
}

func (s *memStore) publish(b domain.Booking) {
	s.put(b)
	if s.feed != nil {
		s.feed.Publish(b.BookingID)
	}
}

var t0 = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func booking(id, email, status string) domain.Booking {
	return domain.Booking{
		BookingID:     id,
		CustomerEmail: email,
		Status:        domain.BookingStatus(status),
		PaymentStatus: domain.PaymentPaid,
		CreatedAt:     t0,
		UpdatedAt:     t0,
	}
}

func newTestService(t *testing.T, store bookingReader, feed *changefeed.Feed, poll time.Duration) *Service {
	var changes changeWatcher
	if feed != nil {
		changes = feed
	}
	return NewService(store, changes, poll, zaptest.NewLogger(t), metrics.NewNop())
}

func TestLookup_WrongEmailAndMissingIDAreIndistinguishable(t *testing.T) {
	svc := newTestService(t, newMemStore(nil, booking("B1", "a@b.com", "assigned")), nil, 0)
	ctx := context.Background()

	v1, errWrongEmail := svc.Lookup(ctx, "B1", "x@y.com")
	v2, errMissing := svc.Lookup(ctx, "NOPE", "a@b.com")

	assert.Nil(t, v1)
	assert.Nil(t, v2)
	assert.ErrorIs(t, errWrongEmail, ErrNotFound)
	assert.ErrorIs(t, errMissing, ErrNotFound)
	assert.Equal(t, errWrongEmail.Error(), errMissing.Error())
}

func TestLookup_EmailIsCaseInsensitiveAndTrimmed(t *testing.T) {
	svc := newTestService(t, newMemStore(nil, booking("B1", "a@b.com", "assigned")), nil, 0)

	v, err := svc.Lookup(context.Background(), "B1", "  A@B.COM ")
	require.NoError(t, err)
	assert.Equal(t, domain.StageAssigned, v.Stage)
	assert.Equal(t, "Agent Assigned", v.Label)
}

func TestLookup_RequiresBothFields(t *testing.T) {
	svc := newTestService(t, newMemStore(nil), nil, 0)

	_, err := svc.Lookup(context.Background(), "", "a@b.com")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = svc.Lookup(context.Background(), "B1", " ")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestLookup_StoreFailureIsNotNotFound(t *testing.T) {
	store := newMemStore(nil)
	store.err = errors.New("connection refused")
	svc := newTestService(t, store, nil, 0)

	_, err := svc.Lookup(context.Background(), "B1", "a@b.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLookup_StageMapping(t *testing.T) {
	cases := map[string]domain.Stage{
		"Report Sent":         domain.StageCompleted,
		"inspection complete": domain.StageInspected,
		"xyz":                 domain.StageAssigned,
		"":                    domain.StageAssigned,
		"completed":           domain.StageCompleted,
		"cancelled":           domain.StageAssigned,
	}
	for status, want := range cases {
		svc := newTestService(t, newMemStore(nil, booking("B1", "a@b.com", status)), nil, 0)
		v, err := svc.Lookup(context.Background(), "B1", "a@b.com")
		require.NoError(t, err, status)
		assert.Equal(t, want, v.Stage, status)
	}
}

func TestLookup_CompletedWithoutReportGetsPlaceholder(t *testing.T) {
	b := booking("B1", "a@b.com", "completed")
	b.VideoLink = "https://video.example/walkthrough"
	svc := newTestService(t, newMemStore(nil, b), nil, 0)

	v, err := svc.Lookup(context.Background(), "B1", "a@b.com")
	require.NoError(t, err)

	require.NotNil(t, v.Report)
	assert.True(t, v.Report.Placeholder)
	require.Len(t, v.Report.Items, 15)
	for _, item := range v.Report.Items {
		assert.Equal(t, domain.CheckNormal, item.Result)
	}
	assert.Equal(t, "https://video.example/walkthrough", v.VideoLink)
}

func TestLookup_CompletedWithStoredReport(t *testing.T) {
	b := booking("B1", "a@b.com", "Report Sent")
	report := domain.PlaceholderReport(t0)
	report.Placeholder = false
	report.Items[3].Result = domain.CheckFlagged
	b.Report = report
	svc := newTestService(t, newMemStore(nil, b), nil, 0)

	v, err := svc.Lookup(context.Background(), "B1", "a@b.com")
	require.NoError(t, err)
	assert.False(t, v.Report.Placeholder)
	assert.Equal(t, domain.CheckFlagged, v.Report.Items[3].Result)
}

func TestLookup_NotCompletedHidesReport(t *testing.T) {
	b := booking("B1", "a@b.com", "assigned")
	b.Report = domain.PlaceholderReport(t0)
	b.VideoLink = "https://video.example/1"
	svc := newTestService(t, newMemStore(nil, b), nil, 0)

	v, err := svc.Lookup(context.Background(), "B1", "a@b.com")
	require.NoError(t, err)
	assert.Nil(t, v.Report)
	assert.Empty(t, v.VideoLink)
}

// recorder collects callback invocations.
type recorder struct {
	mu    sync.Mutex
	views []*View
	ch    chan *View
}

func newRecorder() *recorder { return &recorder{ch: make(chan *View, 16)} }

func (r *recorder) fn(v *View) {
	r.mu.Lock()
	r.views = append(r.views, v)
	r.mu.Unlock()
	r.ch <- v
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *recorder) next(t *testing.T) *View {
	t.Helper()
	select {
	case v := <-r.ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("expected a status callback")
		return nil
	}
}

func TestSubscribe_PushesInitialViewThenChanges(t *testing.T) {
	feed := changefeed.New()
	store := newMemStore(feed, booking("B1", "a@b.com", "assigned"))
	svc := newTestService(t, store, feed, time.Hour)

	rec := newRecorder()
	sub, err := svc.Subscribe(context.Background(), "B1", "a@b.com", rec.fn)
	require.NoError(t, err)
	defer sub.Cancel()

	assert.Equal(t, domain.StageAssigned, rec.next(t).Stage)

	updated := booking("B1", "a@b.com", "completed")
	updated.UpdatedAt = t0.Add(time.Minute)
	store.publish(updated)

	v := rec.next(t)
	assert.Equal(t, domain.StageCompleted, v.Stage)
	assert.NotNil(t, v.Report)
}

func TestSubscribe_PollingPicksUpSilentWrites(t *testing.T) {
	store := newMemStore(nil, booking("B1", "a@b.com", "assigned"))
	svc := newTestService(t, store, nil, 10*time.Millisecond)

	rec := newRecorder()
	sub, err := svc.Subscribe(context.Background(), "B1", "a@b.com", rec.fn)
	require.NoError(t, err)
	defer sub.Cancel()
	rec.next(t)

	updated := booking("B1", "a@b.com", "inspected")
	updated.UpdatedAt = t0.Add(time.Minute)
	store.put(updated)

	assert.Equal(t, domain.StageInspected, rec.next(t).Stage)
}

func TestSubscribe_UnchangedViewIsNotRedelivered(t *testing.T) {
	feed := changefeed.New()
	store := newMemStore(feed, booking("B1", "a@b.com", "assigned"))
	svc := newTestService(t, store, feed, 5*time.Millisecond)

	rec := newRecorder()
	sub, err := svc.Subscribe(context.Background(), "B1", "a@b.com", rec.fn)
	require.NoError(t, err)
	rec.next(t)

	store.publish(booking("B1", "a@b.com", "assigned"))
	time.Sleep(50 * time.Millisecond)
	sub.Cancel()

	assert.Equal(t, 1, rec.count())
}

func TestSubscribe_AccessDeniedReturnsNotFound(t *testing.T) {
	svc := newTestService(t, newMemStore(nil, booking("B1", "a@b.com", "assigned")), nil, 0)

	sub, err := svc.Subscribe(context.Background(), "B1", "wrong@b.com", func(*View) {
		t.Fatal("callback must not run")
	})
	assert.Nil(t, sub)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubscribe_CancelIsIdempotentAndSilent(t *testing.T) {
	feed := changefeed.New()
	store := newMemStore(feed, booking("B1", "a@b.com", "assigned"))
	svc := newTestService(t, store, feed, time.Millisecond)

	rec := newRecorder()
	sub, err := svc.Subscribe(context.Background(), "B1", "a@b.com", rec.fn)
	require.NoError(t, err)
	rec.next(t)

	sub.Cancel()
	sub.Cancel()
	select {
	case <-sub.Done():
	default:
		t.Fatal("Done must be closed after Cancel")
	}
	assert.Zero(t, feed.Len("B1"), "feed watcher must be released")

	before := rec.count()
	for i := 1; i <= 5; i++ {
		b := booking("B1", "a@b.com", "completed")
		b.UpdatedAt = t0.Add(time.Duration(i) * time.Minute)
		store.publish(b)
	}
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, before, rec.count())
}

func TestSubscribe_ContextCancellationStops(t *testing.T) {
	store := newMemStore(nil, booking("B1", "a@b.com", "assigned"))
	svc := NewService(store, nil, time.Millisecond, zap.NewNop(), metrics.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	rec := newRecorder()
	sub, err := svc.Subscribe(ctx, "B1", "a@b.com", rec.fn)
	require.NoError(t, err)
	rec.next(t)

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription did not stop")
	}
	sub.Cancel()
}
