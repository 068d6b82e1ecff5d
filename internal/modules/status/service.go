package status

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"viewminder/internal/domain"
	"viewminder/internal/pkg/metrics"
	"viewminder/internal/repository"

	"go.uber.org/zap"
)

const DefaultPollInterval = 5 * time.Second

type Service struct {
	bookings     bookingReader
	changes      changeWatcher
	pollInterval time.Duration
	log          *zap.Logger
	metrics      *metrics.Metrics
}

// NewService builds the resolver. changes may be nil, in which case
// subscriptions rely on polling alone.
func NewService(bookings bookingReader, changes changeWatcher, pollInterval time.Duration, log *zap.Logger, m *metrics.Metrics) *Service {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Service{
		bookings:     bookings,
		changes:      changes,
		pollInterval: pollInterval,
		log:          log,
		metrics:      m,
	}
}

// Lookup returns the customer view of a booking. A missing booking and an
// email mismatch both yield ErrNotFound.
func (s *Service) Lookup(ctx context.Context, bookingID, email string) (*View, error) {
	view, err := s.resolve(ctx, bookingID, email)
	s.observeLookup(err)
	return view, err
}

func (s *Service) observeLookup(err error) {
	outcome := metrics.Outcome(err)
	if errors.Is(err, ErrNotFound) {
		outcome = "not_found"
	}
	s.metrics.StatusLookups.WithLabelValues(outcome).Inc()
}

func (s *Service) resolve(ctx context.Context, bookingID, email string) (*View, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" || strings.TrimSpace(email) == "" {
		return nil, ErrInvalidRequest
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			s.log.Debug("status lookup miss", zap.String("booking_id", bookingID), zap.String("reason", "unknown_booking"))
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load booking %s: %w", bookingID, err)
	}

	if !b.EmailMatches(email) {
		s.log.Debug("status lookup miss", zap.String("booking_id", bookingID), zap.String("reason", "email_mismatch"))
		return nil, ErrNotFound
	}

	return NewView(b), nil
}

// NewView derives the customer view from a stored booking. Completed
// bookings always carry a report; a placeholder is synthesized when none was
// attached.
func NewView(b *domain.Booking) *View {
	stage := domain.NormalizeStage(string(b.Status))
	v := &View{
		BookingID: b.BookingID,
		Stage:     stage,
		Label:     stage.Label(),
		Message:   stage.Message(),
		UpdatedAt: b.UpdatedAt,
	}
	if stage == domain.StageCompleted {
		v.Report = b.Report
		if v.Report == nil {
			v.Report = domain.PlaceholderReport(b.UpdatedAt)
		}
		v.VideoLink = b.VideoLink
	}
	return v
}

// Subscription is a live status feed for one booking.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Cancel stops the subscription and waits for its watcher to exit. Once it
// returns the callback is never invoked again. Cancel is idempotent and must
// not be called from inside the callback.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed when the subscription has stopped.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Subscribe checks access the same way Lookup does, then calls fn with the
// current view and again whenever the view changes. Changes are picked up from
// the change feed immediately and from polling otherwise. The subscription
// ends when ctx is done or Cancel is called. fn runs on a single goroutine.
func (s *Service) Subscribe(ctx context.Context, bookingID, email string, fn func(*View)) (*Subscription, error) {
	first, err := s.Lookup(ctx, bookingID, email)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	var changed <-chan struct{}
	stopWatch := func() {}
	if s.changes != nil {
		changed, stopWatch = s.changes.Watch(first.BookingID)
	}

	s.metrics.Subscriptions.Inc()
	go func() {
		defer close(sub.done)
		defer s.metrics.Subscriptions.Dec()
		defer stopWatch()
		s.watch(ctx, bookingID, email, first, changed, fn)
	}()

	return sub, nil
}

func (s *Service) watch(ctx context.Context, bookingID, email string, last *View, changed <-chan struct{}, fn func(*View)) {
	if ctx.Err() != nil {
		return
	}
	fn(last)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-changed:
		case <-ticker.C:
		}

		view, err := s.resolve(ctx, bookingID, email)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn("status refresh failed", zap.String("booking_id", bookingID), zap.Error(err))
			continue
		}
		if sameView(view, last) {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		fn(view)
		last = view
	}
}

// sameView compares what a customer can observe. Every admin write refreshes
// UpdatedAt, so that plus the stage is enough.
func sameView(a, b *View) bool {
	return a.Stage == b.Stage &&
		a.UpdatedAt.Equal(b.UpdatedAt) &&
		a.VideoLink == b.VideoLink &&
		(a.Report == nil) == (b.Report == nil)
}
