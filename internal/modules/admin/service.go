package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"viewminder/internal/domain"
	"viewminder/internal/pkg/metrics"
	"viewminder/internal/repository"

	"go.uber.org/zap"
)

type Service struct {
	bookings bookingStore
	objects  objectStore
	now      func() time.Time
	log      *zap.Logger
	metrics  *metrics.Metrics
}

func NewService(bookings bookingStore, objects objectStore, log *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{
		bookings: bookings,
		objects:  objects,
		now:      time.Now,
		log:      log,
		metrics:  m,
	}
}

// List returns bookings newest first, filtered in memory. Stats always cover
// every booking regardless of the filter.
func (s *Service) List(ctx context.Context, f ListFilter) (*ListResponse, error) {
	all, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	status := strings.TrimSpace(f.Status)
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Booking, 0, len(all))
	for _, b := range all {
		if status != "" && status != "all" && string(b.Status) != status {
			continue
		}
		if q != "" && !matchesQuery(&b, q) {
			continue
		}
		out = append(out, b)
	}

	return &ListResponse{Bookings: out, Stats: computeStats(all)}, nil
}

func matchesQuery(b *domain.Booking, q string) bool {
	for _, field := range []string{b.BookingID, b.CustomerName, b.CustomerEmail, b.Suburb} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func computeStats(all []domain.Booking) Stats {
	st := Stats{Total: len(all)}
	for _, b := range all {
		switch b.Status {
		case domain.BookingAssigned:
			st.Assigned++
		case domain.BookingCompleted:
			st.Completed++
		}
		st.Revenue += b.Price
	}
	return st
}

func (s *Service) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking %s: %w", bookingID, err)
	}
	return b, nil
}

// UpdateStatus sets an operator status. Any transition is allowed, including
// writing the current value again.
func (s *Service) UpdateStatus(ctx context.Context, bookingID, status string) (b *domain.Booking, err error) {
	defer s.observe("status", &err)

	next := domain.BookingStatus(strings.TrimSpace(status))
	if !domain.IsAdminStatus(next) {
		return nil, ErrInvalidStatus
	}

	b, err = s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	prev := b.Status
	b.Status = next
	b.Touch(s.now())
	if err = s.bookings.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking %s: %w", bookingID, err)
	}

	s.log.Info("booking status updated",
		zap.String("booking_id", bookingID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
	)
	return b, nil
}

// AttachFiles stores every upload, appends their descriptors and writes the
// booking once. Objects stored by this call are deleted again if a later
// upload or the document write fails.
func (s *Service) AttachFiles(ctx context.Context, bookingID string, uploads []Upload, progress ProgressFunc) (b *domain.Booking, err error) {
	defer s.observe("attach_files", &err)

	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	b, err = s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	var stored []string
	rollback := func() {
		for _, key := range stored {
			if derr := s.objects.Delete(context.WithoutCancel(ctx), key); derr != nil {
				s.log.Warn("rollback of stored object failed", zap.String("key", key), zap.Error(derr))
			}
		}
	}

	for _, u := range uploads {
		file, err := s.storeUpload(ctx, u, progress)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("store %q: %w", u.Name, err)
		}
		stored = append(stored, file.StoragePath)
		b.Files = append(b.Files, *file)
	}

	b.Touch(s.now())
	if err = s.bookings.Save(ctx, b); err != nil {
		rollback()
		return nil, fmt.Errorf("save booking %s: %w", bookingID, err)
	}

	s.log.Info("files attached", zap.String("booking_id", bookingID), zap.Int("count", len(uploads)))
	return b, nil
}

func (s *Service) storeUpload(ctx context.Context, u Upload, progress ProgressFunc) (*domain.BookingFile, error) {
	r, err := u.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var onProgress func(written, total int64)
	if progress != nil {
		onProgress = func(written, total int64) { progress(u.Name, written, total) }
	}

	obj, err := s.objects.Put(ctx, u.Name, r, u.Size, onProgress)
	if err != nil {
		return nil, err
	}
	return &domain.BookingFile{
		Name:        u.Name,
		URL:         obj.URL,
		ContentType: obj.ContentType,
		SizeBytes:   obj.Size,
		UploadedAt:  s.now().UTC(),
		StoragePath: obj.Key,
	}, nil
}

// DetachFile removes the descriptor at index and then the stored object. A
// failed object delete is logged; the descriptor is already gone by then.
func (s *Service) DetachFile(ctx context.Context, bookingID string, index int) (b *domain.Booking, err error) {
	defer s.observe("detach_file", &err)

	b, err = s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(b.Files) {
		return nil, ErrFileIndex
	}

	removed := b.Files[index]
	b.Files = append(append([]domain.BookingFile{}, b.Files[:index]...), b.Files[index+1:]...)
	b.Touch(s.now())
	if err = s.bookings.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking %s: %w", bookingID, err)
	}

	if removed.StoragePath != "" {
		if derr := s.objects.Delete(ctx, removed.StoragePath); derr != nil {
			s.log.Warn("stored object not deleted", zap.String("booking_id", bookingID), zap.String("key", removed.StoragePath), zap.Error(derr))
		}
	}

	s.log.Info("file detached", zap.String("booking_id", bookingID), zap.String("name", removed.Name))
	return b, nil
}

// AttachReport stores the inspection report shown to the customer once the
// booking is completed.
func (s *Service) AttachReport(ctx context.Context, bookingID string, req AttachReportRequest) (b *domain.Booking, err error) {
	defer s.observe("report", &err)

	now := s.now().UTC()
	report := &domain.InspectionReport{
		Items:       req.Items,
		Summary:     strings.TrimSpace(req.Summary),
		GeneratedAt: now,
	}
	if err = report.Validate(); err != nil {
		return nil, err
	}

	b, err = s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	b.Report = report
	if link := strings.TrimSpace(req.VideoLink); link != "" {
		b.VideoLink = link
	}
	b.Touch(now)
	if err = s.bookings.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("save booking %s: %w", bookingID, err)
	}

	s.log.Info("report attached", zap.String("booking_id", bookingID))
	return b, nil
}

func (s *Service) observe(op string, err *error) {
	s.metrics.AdminMutations.WithLabelValues(op, metrics.Outcome(*err)).Inc()
}
