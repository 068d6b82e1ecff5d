package admin

import (
	"io"
	"time"

	"viewminder/internal/domain"
)

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ListFilter narrows the booking list. Status "" or "all" disables the status
// filter; Query is a case-insensitive substring over id, name, email and suburb.
type ListFilter struct {
	Status string
	Query  string
}

type Stats struct {
	Total     int   `json:"total"`
	Assigned  int   `json:"assigned"`
	Completed int   `json:"completed"`
	Revenue   int64 `json:"revenue"`
}

type ListResponse struct {
	Bookings []domain.Booking `json:"bookings"`
	Stats    Stats            `json:"stats"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Upload is one incoming artifact. Open is called once.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// ProgressFunc reports bytes stored so far for the named upload.
type ProgressFunc func(name string, written, total int64)

type AttachReportRequest struct {
	Items     []domain.ChecklistItem `json:"items" binding:"required"`
	Summary   string                 `json:"summary"`
	VideoLink string                 `json:"videoLink"`
}
