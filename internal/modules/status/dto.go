package status

import (
	"time"

	"viewminder/internal/domain"
)

type LookupRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	Email     string `json:"email" binding:"required"`
}

// View is what a customer sees for one booking.
type View struct {
	BookingID string                   `json:"bookingId"`
	Stage     domain.Stage             `json:"stage"`
	Label     string                   `json:"label"`
	Message   string                   `json:"message"`
	Report    *domain.InspectionReport `json:"report,omitempty"`
	VideoLink string                   `json:"videoLink,omitempty"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

const (
	EventStatus = "status"
	EventError  = "error"
)

// Event is pushed over the status websocket.
type Event struct {
	Type    string `json:"type"`
	Payload *View  `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}
