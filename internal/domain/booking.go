package domain

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingAssigned  BookingStatus = "assigned"
	BookingInspected BookingStatus = "inspected"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// AdminStatuses are the values an operator may write through the admin API.
var AdminStatuses = []BookingStatus{BookingAssigned, BookingCompleted, BookingCancelled}

func IsAdminStatus(s BookingStatus) bool {
	for _, v := range AdminStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// BookingFile describes one uploaded artifact attached to a booking.
type BookingFile struct {
	Name        string    `json:"name" firestore:"name"`
	URL         string    `json:"url" firestore:"url"`
	ContentType string    `json:"contentType" firestore:"contentType"`
	SizeBytes   int64     `json:"sizeBytes" firestore:"sizeBytes"`
	UploadedAt  time.Time `json:"uploadedAt" firestore:"uploadedAt"`
	StoragePath string    `json:"storagePath,omitempty" firestore:"storagePath"`
}

// Booking is one paid inspection job. Status holds the stored value verbatim;
// it may contain hand-edited text, see NormalizeStage.
type Booking struct {
	BookingID      string        `json:"bookingId"`
	CustomerName   string        `json:"customerName"`
	CustomerEmail  string        `json:"customerEmail"`
	CustomerMobile string        `json:"customerMobile"`
	Suburb         string        `json:"suburb"`
	PropertyLink   string        `json:"propertyLink"`
	InspectionDate string        `json:"inspectionDate"`
	InspectionTime string        `json:"inspectionTime"`
	PricingTier    string        `json:"pricingTier"`
	Price          int64         `json:"price"`
	Status         BookingStatus `json:"status"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	StripeChargeID string        `json:"stripeChargeId"`
	Files          []BookingFile `json:"files"`

	Report    *InspectionReport `json:"report,omitempty"`
	VideoLink string            `json:"videoLink,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EmailMatches reports whether email identifies the booking's customer.
// Comparison trims whitespace and ignores case; the stored value is never rewritten.
func (b *Booking) EmailMatches(email string) bool {
	stored := strings.TrimSpace(b.CustomerEmail)
	given := strings.TrimSpace(email)
	if stored == "" || given == "" {
		return false
	}
	return strings.EqualFold(stored, given)
}

// Touch refreshes UpdatedAt. Every mutation goes through it.
func (b *Booking) Touch(now time.Time) {
	b.UpdatedAt = now.UTC()
}

// BookingPath is the document path every booking lives at, in both store backends.
func BookingPath(appID, bookingID string) string {
	return fmt.Sprintf("/artifacts/%s/public/data/jobs/%s", appID, bookingID)
}

// JobsCollectionPath is BookingPath without the document id and leading slash.
func JobsCollectionPath(appID string) string {
	return fmt.Sprintf("artifacts/%s/public/data/jobs", appID)
}
