package repository

import (
	"testing"
	"time"

	"viewminder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreDocument_RoundTrip(t *testing.T) {
	now := time.Now().UTC()
	b := sampleBooking("B1", now)
	b.Files = []domain.BookingFile{{Name: "a.jpg", URL: "u", ContentType: "image/jpeg", SizeBytes: 5, UploadedAt: now, StoragePath: "2026/10/16/a.jpg"}}
	b.Report = domain.PlaceholderReport(now)
	b.VideoLink = "https://video.example/1"

	doc := bookingToDocument(b)
	assert.Equal(t, "B1", doc["jobId"])
	assert.Equal(t, "assigned", doc["status"])

	got := bookingFromDocument("B1", doc)
	assert.Equal(t, b.CustomerEmail, got.CustomerEmail)
	assert.Equal(t, b.Price, got.Price)
	assert.Equal(t, b.Files, got.Files)
	require.NotNil(t, got.Report)
	assert.Len(t, got.Report.Items, 15)
	assert.True(t, got.Report.Placeholder)
	assert.Equal(t, b.VideoLink, got.VideoLink)
}

func TestFirestoreDocument_LegacyShapes(t *testing.T) {
	doc := map[string]interface{}{
		"customerEmail": "a@b.com",
		"price":         "49",
		"status":        "Report Sent",
		"createdAt":     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		"updatedAt":     "2026-01-03T00:00:00.000Z",
	}

	got := bookingFromDocument("B9", doc)

	assert.Equal(t, "B9", got.BookingID)
	assert.Equal(t, int64(49), got.Price)
	assert.Equal(t, domain.BookingStatus("Report Sent"), got.Status)
	assert.Equal(t, 2026, got.UpdatedAt.Year())
	assert.Nil(t, got.Report)
	assert.Empty(t, got.Files)
}
