package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"viewminder/internal/domain"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreBookingRepository stores bookings as documents at
// artifacts/{appId}/public/data/jobs/{bookingId}, the layout existing records use.
type FirestoreBookingRepository struct {
	client *firestore.Client
	appID  string
}

func NewFirestoreBookingRepository(client *firestore.Client, appID string) *FirestoreBookingRepository {
	return &FirestoreBookingRepository{client: client, appID: appID}
}

func (r *FirestoreBookingRepository) jobs() *firestore.CollectionRef {
	return r.client.Collection(domain.JobsCollectionPath(r.appID))
}

// Save replaces the whole document.
func (r *FirestoreBookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	if _, err := r.jobs().Doc(b.BookingID).Set(ctx, bookingToDocument(b)); err != nil {
		return fmt.Errorf("firestore set %s: %w", b.BookingID, err)
	}
	return nil
}

func (r *FirestoreBookingRepository) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	snap, err := r.jobs().Doc(bookingID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("firestore get %s: %w", bookingID, err)
	}
	if !snap.Exists() {
		return nil, ErrBookingNotFound
	}
	return bookingFromDocument(snap.Ref.ID, snap.Data()), nil
}

func (r *FirestoreBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	snaps, err := r.jobs().OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore list: %w", err)
	}
	out := make([]domain.Booking, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, *bookingFromDocument(s.Ref.ID, s.Data()))
	}
	return out, nil
}

func (r *FirestoreBookingRepository) Path(bookingID string) string {
	return domain.BookingPath(r.appID, bookingID)
}

func bookingToDocument(b *domain.Booking) map[string]interface{} {
	files := make([]interface{}, 0, len(b.Files))
	for _, f := range b.Files {
		files = append(files, map[string]interface{}{
			"name":        f.Name,
			"url":         f.URL,
			"contentType": f.ContentType,
			"sizeBytes":   f.SizeBytes,
			"uploadedAt":  f.UploadedAt,
			"storagePath": f.StoragePath,
		})
	}

	doc := map[string]interface{}{
		"jobId":          b.BookingID,
		"bookingId":      b.BookingID,
		"customerName":   b.CustomerName,
		"customerEmail":  b.CustomerEmail,
		"customerMobile": b.CustomerMobile,
		"suburb":         b.Suburb,
		"propertyLink":   b.PropertyLink,
		"inspectionDate": b.InspectionDate,
		"inspectionTime": b.InspectionTime,
		"pricingTier":    b.PricingTier,
		"price":          b.Price,
		"status":         string(b.Status),
		"paymentStatus":  string(b.PaymentStatus),
		"stripeChargeId": b.StripeChargeID,
		"files":          files,
		"createdAt":      b.CreatedAt,
		"updatedAt":      b.UpdatedAt,
	}
	if b.VideoLink != "" {
		doc["videoLink"] = b.VideoLink
	}
	if b.Report != nil {
		items := make([]interface{}, 0, len(b.Report.Items))
		for _, it := range b.Report.Items {
			items = append(items, map[string]interface{}{
				"point":  it.Point,
				"result": string(it.Result),
				"notes":  it.Notes,
			})
		}
		doc["report"] = map[string]interface{}{
			"items":       items,
			"summary":     b.Report.Summary,
			"placeholder": b.Report.Placeholder,
			"generatedAt": b.Report.GeneratedAt,
		}
	}
	return doc
}

// bookingFromDocument decodes by hand: records written by older tooling store
// timestamps as ISO strings and prices as strings, which DataTo rejects.
func bookingFromDocument(id string, m map[string]interface{}) *domain.Booking {
	b := &domain.Booking{
		BookingID:      str(m, "bookingId"),
		CustomerName:   str(m, "customerName"),
		CustomerEmail:  str(m, "customerEmail"),
		CustomerMobile: str(m, "customerMobile"),
		Suburb:         str(m, "suburb"),
		PropertyLink:   str(m, "propertyLink"),
		InspectionDate: str(m, "inspectionDate"),
		InspectionTime: str(m, "inspectionTime"),
		PricingTier:    str(m, "pricingTier"),
		Price:          integer(m["price"]),
		Status:         domain.BookingStatus(str(m, "status")),
		PaymentStatus:  domain.PaymentStatus(str(m, "paymentStatus")),
		StripeChargeID: str(m, "stripeChargeId"),
		VideoLink:      str(m, "videoLink"),
		CreatedAt:      timestamp(m["createdAt"]),
		UpdatedAt:      timestamp(m["updatedAt"]),
	}
	if b.BookingID == "" {
		b.BookingID = id
	}

	if raw, ok := m["files"].([]interface{}); ok {
		for _, v := range raw {
			f, ok := v.(map[string]interface{})
			if !ok {
				continue
			}
			b.Files = append(b.Files, domain.BookingFile{
				Name:        str(f, "name"),
				URL:         str(f, "url"),
				ContentType: str(f, "contentType"),
				SizeBytes:   integer(f["sizeBytes"]),
				UploadedAt:  timestamp(f["uploadedAt"]),
				StoragePath: str(f, "storagePath"),
			})
		}
	}

	if rep, ok := m["report"].(map[string]interface{}); ok {
		report := &domain.InspectionReport{
			Summary:     str(rep, "summary"),
			GeneratedAt: timestamp(rep["generatedAt"]),
		}
		report.Placeholder, _ = rep["placeholder"].(bool)
		if items, ok := rep["items"].([]interface{}); ok {
			for _, v := range items {
				it, ok := v.(map[string]interface{})
				if !ok {
					continue
				}
				report.Items = append(report.Items, domain.ChecklistItem{
					Point:  str(it, "point"),
					Result: domain.CheckResult(str(it, "result")),
					Notes:  str(it, "notes"),
				})
			}
		}
		b.Report = report
	}
	return b
}

func str(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func integer(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	default:
		return 0
	}
}

func timestamp(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
