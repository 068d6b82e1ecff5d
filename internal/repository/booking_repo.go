package repository

import (
	"context"
	"errors"
	"time"

	"viewminder/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBookingNotFound = errors.New("booking not found")

// BookingStore is the document-store contract every backend implements.
// Save is a full-document replace keyed by BookingID.
type BookingStore interface {
	Save(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, bookingID string) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	Path(bookingID string) string
}

type BookingRepository struct {
	db    *gorm.DB
	appID string
}

func NewBookingRepository(db *gorm.DB, appID string) *BookingRepository {
	return &BookingRepository{db: db, appID: appID}
}

type bookingModel struct {
	BookingID      string                   `gorm:"column:booking_id;primaryKey;size:64"`
	CustomerName   string                   `gorm:"column:customer_name"`
	CustomerEmail  string                   `gorm:"column:customer_email"`
	CustomerMobile string                   `gorm:"column:customer_mobile"`
	Suburb         string                   `gorm:"column:suburb"`
	PropertyLink   string                   `gorm:"column:property_link"`
	InspectionDate string                   `gorm:"column:inspection_date"`
	InspectionTime string                   `gorm:"column:inspection_time"`
	PricingTier    string                   `gorm:"column:pricing_tier"`
	Price          int64                    `gorm:"column:price"`
	Status         string                   `gorm:"column:status;index"`
	PaymentStatus  string                   `gorm:"column:payment_status"`
	StripeChargeID string                   `gorm:"column:stripe_charge_id"`
	Files          []domain.BookingFile     `gorm:"column:files;type:text;serializer:json"`
	Report         *domain.InspectionReport `gorm:"column:report;type:text;serializer:json"`
	VideoLink      string                   `gorm:"column:video_link"`
	CreatedAt      time.Time                `gorm:"column:created_at;index;autoCreateTime:false"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (bookingModel) TableName() string { return "jobs" }

// Models lists the gorm models the SQL store needs migrated.
func Models() []interface{} {
	return []interface{}{&bookingModel{}}
}

func toDomainBooking(m bookingModel) *domain.Booking {
	return &domain.Booking{
		BookingID:      m.BookingID,
		CustomerName:   m.CustomerName,
		CustomerEmail:  m.CustomerEmail,
		CustomerMobile: m.CustomerMobile,
		Suburb:         m.Suburb,
		PropertyLink:   m.PropertyLink,
		InspectionDate: m.InspectionDate,
		InspectionTime: m.InspectionTime,
		PricingTier:    m.PricingTier,
		Price:          m.Price,
		Status:         domain.BookingStatus(m.Status),
		PaymentStatus:  domain.PaymentStatus(m.PaymentStatus),
		StripeChargeID: m.StripeChargeID,
		Files:          m.Files,
		Report:         m.Report,
		VideoLink:      m.VideoLink,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		BookingID:      b.BookingID,
		CustomerName:   b.CustomerName,
		CustomerEmail:  b.CustomerEmail,
		CustomerMobile: b.CustomerMobile,
		Suburb:         b.Suburb,
		PropertyLink:   b.PropertyLink,
		InspectionDate: b.InspectionDate,
		InspectionTime: b.InspectionTime,
		PricingTier:    b.PricingTier,
		Price:          b.Price,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		StripeChargeID: b.StripeChargeID,
		Files:          b.Files,
		Report:         b.Report,
		VideoLink:      b.VideoLink,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// Save upserts the whole row. Every column except the key is overwritten.
func (r *BookingRepository) Save(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}},
		UpdateAll: true,
	}).Create(&m)
	return tx.Error
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Take(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).Order("created_at desc").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) Path(bookingID string) string {
	return domain.BookingPath(r.appID, bookingID)
}
