package checkout

type Metadata struct {
	Mobile          string `json:"mobile" validate:"required"`
	Suburb          string `json:"suburb" validate:"required"`
	PropertyLink    string `json:"propertyLink" validate:"required"`
	InspectionDate  string `json:"inspectionDate" validate:"required"`
	InspectionTime  string `json:"inspectionTime" validate:"required"`
	PricingTierName string `json:"pricingTierName" validate:"required"`
}

type CreateSessionRequest struct {
	PricingTier   string    `json:"pricingTier"`
	Price         float64   `json:"price" validate:"gt=0"`
	CustomerEmail string    `json:"customerEmail" validate:"required"`
	CustomerName  string    `json:"customerName"`
	Metadata      *Metadata `json:"metadata" validate:"required"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	BookingID string `json:"bookingId"`
}
