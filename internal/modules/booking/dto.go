package booking

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Price decodes a whole-unit amount sent either as a JSON number or a numeric
// string. Null and "" decode to 0.
type Price int64

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*p = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return ErrInvalidPrice
	}
	*p = Price(math.Round(f))
	return nil
}

type SaveBookingRequest struct {
	BookingID      string `json:"bookingId"`
	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerMobile string `json:"customerMobile"`
	Suburb         string `json:"suburb"`
	PropertyLink   string `json:"propertyLink"`
	InspectionDate string `json:"inspectionDate"`
	InspectionTime string `json:"inspectionTime"`
	PricingTier    string `json:"pricingTier"`
	Price          Price  `json:"price"`
	StripeChargeID string `json:"stripeChargeId"`
}

type SaveBookingResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID string `json:"bookingId"`
	Path      string `json:"path"`
}
