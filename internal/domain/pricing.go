package domain

import "strings"

// PricingTier is one selectable service level on the booking form.
type PricingTier struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

var PricingTiers = []PricingTier{
	{ID: "Basic", Name: "Basic", Price: 39, Description: "Attendance + Name on List + 5 Photos."},
	{ID: "Standard", Name: "Standard", Price: 49, Description: "Live Video OR HD Recorded Walkthrough + Full 15-Point Report."},
	{ID: "Premium", Name: "Premium", Price: 89, Description: "All Standard features + Printed Cover Letter delivered to Agent."},
}

func FindPricingTier(id string) (PricingTier, bool) {
	for _, t := range PricingTiers {
		if strings.EqualFold(t.ID, strings.TrimSpace(id)) {
			return t, true
		}
	}
	return PricingTier{}, false
}
