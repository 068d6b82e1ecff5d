package domain

import (
	"errors"
	"fmt"
	"time"
)

type CheckResult string

const (
	CheckNormal  CheckResult = "normal"
	CheckFlagged CheckResult = "flagged"
)

// ChecklistPoints is the fixed, ordered 15-point inspection checklist.
var ChecklistPoints = []string{
	"Mobile Signal Strength Check (Telstra/Optus/Vodafone)",
	"Water Pressure Check (Shower/Sink)",
	"Hidden Mould & Damp Visual Check (Behind Blinds/Under Sinks)",
	"Noise Levels Assessment (Street, Neighbors, Construction)",
	"All Appliances Tested (Oven, Dishwasher, A/C)",
	"Sunlight Orientation and Natural Light (AM/PM)",
	"Storage Space Confirmation (Built-ins, Linen, Pantry)",
	"Condition of Carpets and Walls (Minor Dents/Stains)",
	"Power Outlet Functionality (Quick check of 2-3 outlets)",
	"Window/Door Seal Check (Drafts/Security Visual)",
	"NBN/Internet Connection Type Visual Check (Where possible)",
	"Pest/Insect Visual Presence (Obvious signs)",
	"Bin/Recycling Location & Access Check",
	"Proximity to Transport (Bus stop, train station)",
	"Leaking Taps/Toilets (Quick running test)",
}

type ChecklistItem struct {
	Point  string      `json:"point" firestore:"point"`
	Result CheckResult `json:"result" firestore:"result"`
	Notes  string      `json:"notes,omitempty" firestore:"notes"`
}

type InspectionReport struct {
	Items       []ChecklistItem `json:"items" firestore:"items"`
	Summary     string          `json:"summary,omitempty" firestore:"summary"`
	Placeholder bool            `json:"placeholder" firestore:"placeholder"`
	GeneratedAt time.Time       `json:"generatedAt" firestore:"generatedAt"`
}

var ErrInvalidReport = errors.New("invalid inspection report")

// Validate checks that the report covers the checklist in order with known results.
func (r *InspectionReport) Validate() error {
	if len(r.Items) != len(ChecklistPoints) {
		return fmt.Errorf("%w: expected %d items, got %d", ErrInvalidReport, len(ChecklistPoints), len(r.Items))
	}
	for i, item := range r.Items {
		if item.Point != ChecklistPoints[i] {
			return fmt.Errorf("%w: item %d is %q, expected %q", ErrInvalidReport, i, item.Point, ChecklistPoints[i])
		}
		if item.Result != CheckNormal && item.Result != CheckFlagged {
			return fmt.Errorf("%w: item %d has result %q", ErrInvalidReport, i, item.Result)
		}
	}
	return nil
}

// PlaceholderReport is returned for completed bookings that never had a report attached.
func PlaceholderReport(now time.Time) *InspectionReport {
	items := make([]ChecklistItem, 0, len(ChecklistPoints))
	for _, p := range ChecklistPoints {
		items = append(items, ChecklistItem{Point: p, Result: CheckNormal})
	}
	return &InspectionReport{
		Items:       items,
		Summary:     "Your full report has been sent to your email.",
		Placeholder: true,
		GeneratedAt: now.UTC(),
	}
}
