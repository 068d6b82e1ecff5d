package domain

import "strings"

// Stage is the customer-facing simplification of a stored booking status.
type Stage string

const (
	StageAssigned  Stage = "assigned"
	StageInspected Stage = "inspected"
	StageCompleted Stage = "completed"
)

type stageRule struct {
	contains string
	stage    Stage
}

// stageRules is checked in order, first match wins. Order matters:
// "inspection complete" must hit "inspect" before "complet",
// and "Report Sent" must hit "report" before anything else.
var stageRules = []stageRule{
	{"report", StageCompleted},
	{"inspect", StageInspected},
	{"attend", StageInspected},
	{"complet", StageCompleted},
	{"deliver", StageCompleted},
	{"sent", StageCompleted},
	{"assign", StageAssigned},
}

// NormalizeStage maps a stored status onto a Stage. Matching is a
// case-insensitive substring test against stageRules. Anything that does not
// match, including the empty string and "cancelled", maps to StageAssigned:
// the admin may edit status text by hand and the customer view must never fail
// because of it.
func NormalizeStage(status string) Stage {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return StageAssigned
	}
	for _, r := range stageRules {
		if strings.Contains(s, r.contains) {
			return r.stage
		}
	}
	return StageAssigned
}

type stageCopy struct {
	Label   string
	Message string
}

var stageText = map[Stage]stageCopy{
	StageAssigned: {
		Label:   "Agent Assigned",
		Message: "Your local ViewMinder agent has been assigned and is ready to attend.",
	},
	StageInspected: {
		Label:   "Inspection Complete",
		Message: "Inspection complete. Report and video are being processed.",
	},
	StageCompleted: {
		Label:   "Report Sent",
		Message: "Success! Your full report and video link have been sent to your email.",
	},
}

func (s Stage) Label() string   { return stageText[s].Label }
func (s Stage) Message() string { return stageText[s].Message }
