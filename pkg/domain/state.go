package domain

// Step is the wizard position. It is never persisted on its own.
type Step int

const (
	StepAudienceSelect Step = iota
	StepRulesEntry
	StepRulesSummary
	StepItineraryGeneration
	StepExport
)

var stepNames = [...]string{
	StepAudienceSelect:      "audience_select",
	StepRulesEntry:          "rules_entry",
	StepRulesSummary:        "rules_summary",
	StepItineraryGeneration: "itinerary_generation",
	StepExport:              "export",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// MarshalText renders the step name for JSON and logs.
func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a read-only view of the wizard.
type Snapshot struct {
	Step      Step       `json:"step"`
	Audience  Audience   `json:"audience,omitempty"`
	Rules     *TripRules `json:"rules,omitempty"`
	Itinerary string     `json:"itinerary,omitempty"`

	// Pending is true while a generation request is in flight.
	Pending bool `json:"pending"`
}
