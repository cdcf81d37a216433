package domain

// Pace controls how dense each itinerary day is.
type Pace string

const (
	PaceLight  Pace = "light"
	PaceMedium Pace = "medium"
	PacePacked Pace = "packed"
)

// Valid reports whether p belongs to the canonical vocabulary.
func (p Pace) Valid() bool {
	return p == PaceLight || p == PaceMedium || p == PacePacked
}

// TripRules holds the non-negotiable constraints of a trip.
// The JSON shape is the persisted v1 schema.
type TripRules struct {
	TripName     string  `json:"tripName"`
	City         string  `json:"city"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	TeamSize     int     `json:"teamSize"`
	BudgetMin    float64 `json:"budgetMin"`
	BudgetMax    float64 `json:"budgetMax"`
	Pace         Pace    `json:"pace"`
	NeedsWifi    bool    `json:"needsWifi"`
	NearVenue    bool    `json:"nearVenue"`
	MeetingStart string  `json:"meetingStart"`
	MeetingEnd   string  `json:"meetingEnd"`
	Notes        string  `json:"notes"`
}
