package domain

// Persisted key space. The version suffix is bumped on any field-shape change,
// older shapes are then treated as absent.
const (
	KeyAudience      = "audience"
	KeyTripRules     = "trip_rules_v1"
	KeyItineraryText = "itinerary_text_v1"
)

// Keys lists every key the wizard owns, in write order.
var Keys = []string{KeyAudience, KeyTripRules, KeyItineraryText}
