package schema

import (
	"math"
	"time"
)

// DateLayout is the wire format of StartDate and EndDate.
const DateLayout = "2006-01-02"

// MaxDays bounds the number of days an itinerary is rendered for.
const MaxDays = 60

// FallbackDays is used whenever the dates cannot be turned into a day count.
const FallbackDays = 3

// DayCount returns the inclusive number of days between start and end, at least 1.
// Missing or unparsable dates yield FallbackDays so generators never fail on bad input.
func DayCount(start, end string) int {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return FallbackDays
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return FallbackDays
	}
	days := int(math.Floor(e.Sub(s).Hours()/24)) + 1
	if days < 1 {
		return 1
	}
	return days
}
