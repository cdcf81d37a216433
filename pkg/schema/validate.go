package schema

import (
	"math"
	"strings"
	"time"

	"github.com/aretw0/triprules/pkg/domain"
)

// Field names as they appear in the persisted JSON.
const (
	FieldCity      = "city"
	FieldStartDate = "startDate"
	FieldEndDate   = "endDate"
	FieldTeamSize  = "teamSize"
	FieldBudgetMin = "budgetMin"
	FieldBudgetMax = "budgetMax"
)

// Validate checks rules against the required-field and cross-field constraints.
// Every rule is evaluated so callers can show all problems at once.
func Validate(rules domain.TripRules) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(rules.City) == "" {
		errs[FieldCity] = "City is required."
	}
	start, startOK := checkDate(errs, FieldStartDate, "Start date", rules.StartDate)
	end, endOK := checkDate(errs, FieldEndDate, "End date", rules.EndDate)
	if startOK && endOK && end.Before(start) {
		errs[FieldEndDate] = "End date must be after start date."
	}
	if rules.TeamSize < 1 {
		errs[FieldTeamSize] = "Team size must be at least 1."
	}

	minOK := finite(rules.BudgetMin)
	maxOK := finite(rules.BudgetMax)
	if !minOK || rules.BudgetMin < 0 {
		errs[FieldBudgetMin] = "Budget must be valid."
	}
	if !maxOK || rules.BudgetMax <= 0 {
		errs[FieldBudgetMax] = "Budget must be valid."
	}
	if minOK && maxOK && rules.BudgetMax < rules.BudgetMin {
		errs[FieldBudgetMax] = "Max budget must be ≥ min budget."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// checkDate records a missing or malformed date and returns the parsed value.
func checkDate(errs FieldErrors, field, label, value string) (time.Time, bool) {
	if value == "" {
		errs[field] = label + " is required."
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		errs[field] = label + " must be a date in YYYY-MM-DD format."
		return time.Time{}, false
	}
	return t, true
}

// finite reports whether v is neither NaN nor an infinity.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DefaultRules returns the values the entry form starts from.
func DefaultRules() domain.TripRules {
	return domain.TripRules{
		TeamSize:     2,
		BudgetMin:    20000,
		BudgetMax:    80000,
		Pace:         domain.PaceMedium,
		NeedsWifi:    true,
		NearVenue:    true,
		MeetingStart: "10:00",
		MeetingEnd:   "17:00",
	}
}
