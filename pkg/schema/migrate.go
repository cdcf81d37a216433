package schema

import (
	"fmt"
	"strings"

	"github.com/aretw0/triprules/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Meta is a request payload normalized into the canonical schema.
type Meta struct {
	Audience domain.Audience
	Rules    domain.TripRules

	// Days is an explicit day count sent by older clients. Zero means "derive from dates".
	Days int
}

// metaShape accepts both the v1 field names and the older backend shape.
type metaShape struct {
	Audience   string `mapstructure:"audience"`
	TravelType string `mapstructure:"travelType"`

	TripName    string `mapstructure:"tripName"`
	City        string `mapstructure:"city"`
	Destination string `mapstructure:"destination"`
	StartDate   string `mapstructure:"startDate"`
	EndDate     string `mapstructure:"endDate"`
	Days        int    `mapstructure:"days"`

	TeamSize    int `mapstructure:"teamSize"`
	PeopleCount int `mapstructure:"peopleCount"`

	BudgetMin float64 `mapstructure:"budgetMin"`
	BudgetMax float64 `mapstructure:"budgetMax"`
	Budget    float64 `mapstructure:"budget"`

	Pace         string `mapstructure:"pace"`
	NeedsWifi    bool   `mapstructure:"needsWifi"`
	NearVenue    bool   `mapstructure:"nearVenue"`
	MeetingStart string `mapstructure:"meetingStart"`
	MeetingEnd   string `mapstructure:"meetingEnd"`
	Notes        string `mapstructure:"notes"`
}

// numericKeys may arrive as formatted strings ("25,000") from form inputs.
var numericKeys = []string{"budget", "budgetMin", "budgetMax", "days", "teamSize", "peopleCount"}

// FromMeta decodes a loosely typed request payload into the canonical schema.
// It never validates: the backend must render something even for incomplete input.
func FromMeta(meta map[string]any) (Meta, error) {
	if meta == nil {
		return Meta{Audience: domain.AudienceTeam, Rules: domain.TripRules{Pace: domain.PaceMedium}}, nil
	}

	cleaned := make(map[string]any, len(meta))
	for k, v := range meta {
		cleaned[k] = v
	}
	for _, k := range numericKeys {
		if s, ok := cleaned[k].(string); ok {
			cleaned[k] = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		}
	}

	var shape metaShape
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &shape,
	})
	if err != nil {
		return Meta{}, fmt.Errorf("failed to build meta decoder: %w", err)
	}
	if err := decoder.Decode(cleaned); err != nil {
		return Meta{}, fmt.Errorf("failed to decode meta: %w", err)
	}

	rules := domain.TripRules{
		TripName:     strings.TrimSpace(shape.TripName),
		City:         strings.TrimSpace(shape.City),
		StartDate:    shape.StartDate,
		EndDate:      shape.EndDate,
		TeamSize:     shape.TeamSize,
		BudgetMin:    shape.BudgetMin,
		BudgetMax:    shape.BudgetMax,
		Pace:         NormalizePace(shape.Pace),
		NeedsWifi:    shape.NeedsWifi,
		NearVenue:    shape.NearVenue,
		MeetingStart: shape.MeetingStart,
		MeetingEnd:   shape.MeetingEnd,
		Notes:        strings.TrimSpace(shape.Notes),
	}
	if rules.City == "" {
		rules.City = strings.TrimSpace(shape.Destination)
	}
	if rules.TeamSize == 0 {
		rules.TeamSize = shape.PeopleCount
	}
	// A single legacy budget is an upper bound.
	if rules.BudgetMax == 0 && shape.Budget > 0 {
		rules.BudgetMax = shape.Budget
	}

	return Meta{
		Audience: normalizeAudience(shape.Audience, shape.TravelType),
		Rules:    rules,
		Days:     shape.Days,
	}, nil
}

// NormalizePace maps both pace vocabularies onto the canonical one.
// Unknown or empty values become medium.
func NormalizePace(s string) domain.Pace {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "relaxed":
		return domain.PaceLight
	case "packed", "fast":
		return domain.PacePacked
	default:
		return domain.PaceMedium
	}
}

func normalizeAudience(audience, travelType string) domain.Audience {
	if a := domain.Audience(strings.ToLower(strings.TrimSpace(audience))); a.Valid() {
		return a
	}
	if strings.HasPrefix(strings.ToLower(travelType), "personal") {
		return domain.AudiencePersonal
	}
	return domain.AudienceTeam
}

// ToMeta renders rules in the v1 request shape.
func ToMeta(audience domain.Audience, rules domain.TripRules) map[string]any {
	return map[string]any{
		"audience":     string(audience),
		"tripName":     rules.TripName,
		"city":         rules.City,
		"startDate":    rules.StartDate,
		"endDate":      rules.EndDate,
		"days":         DayCount(rules.StartDate, rules.EndDate),
		"teamSize":     rules.TeamSize,
		"budgetMin":    rules.BudgetMin,
		"budgetMax":    rules.BudgetMax,
		"pace":         string(rules.Pace),
		"needsWifi":    rules.NeedsWifi,
		"nearVenue":    rules.NearVenue,
		"meetingStart": rules.MeetingStart,
		"meetingEnd":   rules.MeetingEnd,
		"notes":        rules.Notes,
	}
}
