package itinerary

import (
	"fmt"
	"strings"

	"github.com/aretw0/triprules/pkg/domain"
)

// BuildPrompt renders the planner instructions sent to a remote backend
// together with the trip rules.
func BuildPrompt(audience domain.Audience, rules domain.TripRules) string {
	var b strings.Builder

	b.WriteString("You are an expert travel planner.\n")
	fmt.Fprintf(&b, "Create a day-wise itinerary for a %s trip.\n\n", strings.ToLower(audience.Label()))

	b.WriteString("Trip rules:\n")
	if rules.TripName != "" {
		fmt.Fprintf(&b, "- Trip name: %s\n", rules.TripName)
	}
	fmt.Fprintf(&b, "- City: %s\n", orNA(rules.City))
	fmt.Fprintf(&b, "- Dates: %s to %s\n", orNA(rules.StartDate), orNA(rules.EndDate))
	fmt.Fprintf(&b, "- Travellers: %d\n", rules.TeamSize)
	fmt.Fprintf(&b, "- Budget: %s\n", FormatBudget(rules.BudgetMin, rules.BudgetMax))
	fmt.Fprintf(&b, "- Pace: %s\n", orNA(string(rules.Pace)))

	if audience == domain.AudienceTeam {
		if rules.MeetingStart != "" && rules.MeetingEnd != "" {
			fmt.Fprintf(&b, "- Keep %s-%s free for meetings every day\n", rules.MeetingStart, rules.MeetingEnd)
		}
		if rules.NearVenue {
			b.WriteString("- Stay near the venue\n")
		}
	}
	if rules.NeedsWifi {
		b.WriteString("- Reliable Wi-Fi is required\n")
	}
	if rules.Notes != "" {
		fmt.Fprintf(&b, "- Notes: %s\n", rules.Notes)
	}

	b.WriteString("\nReturn:\n")
	b.WriteString("1) Day-wise plan (Morning/Afternoon/Evening)\n")
	b.WriteString("2) Packing checklist\n")
	b.WriteString("3) Budget summary\n")
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
