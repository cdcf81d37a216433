package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/itinerary"
	"github.com/aretw0/triprules/pkg/schema"
)

// RulesMarkdown renders confirmed rules as a markdown table.
func RulesMarkdown(audience domain.Audience, rules domain.TripRules) string {
	var b strings.Builder
	b.WriteString("# Trip rules\n\n")
	fmt.Fprintf(&b, "**Audience:** %s\n\n", audience.Label())

	b.WriteString("| Rule | Value |\n|---|---|\n")
	row := func(k, v string) {
		if v == "" {
			return
		}
		fmt.Fprintf(&b, "| %s | %s |\n", k, strings.ReplaceAll(v, "|", `\|`))
	}

	days := schema.DayCount(rules.StartDate, rules.EndDate)
	row("Trip name", rules.TripName)
	row("City", rules.City)
	row("Dates", fmt.Sprintf("%s to %s (%d days)", rules.StartDate, rules.EndDate, days))
	row("Team size", fmt.Sprint(rules.TeamSize))
	row("Budget", itinerary.FormatBudget(rules.BudgetMin, rules.BudgetMax))
	row("Pace", string(rules.Pace))
	row("Wi-Fi needed", yesNo(rules.NeedsWifi))
	row("Near venue", yesNo(rules.NearVenue))
	if rules.MeetingStart != "" || rules.MeetingEnd != "" {
		row("Meeting hours", rules.MeetingStart+"-"+rules.MeetingEnd)
	}
	row("Notes", rules.Notes)
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
