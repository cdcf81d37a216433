package schema

import (
	"testing"

	"github.com/aretw0/triprules/pkg/domain"
)

func TestFromMeta_Legacy(t *testing.T) {
	meta := map[string]any{
		"travelType":  "Personal Travel",
		"destination": " Jaipur ",
		"days":        float64(4),
		"peopleCount": float64(3),
		"budget":      "25,000",
		"pace":        "Balanced",
		"foodPref":    "Vegetarian",
	}

	got, err := FromMeta(meta)
	if err != nil {
		t.Fatalf("FromMeta failed: %v", err)
	}
	if got.Audience != domain.AudiencePersonal {
		t.Errorf("Audience = %q", got.Audience)
	}
	if got.Rules.City != "Jaipur" || got.Rules.TeamSize != 3 {
		t.Errorf("Rules = %+v", got.Rules)
	}
	if got.Rules.BudgetMin != 0 || got.Rules.BudgetMax != 25000 {
		t.Errorf("budget = %v..%v, want 0..25000", got.Rules.BudgetMin, got.Rules.BudgetMax)
	}
	if got.Rules.Pace != domain.PaceMedium {
		t.Errorf("Pace = %q, want medium", got.Rules.Pace)
	}
	if got.Days != 4 {
		t.Errorf("Days = %d, want 4", got.Days)
	}
}

func TestFromMeta_Canonical(t *testing.T) {
	rules := validRules()
	got, err := FromMeta(ToMeta(domain.AudienceTeam, rules))
	if err != nil {
		t.Fatalf("FromMeta failed: %v", err)
	}
	if got.Rules != rules {
		t.Errorf("Rules = %+v, want %+v", got.Rules, rules)
	}
	if got.Audience != domain.AudienceTeam || got.Days != 3 {
		t.Errorf("Audience/Days = %q/%d", got.Audience, got.Days)
	}
}

func TestFromMeta_EmptyBudgetString(t *testing.T) {
	got, err := FromMeta(map[string]any{"destination": "Goa", "budget": ""})
	if err != nil {
		t.Fatalf("FromMeta failed: %v", err)
	}
	if got.Rules.BudgetMax != 0 {
		t.Errorf("BudgetMax = %v, want 0", got.Rules.BudgetMax)
	}
}

func TestFromMeta_Nil(t *testing.T) {
	got, err := FromMeta(nil)
	if err != nil {
		t.Fatalf("FromMeta failed: %v", err)
	}
	if got.Audience != domain.AudienceTeam || got.Rules.Pace != domain.PaceMedium {
		t.Errorf("unexpected defaults %+v", got)
	}
}

func TestNormalizePace(t *testing.T) {
	cases := map[string]domain.Pace{
		"Relaxed":  domain.PaceLight,
		"light":    domain.PaceLight,
		"Balanced": domain.PaceMedium,
		"medium":   domain.PaceMedium,
		"Fast":     domain.PacePacked,
		"packed":   domain.PacePacked,
		"":         domain.PaceMedium,
		"sprint":   domain.PaceMedium,
	}
	for in, want := range cases {
		if got := NormalizePace(in); got != want {
			t.Errorf("NormalizePace(%q) = %q, want %q", in, got, want)
		}
	}
}
