package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/triprules/internal/presentation/graph"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/wizard"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(wizard.Steps, wizard.Edges, nil)

	contains := []string{
		"graph TD",
		"audience_select((\"Audience Select\"))",
		"rules_entry[/\"Rules Entry\"/]",
		"itinerary_generation[[\"Itinerary Generation\"]]",
		"export[\"Export\"]",
		"audience_select -- \"SelectAudience\" --> rules_entry",
		"rules_summary -. \"Edit\" .-> rules_entry",
		"export -. \"Back\" .-> itinerary_generation",
		"export -. \"Reset (any step)\" .-> audience_select",
	}
	for _, c := range contains {
		if !strings.Contains(out, c) {
			t.Errorf("expected output to contain %q\nGot:\n%s", c, out)
		}
	}
	if strings.Contains(out, "classDef") {
		t.Errorf("expected no overlay styles without an overlay")
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	overlay := graph.OverlayFor(domain.Snapshot{Step: domain.StepRulesSummary})
	out := graph.GenerateMermaid(wizard.Steps, wizard.Edges, overlay)

	for _, c := range []string{
		"class audience_select visited;",
		"class rules_entry visited;",
		"class rules_summary current;",
	} {
		if !strings.Contains(out, c) {
			t.Errorf("expected output to contain %q\nGot:\n%s", c, out)
		}
	}
	if strings.Contains(out, "class export") {
		t.Errorf("future steps must not be styled")
	}
}
