package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/wizard"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	// Completed steps have their artifact persisted.
	Completed   []domain.Step
	CurrentStep domain.Step
}

// GenerateMermaid produces a Mermaid flowchart of the wizard steps.
// It applies semantic styling:
// - Audience selection: ((Circle))
// - Generation: [[Subroutine]]
// - Input steps (rules entry): [/Parallelogram/]
// - Default: [Rectangle]
// Backward edges are dotted, and Reset is drawn once from the last step.
func GenerateMermaid(steps []domain.Step, edges []wizard.Edge, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, s := range steps {
		opener, closer := "[", "]"
		switch s {
		case domain.StepAudienceSelect:
			opener, closer = "((", "))"
		case domain.StepItineraryGeneration:
			opener, closer = "[[", "]]"
		case domain.StepRulesEntry:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", s.String(), opener, label(s), closer))
	}

	for _, e := range edges {
		arrow := fmt.Sprintf("-- \"%s\" -->", e.Op)
		if e.To < e.From {
			arrow = fmt.Sprintf("-. \"%s\" .->", e.Op)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", e.From.String(), arrow, e.To.String()))
	}
	if len(steps) > 1 {
		last := steps[len(steps)-1]
		sb.WriteString(fmt.Sprintf("    %s -. \"Reset (any step)\" .-> %s\n", last.String(), steps[0].String()))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.Step]bool)
		for _, s := range overlay.Completed {
			if !seen[s] && s != overlay.CurrentStep {
				seen[s] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", s.String()))
			}
		}
		sb.WriteString(fmt.Sprintf("    class %s current;\n", overlay.CurrentStep.String()))
	}

	return sb.String()
}

// OverlayFor marks every step before the snapshot's step as completed.
func OverlayFor(snap domain.Snapshot) *GraphOverlay {
	o := &GraphOverlay{CurrentStep: snap.Step}
	for s := domain.StepAudienceSelect; s < snap.Step; s++ {
		o.Completed = append(o.Completed, s)
	}
	return o
}

func label(s domain.Step) string {
	words := strings.Split(s.String(), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
