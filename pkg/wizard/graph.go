package wizard

import "github.com/aretw0/triprules/pkg/domain"

// Edge is one transition the Machine accepts.
type Edge struct {
	From domain.Step
	To   domain.Step
	Op   string
}

// Edges lists every forward and backward transition of the Machine.
// Reset is accepted from any step and is not listed.
var Edges = []Edge{
	{domain.StepAudienceSelect, domain.StepRulesEntry, "SelectAudience"},
	{domain.StepRulesEntry, domain.StepRulesSummary, "Continue"},
	{domain.StepRulesSummary, domain.StepRulesEntry, "Edit"},
	{domain.StepRulesSummary, domain.StepItineraryGeneration, "Generate"},
	{domain.StepItineraryGeneration, domain.StepRulesSummary, "Back"},
	{domain.StepItineraryGeneration, domain.StepExport, "Next"},
	{domain.StepExport, domain.StepItineraryGeneration, "Back"},
}

// Steps lists the wizard steps in order.
var Steps = []domain.Step{
	domain.StepAudienceSelect,
	domain.StepRulesEntry,
	domain.StepRulesSummary,
	domain.StepItineraryGeneration,
	domain.StepExport,
}
