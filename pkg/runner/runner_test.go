package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/triprules/pkg/adapters/memory"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/export"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/aretw0/triprules/pkg/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func newSession(t *testing.T, store ports.KVStore, gen ports.Generator, dir string) *wizard.Machine {
	t.Helper()
	m, err := wizard.New(context.Background(), store,
		wizard.WithGenerator(gen),
		wizard.WithExporter(export.New(dir)),
	)
	require.NoError(t, err)
	return m
}

func run(t *testing.T, m *wizard.Machine, input string) string {
	t.Helper()
	out := &bytes.Buffer{}
	r := NewRunner(WithInputHandler(NewTextHandler(strings.NewReader(input), out)))
	require.NoError(t, r.Run(context.Background(), m))
	return out.String()
}

func TestRunner_FullSession(t *testing.T) {
	dir := t.TempDir()
	store := memory.NewStore()
	gen := ports.GeneratorFunc(func(ctx context.Context, a domain.Audience, r domain.TripRules) (string, error) {
		return "Day 1: " + r.City, nil
	})
	m := newSession(t, store, gen, dir)

	input := lines(
		"1",
		// First attempt: max budget below min.
		"Offsite", "Goa", "2024-01-01", "2024-01-03", "", "10000", "5", "", "", "", "", "", "",
		// Second attempt keeps everything but fixes the max.
		"", "", "", "", "", "", "20000", "", "", "", "", "", "",
		"g",
		"",
		"d", "trip.txt",
		"q",
	)
	out := run(t, m, input)

	assert.Contains(t, out, "Please fix the following:")
	assert.Contains(t, out, "budgetMax: Max budget must be ≥ min budget.")
	assert.Contains(t, out, "| City | Goa |")
	assert.Contains(t, out, "Generating itinerary...")
	assert.Contains(t, out, "Day 1: Goa")
	assert.Contains(t, out, "Saved trip.txt.")

	snap := m.Snapshot()
	assert.Equal(t, domain.StepExport, snap.Step)
	require.NotNil(t, snap.Rules)
	assert.Equal(t, "Offsite", snap.Rules.TripName)
	assert.Equal(t, 20000.0, snap.Rules.BudgetMax)
	assert.Equal(t, 2, snap.Rules.TeamSize)

	data, err := os.ReadFile(filepath.Join(dir, "trip.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Itinerary:\nDay 1: Goa")
}

func TestRunner_ResumesAndEdits(t *testing.T) {
	store := memory.NewStore()
	gen := ports.GeneratorFunc(func(ctx context.Context, a domain.Audience, r domain.TripRules) (string, error) {
		return "Day 1", nil
	})

	first := newSession(t, store, gen, t.TempDir())
	run(t, first, lines("2", "", "Pune", "2024-02-01", "2024-02-02", "1", "", "", "light", "n", "", "q"))
	require.Equal(t, domain.StepRulesSummary, first.Snapshot().Step)

	// A new process resumes at the summary and can go back to editing.
	second := newSession(t, store, gen, t.TempDir())
	out := run(t, second, lines("e", "", "Mumbai", "", "", "", "", "", "", "", "", "q"))

	assert.Contains(t, out, "City [Pune]")
	snap := second.Snapshot()
	assert.Equal(t, domain.StepRulesSummary, snap.Step)
	assert.Equal(t, "Mumbai", snap.Rules.City)
	assert.Equal(t, domain.PaceLight, snap.Rules.Pace)
}

func TestRunner_GenerationFailureStays(t *testing.T) {
	store := memory.NewStore()
	gen := ports.GeneratorFunc(func(ctx context.Context, a domain.Audience, r domain.TripRules) (string, error) {
		return "", domain.ErrGenerationFailed
	})
	m := newSession(t, store, gen, t.TempDir())

	out := run(t, m, lines(
		"2", "", "Pune", "2024-02-01", "2024-02-02", "1", "", "", "", "", "",
		"g", "", "b", "q",
	))

	assert.Contains(t, out, "Could not generate the itinerary")
	assert.Equal(t, domain.StepRulesSummary, m.Snapshot().Step)
}

func TestRunner_RejectsBadNumbers(t *testing.T) {
	m := newSession(t, memory.NewStore(), nil, t.TempDir())
	out := run(t, m, lines("2", "", "Pune", "2024-02-01", "2024-02-02", "two", "1", "", "", "fast", "", "maybe", "n", ""))

	assert.Contains(t, out, "Team size must be a whole number.")
	assert.Contains(t, out, "Pace must be one of light, medium, packed.")
	assert.Contains(t, out, "Please answer y or n.")
	assert.Equal(t, domain.StepRulesSummary, m.Snapshot().Step)
}

func TestRunner_RejectsNonFiniteBudget(t *testing.T) {
	m := newSession(t, memory.NewStore(), nil, t.TempDir())
	out := run(t, m, lines("2", "", "Pune", "2024-02-01", "2024-02-02", "1", "", "NaN", "Inf", "30000", "", "", ""))

	assert.Equal(t, 2, strings.Count(out, "Max budget (INR) must be a number."))
	snap := m.Snapshot()
	assert.Equal(t, domain.StepRulesSummary, snap.Step)
	require.NotNil(t, snap.Rules)
	assert.Equal(t, 30000.0, snap.Rules.BudgetMax)
}

func TestRunner_EOFStopsCleanly(t *testing.T) {
	m := newSession(t, memory.NewStore(), nil, t.TempDir())
	out := run(t, m, "")
	assert.Contains(t, out, "Who is this trip for?")
	assert.Equal(t, domain.StepAudienceSelect, m.Snapshot().Step)
}

func TestRunner_ContextCancelled(t *testing.T) {
	m := newSession(t, memory.NewStore(), nil, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(WithInputHandler(NewTextHandler(strings.NewReader("1\n"), &bytes.Buffer{})))
	assert.ErrorIs(t, r.Run(ctx, m), context.Canceled)
}

func TestRulesMarkdown(t *testing.T) {
	md := RulesMarkdown(domain.AudienceTeam, domain.TripRules{
		City:         "Goa",
		StartDate:    "2024-01-01",
		EndDate:      "2024-01-03",
		TeamSize:     2,
		BudgetMin:    20000,
		BudgetMax:    80000,
		Pace:         domain.PaceMedium,
		MeetingStart: "10:00",
		MeetingEnd:   "17:00",
		Notes:        "a|b",
	})

	assert.Contains(t, md, "**Audience:** Team/Company Travel")
	assert.Contains(t, md, "| Dates | 2024-01-01 to 2024-01-03 (3 days) |")
	assert.Contains(t, md, "| Budget | ₹20,000 - ₹80,000 |")
	assert.Contains(t, md, "| Meeting hours | 10:00-17:00 |")
	assert.Contains(t, md, `| Notes | a\|b |`)
	assert.NotContains(t, md, "Trip name")
}
