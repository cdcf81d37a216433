package itinerary

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/schema"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Generator renders itineraries from a Catalog.
type Generator struct {
	catalog  *Catalog
	logger   *slog.Logger
	layout   *template.Template
	profiles map[domain.Audience]*compiledProfile
}

// compiledProfile holds the parsed slot and constraint templates of one audience.
type compiledProfile struct {
	Profile
	morning     *template.Template
	afternoon   *template.Template
	evening     *template.Template
	constraints []*template.Template
}

// Option configures a Generator.
type Option func(*Generator)

// WithCatalog replaces the embedded catalog.
func WithCatalog(c *Catalog) Option {
	return func(g *Generator) {
		g.catalog = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a Generator. It fails when a catalog template does not parse.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.catalog == nil {
		c, err := DefaultCatalog()
		if err != nil {
			return nil, err
		}
		g.catalog = c
	}

	layout, err := template.New("layout").Parse(g.catalog.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse itinerary layout: %w", err)
	}
	g.layout = layout

	g.profiles = make(map[domain.Audience]*compiledProfile, len(g.catalog.Audiences))
	for a, p := range g.catalog.Audiences {
		cp, err := compile(a, p)
		if err != nil {
			return nil, err
		}
		g.profiles[a] = cp
	}
	return g, nil
}

func compile(audience domain.Audience, p Profile) (*compiledProfile, error) {
	cp := &compiledProfile{Profile: p}
	parse := func(name, text string) (*template.Template, error) {
		t, err := template.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template %s: %w", audience, name, err)
		}
		return t, nil
	}

	var err error
	if cp.morning, err = parse("morning", p.Morning); err != nil {
		return nil, err
	}
	if cp.afternoon, err = parse("afternoon", p.Afternoon); err != nil {
		return nil, err
	}
	if cp.evening, err = parse("evening", p.Evening); err != nil {
		return nil, err
	}
	for i, c := range p.Constraints {
		t, err := parse(fmt.Sprintf("constraint-%d", i), c)
		if err != nil {
			return nil, err
		}
		cp.constraints = append(cp.constraints, t)
	}
	return cp, nil
}

// Generate implements ports.Generator.
func (g *Generator) Generate(ctx context.Context, audience domain.Audience, rules domain.TripRules) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	days := schema.DayCount(rules.StartDate, rules.EndDate)
	text, err := g.Render(audience, rules, days)
	if err != nil {
		return "", err
	}

	g.logger.Debug("itinerary rendered", "audience", audience, "days", days, "bytes", len(text))
	return text, nil
}

type dayView struct {
	Number    int
	Morning   string
	Afternoon string
	Evening   string
}

type slotData struct {
	Audience domain.Audience
	Rules    domain.TripRules
	Day      int
}

type layoutData struct {
	Profile     Profile
	Rules       domain.TripRules
	DayCount    int
	Days        []dayView
	Constraints []string
	Budget      string
}

// Render produces the itinerary for an explicit number of days.
// Days below 1 use schema.FallbackDays; days above schema.MaxDays are capped.
func (g *Generator) Render(audience domain.Audience, rules domain.TripRules, days int) (string, error) {
	profile, ok := g.profiles[audience]
	if !ok {
		return "", fmt.Errorf("%w: no templates for audience %q", domain.ErrGenerationFailed, audience)
	}
	if days < 1 {
		days = schema.FallbackDays
	}
	if days > schema.MaxDays {
		g.logger.Warn("itinerary capped", "requested_days", days, "max_days", schema.MaxDays)
		days = schema.MaxDays
	}

	data := layoutData{
		Profile:  profile.Profile,
		Rules:    rules,
		DayCount: days,
		Days:     make([]dayView, 0, days),
		Budget:   FormatBudget(rules.BudgetMin, rules.BudgetMax),
	}

	for d := 1; d <= days; d++ {
		slot := slotData{Audience: audience, Rules: rules, Day: d}
		view := dayView{Number: d}
		var err error
		if view.Morning, err = execute(profile.morning, slot); err != nil {
			return "", err
		}
		if view.Afternoon, err = execute(profile.afternoon, slot); err != nil {
			return "", err
		}
		if view.Evening, err = execute(profile.evening, slot); err != nil {
			return "", err
		}
		data.Days = append(data.Days, view)
	}

	for _, c := range profile.constraints {
		line, err := execute(c, slotData{Audience: audience, Rules: rules})
		if err != nil {
			return "", err
		}
		if line = strings.TrimSpace(line); line != "" {
			data.Constraints = append(data.Constraints, line)
		}
	}

	var buf bytes.Buffer
	if err := g.layout.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: template %s: %w", domain.ErrGenerationFailed, tmpl.Name(), err)
	}
	return buf.String(), nil
}

var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatBudget renders a rupee range such as "₹20,000 - ₹80,000".
func FormatBudget(minBudget, maxBudget float64) string {
	switch {
	case minBudget <= 0 && maxBudget <= 0:
		return "N/A"
	case minBudget <= 0:
		return "up to " + rupees(maxBudget)
	case maxBudget <= 0:
		return "from " + rupees(minBudget)
	}
	return rupees(minBudget) + " - " + rupees(maxBudget)
}

func rupees(v float64) string {
	return "₹" + inr.Sprintf("%d", int64(v))
}
