package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/export"
	"github.com/aretw0/triprules/pkg/schema"
)

// Wizard is the subset of wizard.Machine the runner drives.
type Wizard interface {
	Snapshot() domain.Snapshot
	Draft() domain.TripRules
	SelectAudience(ctx context.Context, a domain.Audience) error
	Continue(ctx context.Context, rules domain.TripRules) error
	Edit(ctx context.Context) error
	Generate(ctx context.Context) error
	Back(ctx context.Context) error
	Reset(ctx context.Context) error
	RequestItinerary(ctx context.Context) (string, error)
	Copy(ctx context.Context) error
	Download(ctx context.Context, filename string) error
}

var errQuit = errors.New("quit")

// Runner walks a Wizard step by step over a TextHandler.
type Runner struct {
	Handler  *TextHandler
	Logger   *slog.Logger
	Renderer ContentRenderer
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInputHandler configures the text handler.
func WithInputHandler(h *TextHandler) Option {
	return func(r *Runner) {
		r.Handler = h
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithRenderer configures the content renderer (e.g. glamour).
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// NewRunner creates a Runner reading Stdin and writing Stdout by default.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	if r.Renderer != nil && r.Handler.Renderer == nil {
		r.Handler.Renderer = r.Renderer
	}
	return r
}

// Run drives w until the user quits or input ends. Both return nil.
func (r *Runner) Run(ctx context.Context, w Wizard) error {
	defer r.Handler.Close()

	last := domain.Step(-1)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		snap := w.Snapshot()
		fresh := snap.Step != last
		last = snap.Step

		var err error
		switch snap.Step {
		case domain.StepAudienceSelect:
			err = r.selectAudience(ctx, w)
		case domain.StepRulesEntry:
			err = r.enterRules(ctx, w, snap.Audience)
		case domain.StepRulesSummary:
			err = r.summary(ctx, w, snap, fresh)
		case domain.StepItineraryGeneration:
			err = r.generation(ctx, w)
		case domain.StepExport:
			err = r.export(ctx, w, snap, fresh)
		default:
			return fmt.Errorf("unknown step %d", snap.Step)
		}

		switch {
		case err == nil:
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			r.Logger.Debug("runner stopped", "step", snap.Step.String())
			return nil
		default:
			return err
		}
	}
}

func (r *Runner) selectAudience(ctx context.Context, w Wizard) error {
	h := r.Handler
	h.Print("# Who is this trip for?")
	answer, err := h.Ask(ctx, "[1] "+domain.AudienceTeam.Label()+"  [2] "+domain.AudiencePersonal.Label()+"  [q] quit")
	if err != nil {
		return err
	}

	var a domain.Audience
	switch strings.ToLower(answer) {
	case "1", "team":
		a = domain.AudienceTeam
	case "2", "personal":
		a = domain.AudiencePersonal
	case "q", "quit":
		return errQuit
	default:
		h.Printf("Please pick 1 or 2.")
		return nil
	}
	return w.SelectAudience(ctx, a)
}

func (r *Runner) enterRules(ctx context.Context, w Wizard, audience domain.Audience) error {
	h := r.Handler
	rules := w.Draft()
	h.Print("# Trip rules\nPress enter to keep the value in brackets.")

	for {
		if err := r.askRules(ctx, audience, &rules); err != nil {
			return err
		}

		err := w.Continue(ctx, rules)
		fields, ok := schema.AsFieldErrors(err)
		if !ok {
			return err
		}
		h.Printf("Please fix the following:")
		for _, f := range fields.Fields() {
			h.Printf("  - %s: %s", f, fields[f])
		}
	}
}

func (r *Runner) askRules(ctx context.Context, audience domain.Audience, rules *domain.TripRules) error {
	steps := []func() error{
		func() error { return r.askText(ctx, "Trip name", &rules.TripName) },
		func() error { return r.askText(ctx, "City", &rules.City) },
		func() error { return r.askText(ctx, "Start date (YYYY-MM-DD)", &rules.StartDate) },
		func() error { return r.askText(ctx, "End date (YYYY-MM-DD)", &rules.EndDate) },
		func() error { return r.askInt(ctx, "Team size", &rules.TeamSize) },
		func() error { return r.askFloat(ctx, "Min budget (INR)", &rules.BudgetMin) },
		func() error { return r.askFloat(ctx, "Max budget (INR)", &rules.BudgetMax) },
		func() error { return r.askPace(ctx, &rules.Pace) },
		func() error { return r.askBool(ctx, "Needs Wi-Fi", &rules.NeedsWifi) },
	}
	if audience == domain.AudienceTeam {
		steps = append(steps,
			func() error { return r.askBool(ctx, "Stay near the venue", &rules.NearVenue) },
			func() error { return r.askText(ctx, "Meeting start (HH:MM)", &rules.MeetingStart) },
			func() error { return r.askText(ctx, "Meeting end (HH:MM)", &rules.MeetingEnd) },
		)
	}
	steps = append(steps, func() error { return r.askText(ctx, "Notes", &rules.Notes) })

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) ask(ctx context.Context, label, current string) (string, error) {
	answer, err := r.Handler.Ask(ctx, fmt.Sprintf("%s [%s]", label, current))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return current, nil
	}
	return answer, nil
}

func (r *Runner) askText(ctx context.Context, label string, dst *string) error {
	v, err := r.ask(ctx, label, *dst)
	if err != nil {
		return err
	}
	if v == "-" {
		v = ""
	}
	*dst = v
	return nil
}

func (r *Runner) askInt(ctx context.Context, label string, dst *int) error {
	for {
		v, err := r.ask(ctx, label, strconv.Itoa(*dst))
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
		if err != nil {
			r.Handler.Printf("%s must be a whole number.", label)
			continue
		}
		*dst = n
		return nil
	}
}

func (r *Runner) askFloat(ctx context.Context, label string, dst *float64) error {
	for {
		v, err := r.ask(ctx, label, strconv.FormatFloat(*dst, 'f', -1, 64))
		if err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			r.Handler.Printf("%s must be a number.", label)
			continue
		}
		*dst = f
		return nil
	}
}

func (r *Runner) askBool(ctx context.Context, label string, dst *bool) error {
	for {
		v, err := r.ask(ctx, label+" (y/n)", yesNo(*dst))
		if err != nil {
			return err
		}
		switch strings.ToLower(v) {
		case "y", "yes", "true":
			*dst = true
			return nil
		case "n", "no", "false":
			*dst = false
			return nil
		}
		r.Handler.Printf("Please answer y or n.")
	}
}

func (r *Runner) askPace(ctx context.Context, dst *domain.Pace) error {
	paces := []string{string(domain.PaceLight), string(domain.PaceMedium), string(domain.PacePacked)}
	for {
		v, err := r.ask(ctx, "Pace ("+strings.Join(paces, "/")+")", string(*dst))
		if err != nil {
			return err
		}
		if p := domain.Pace(strings.ToLower(v)); p.Valid() {
			*dst = p
			return nil
		}
		r.Handler.Printf("Pace must be one of %s.", strings.Join(paces, ", "))
	}
}

func (r *Runner) summary(ctx context.Context, w Wizard, snap domain.Snapshot, fresh bool) error {
	h := r.Handler
	if fresh && snap.Rules != nil {
		h.Print(RulesMarkdown(snap.Audience, *snap.Rules))
	}
	answer, err := h.Ask(ctx, "[g] generate itinerary  [e] edit rules  [r] start over  [q] quit")
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "g", "":
		return w.Generate(ctx)
	case "e":
		return w.Edit(ctx)
	case "r":
		return w.Reset(ctx)
	case "q":
		return errQuit
	}
	h.Printf("Unknown choice %q.", answer)
	return nil
}

func (r *Runner) generation(ctx context.Context, w Wizard) error {
	h := r.Handler
	answer, err := h.Ask(ctx, "[enter] generate  [b] back  [q] quit")
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "":
	case "b":
		return w.Back(ctx)
	case "q":
		return errQuit
	default:
		h.Printf("Unknown choice %q.", answer)
		return nil
	}

	h.Printf("Generating itinerary...")
	if _, err := w.RequestItinerary(ctx); err != nil {
		if errors.Is(err, domain.ErrGenerationFailed) || errors.Is(err, domain.ErrStaleGeneration) {
			r.Logger.Warn("generation failed", "error", err)
			h.Printf("Could not generate the itinerary: %v", err)
			return nil
		}
		return err
	}
	return nil
}

func (r *Runner) export(ctx context.Context, w Wizard, snap domain.Snapshot, fresh bool) error {
	h := r.Handler
	if fresh {
		h.Print("# Itinerary\n\n```\n" + strings.TrimRight(snap.Itinerary, "\n") + "\n```")
	}
	answer, err := h.Ask(ctx, "[c] copy  [d] download  [b] back  [r] start over  [q] quit")
	if err != nil {
		return err
	}

	switch strings.ToLower(answer) {
	case "c":
		err = w.Copy(ctx)
		if err == nil {
			h.Printf("Copied to clipboard.")
		}
	case "d":
		var name string
		name, err = h.Ask(ctx, "File name ["+export.DefaultFilename+"]")
		if err != nil {
			return err
		}
		if err = w.Download(ctx, name); err == nil {
			h.Printf("Saved %s.", orDefault(name, export.DefaultFilename))
		}
	case "b":
		return w.Back(ctx)
	case "r":
		return w.Reset(ctx)
	case "q":
		return errQuit
	default:
		h.Printf("Unknown choice %q.", answer)
		return nil
	}

	if errors.Is(err, domain.ErrExportFailed) {
		h.Printf("Export failed: %v", err)
		return nil
	}
	return err
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
