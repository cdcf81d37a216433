package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/export"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/aretw0/triprules/pkg/schema"
	"golang.org/x/sync/singleflight"
)

// Machine is the wizard state machine for one session.
// It is safe for concurrent use.
type Machine struct {
	store     ports.KVStore
	generator ports.Generator
	exporter  ports.Exporter
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	now       func() time.Time

	group singleflight.Group

	mu    sync.Mutex
	state domain.Snapshot

	// draft keeps the last rules that left the store through Edit.
	draft *domain.TripRules

	// token identifies the current visit of the generation step.
	token uint64

	// flight identifies the generator call shared by concurrent requests.
	flight    uint64
	cancelGen context.CancelFunc
}

// New creates a Machine positioned at the step derived from store.
func New(ctx context.Context, store ports.KVStore, opts ...Option) (*Machine, error) {
	m := &Machine{
		store:  store,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	snap, orphan, err := derive(ctx, store, m.logger)
	if err != nil {
		return nil, err
	}
	m.state = snap
	m.draft = orphan

	m.logger.Debug("wizard resumed", "step", snap.Step.String(), "audience", snap.Audience)
	return m, nil
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() domain.Snapshot {
	s := m.state
	if s.Rules != nil {
		r := *s.Rules
		s.Rules = &r
	}
	return s
}

// Step returns the current step.
func (m *Machine) Step() domain.Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Step
}

// Draft returns the rules to pre-fill the entry form with: the current rules,
// the rules cleared by the last Edit, or schema.DefaultRules.
func (m *Machine) Draft() domain.TripRules {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.state.Rules != nil:
		return *m.state.Rules
	case m.draft != nil:
		return *m.draft
	default:
		return schema.DefaultRules()
	}
}

// SelectAudience stores the audience and moves to rules entry.
func (m *Machine) SelectAudience(ctx context.Context, a domain.Audience) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAudience, a)
	}

	m.mu.Lock()
	if err := m.expectLocked("SelectAudience", domain.StepAudienceSelect); err != nil {
		m.mu.Unlock()
		return err
	}
	if err := m.store.Set(ctx, domain.KeyAudience, string(a)); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to persist audience: %w", err)
	}
	m.state.Audience = a
	events := m.moveLocked(domain.StepRulesEntry, "select_audience")
	m.mu.Unlock()

	m.emit(ctx, events)
	return nil
}

// Continue validates rules and moves to the summary.
// Invalid rules are returned as schema.FieldErrors and leave the step unchanged.
// Any previously generated itinerary is removed.
func (m *Machine) Continue(ctx context.Context, rules domain.TripRules) error {
	m.mu.Lock()
	if err := m.expectLocked("Continue", domain.StepRulesEntry); err != nil {
		m.mu.Unlock()
		return err
	}
	if errs := schema.Validate(rules); errs != nil {
		m.mu.Unlock()
		return errs
	}

	encoded, err := schema.Encode(rules)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if err := m.store.Set(ctx, domain.KeyTripRules, encoded); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to persist trip rules: %w", err)
	}
	if err := m.store.Remove(ctx, domain.KeyItineraryText); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to clear itinerary: %w", err)
	}

	m.state.Rules = &rules
	m.state.Itinerary = ""
	m.draft = nil
	events := m.moveLocked(domain.StepRulesSummary, "continue")
	m.mu.Unlock()

	m.emit(ctx, events)
	return nil
}

// Edit discards the confirmed rules and the itinerary and returns to rules entry.
func (m *Machine) Edit(ctx context.Context) error {
	m.mu.Lock()
	if err := m.expectLocked("Edit", domain.StepRulesSummary); err != nil {
		m.mu.Unlock()
		return err
	}
	m.invalidateLocked()

	for _, key := range []string{domain.KeyTripRules, domain.KeyItineraryText} {
		if err := m.store.Remove(ctx, key); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}

	m.draft = m.state.Rules
	m.state.Rules = nil
	m.state.Itinerary = ""
	events := m.moveLocked(domain.StepRulesEntry, "edit")
	m.mu.Unlock()

	m.emit(ctx, events)
	return nil
}

// Generate moves from the summary to the generation step.
func (m *Machine) Generate(ctx context.Context) error {
	m.mu.Lock()
	if err := m.expectLocked("Generate", domain.StepRulesSummary); err != nil {
		m.mu.Unlock()
		return err
	}
	m.invalidateLocked()
	events := m.moveLocked(domain.StepItineraryGeneration, "generate")
	m.mu.Unlock()

	m.emit(ctx, events)
	return nil
}

// Back moves one step back from generation or export.
// Leaving the generation step invalidates any in-flight request.
func (m *Machine) Back(ctx context.Context) error {
	m.mu.Lock()
	var to domain.Step
	switch m.state.Step {
	case domain.StepItineraryGeneration:
		to = domain.StepRulesSummary
	case domain.StepExport:
		to = domain.StepItineraryGeneration
	default:
		err := m.transitionErrLocked("Back")
		m.mu.Unlock()
		return err
	}
	m.invalidateLocked()
	events := m.moveLocked(to, "back")
	m.mu.Unlock()

	m.emit(ctx, events)
	return nil
}

// Next stores the itinerary and moves to export.
func (m *Machine) Next(ctx context.Context, text string) error {
	m.mu.Lock()
	events, err := m.nextLocked(ctx, text, "next")
	m.mu.Unlock()

	m.emit(ctx, events)
	return err
}

func (m *Machine) nextLocked(ctx context.Context, text, cause string) ([]event, error) {
	if err := m.expectLocked("Next", domain.StepItineraryGeneration); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: itinerary is empty", domain.ErrInvalidTransition)
	}
	if err := m.store.Set(ctx, domain.KeyItineraryText, text); err != nil {
		return nil, fmt.Errorf("failed to persist itinerary: %w", err)
	}
	m.invalidateLocked()
	m.state.Itinerary = text
	return m.moveLocked(domain.StepExport, cause), nil
}

// Reset removes every artifact and returns to audience selection.
func (m *Machine) Reset(ctx context.Context) error {
	m.mu.Lock()
	m.invalidateLocked()
	for _, key := range domain.Keys {
		if err := m.store.Remove(ctx, key); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	m.state = domain.Snapshot{Step: m.state.Step}
	m.draft = nil
	events := m.moveLocked(domain.StepAudienceSelect, "reset")
	m.mu.Unlock()

	m.emit(ctx, events)
	return nil
}

// RequestItinerary asks the generator for an itinerary and, on success,
// advances to export exactly like Next.
//
// Concurrent calls during the same visit of the generation step share one
// generator call. A result that arrives after Back, Edit or Reset is dropped
// and reported as domain.ErrStaleGeneration. A failed generation leaves the
// step unchanged and writes nothing. Cancelling ctx only stops waiting; the
// shared request runs until it settles or the step is left.
func (m *Machine) RequestItinerary(ctx context.Context) (string, error) {
	m.mu.Lock()
	if err := m.expectLocked("RequestItinerary", domain.StepItineraryGeneration); err != nil {
		m.mu.Unlock()
		return "", err
	}
	if m.generator == nil {
		m.mu.Unlock()
		return "", fmt.Errorf("%w: no generator configured", domain.ErrGenerationFailed)
	}

	// DoChan is called under the lock: while cancelGen is set the flight has not
	// settled, so its key is still registered and later callers join it.
	var ch <-chan singleflight.Result
	if m.cancelGen == nil {
		m.flight++
		var genCtx context.Context
		genCtx, m.cancelGen = context.WithCancel(context.WithoutCancel(ctx))
		token, audience, rules := m.token, m.state.Audience, *m.state.Rules
		m.state.Pending = true
		ch = m.group.DoChan(flightKey(m.flight), func() (any, error) {
			return m.generate(genCtx, token, audience, rules)
		})
	} else {
		ch = m.group.DoChan(flightKey(m.flight), func() (any, error) {
			return "", fmt.Errorf("%w: generation already settled", domain.ErrStaleGeneration)
		})
	}
	m.mu.Unlock()

	return m.await(ctx, ch)
}

func flightKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func (m *Machine) await(ctx context.Context, ch <-chan singleflight.Result) (string, error) {
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *Machine) generate(ctx context.Context, token uint64, audience domain.Audience, rules domain.TripRules) (string, error) {
	start := m.now()
	text, genErr := m.generator.Generate(ctx, audience, rules)
	if genErr == nil && strings.TrimSpace(text) == "" {
		genErr = errors.New("generator returned an empty itinerary")
	}
	if genErr != nil && !errors.Is(genErr, domain.ErrGenerationFailed) {
		genErr = fmt.Errorf("%w: %w", domain.ErrGenerationFailed, genErr)
	}

	m.mu.Lock()
	stale := m.token != token || m.state.Step != domain.StepItineraryGeneration
	var (
		events []event
		err    error
	)
	switch {
	case stale:
		err = fmt.Errorf("%w: generation for %s arrived after leaving the step", domain.ErrStaleGeneration, audience)
		if genErr != nil {
			err = fmt.Errorf("%w: %w", domain.ErrStaleGeneration, genErr)
		}
	case genErr != nil:
		// Stay on the step; a new request may be issued.
		m.releaseLocked()
		err = genErr
	default:
		events, err = m.nextLocked(ctx, text, "generated")
		if err != nil {
			m.releaseLocked()
		}
	}
	m.mu.Unlock()

	m.emitGeneration(ctx, &domain.GenerationEvent{
		EventBase: domain.EventBase{Timestamp: m.now(), Type: domain.EventGeneration},
		Audience:  audience,
		Duration:  m.now().Sub(start),
		Err:       err,
		Stale:     stale,
	})
	m.emit(ctx, events)

	if err != nil {
		if stale {
			m.logger.Info("discarded late itinerary", "audience", audience)
		} else {
			m.logger.Warn("itinerary generation failed", "audience", audience, "error", err)
		}
		return "", err
	}
	return text, nil
}

// Copy puts the share text on the clipboard.
func (m *Machine) Copy(ctx context.Context) error {
	text, err := m.shareText("Copy")
	if err != nil {
		return err
	}
	return m.exporter.Copy(ctx, text)
}

// Download writes the share text to filename through the exporter.
func (m *Machine) Download(ctx context.Context, filename string) error {
	text, err := m.shareText("Download")
	if err != nil {
		return err
	}
	return m.exporter.Download(ctx, text, filename)
}

func (m *Machine) shareText(op string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.expectLocked(op, domain.StepExport); err != nil {
		return "", err
	}
	if m.exporter == nil {
		return "", fmt.Errorf("%w: no exporter configured", domain.ErrExportFailed)
	}
	return export.ShareText(m.state.Audience, *m.state.Rules, m.state.Itinerary)
}

// invalidateLocked starts a new generation token and cancels the in-flight request.
func (m *Machine) invalidateLocked() {
	m.token++
	m.releaseLocked()
}

func (m *Machine) releaseLocked() {
	if m.cancelGen != nil {
		m.cancelGen()
		m.cancelGen = nil
	}
	m.state.Pending = false
}

func (m *Machine) expectLocked(op string, step domain.Step) error {
	if m.state.Step != step {
		return m.transitionErrLocked(op)
	}
	return nil
}

func (m *Machine) transitionErrLocked(op string) error {
	return fmt.Errorf("%w: %s not allowed in %s", domain.ErrInvalidTransition, op, m.state.Step)
}

type event struct {
	enter bool
	step  domain.Step
	cause string
	at    time.Time
}

func (m *Machine) moveLocked(to domain.Step, cause string) []event {
	from := m.state.Step
	m.state.Step = to
	now := m.now()
	m.logger.Debug("step", "from", from.String(), "to", to.String(), "cause", cause)
	return []event{
		{enter: false, step: from, cause: cause, at: now},
		{enter: true, step: to, cause: cause, at: now},
	}
}

// emit runs hooks outside the lock so they may call back into the machine.
func (m *Machine) emit(ctx context.Context, events []event) {
	for _, e := range events {
		ev := &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: e.at},
			Step:      e.step,
			Cause:     e.cause,
		}
		if e.enter {
			ev.Type = domain.EventStepEnter
			if m.hooks.OnStepEnter != nil {
				m.hooks.OnStepEnter(ctx, ev)
			}
			continue
		}
		ev.Type = domain.EventStepLeave
		if m.hooks.OnStepLeave != nil {
			m.hooks.OnStepLeave(ctx, ev)
		}
	}
}

func (m *Machine) emitGeneration(ctx context.Context, e *domain.GenerationEvent) {
	if m.hooks.OnGeneration != nil {
		m.hooks.OnGeneration(ctx, e)
	}
}
