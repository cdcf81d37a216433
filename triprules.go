package triprules

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/adapters/memory"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/export"
	"github.com/aretw0/triprules/pkg/itinerary"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/aretw0/triprules/pkg/runner"
	"github.com/aretw0/triprules/pkg/wizard"
)

// Planner is the high-level entry point: a wizard wired to its store,
// generator and exporter.
type Planner struct {
	*wizard.Machine

	store     ports.KVStore
	generator ports.Generator
	exporter  ports.Exporter
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Planner.
type Option func(*Planner)

// WithStore sets the persistence adapter. Defaults to an in-memory store.
func WithStore(store ports.KVStore) Option {
	return func(p *Planner) {
		p.store = store
	}
}

// WithGenerator sets the itinerary generator. Defaults to the local templates.
func WithGenerator(g ports.Generator) Option {
	return func(p *Planner) {
		p.generator = g
	}
}

// WithExporter sets the exporter. Defaults to the clipboard and the working directory.
func WithExporter(e ports.Exporter) Option {
	return func(p *Planner) {
		p.exporter = e
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Planner) {
		p.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// New creates a Planner and resumes the session found in its store.
func New(ctx context.Context, opts ...Option) (*Planner, error) {
	p := &Planner{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}

	if p.store == nil {
		p.store = memory.NewStore()
	}
	if p.generator == nil {
		gen, err := itinerary.New(itinerary.WithLogger(p.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create itinerary generator: %w", err)
		}
		p.generator = gen
	}
	if p.exporter == nil {
		p.exporter = export.New(".", export.WithLogger(p.logger))
	}

	m, err := wizard.New(ctx, p.store,
		wizard.WithGenerator(p.generator),
		wizard.WithExporter(p.exporter),
		wizard.WithLogger(p.logger),
		wizard.WithLifecycleHooks(p.hooks),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resume session: %w", err)
	}
	p.Machine = m
	return p, nil
}

// Store returns the persistence adapter backing the session.
func (p *Planner) Store() ports.KVStore {
	return p.store
}

// Run drives the planner interactively over r and w until the user quits.
func Run(ctx context.Context, p *Planner, r io.Reader, w io.Writer, opts ...runner.Option) error {
	opts = append([]runner.Option{
		runner.WithInputHandler(runner.NewTextHandler(r, w)),
		runner.WithLogger(p.logger),
	}, opts...)
	return runner.NewRunner(opts...).Run(ctx, p)
}
