package wizard

import (
	"log/slog"
	"time"

	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/ports"
)

// Option configures a Machine.
type Option func(*Machine)

// WithGenerator sets the itinerary generator used by RequestItinerary.
func WithGenerator(g ports.Generator) Option {
	return func(m *Machine) {
		m.generator = g
	}
}

// WithExporter sets the exporter used by Copy and Download.
func WithExporter(e ports.Exporter) Option {
	return func(m *Machine) {
		m.exporter = e
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}
