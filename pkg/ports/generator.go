package ports

import (
	"context"

	"github.com/aretw0/triprules/pkg/domain"
)

// Generator produces itinerary text for a validated rule set.
// Failures wrap domain.ErrGenerationFailed. Identical inputs must yield identical
// text for deterministic implementations.
type Generator interface {
	Generate(ctx context.Context, audience domain.Audience, rules domain.TripRules) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, audience domain.Audience, rules domain.TripRules) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, audience domain.Audience, rules domain.TripRules) (string, error) {
	return f(ctx, audience, rules)
}
