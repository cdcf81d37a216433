package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/aretw0/triprules/pkg/schema"
)

// DeriveStep computes the wizard position from the artifacts in store:
//
//	no audience                  -> audience_select
//	audience, no valid rules     -> rules_entry
//	audience, rules              -> rules_summary
//	audience, rules, itinerary   -> export
//
// Corrupt or foreign-shaped values count as absent. Only store failures are returned.
// Options other than WithLogger are ignored; by default nothing is logged.
func DeriveStep(ctx context.Context, store ports.KVStore, opts ...Option) (domain.Snapshot, error) {
	m := &Machine{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	snap, _, err := derive(ctx, store, m.logger)
	return snap, err
}

// derive also returns rules that are valid but unreachable because the audience is missing.
func derive(ctx context.Context, store ports.KVStore, logger *slog.Logger) (domain.Snapshot, *domain.TripRules, error) {
	snap := domain.Snapshot{Step: domain.StepAudienceSelect}

	rawAudience, ok, err := load(ctx, store, domain.KeyAudience, logger)
	if err != nil {
		return snap, nil, err
	}
	if ok {
		if a, err := domain.ParseAudience(rawAudience); err == nil {
			snap.Audience = a
		} else {
			logger.Warn("ignoring stored audience", "key", domain.KeyAudience, "error", err)
		}
	}

	rawRules, ok, err := load(ctx, store, domain.KeyTripRules, logger)
	if err != nil {
		return snap, nil, err
	}
	var rules *domain.TripRules
	if ok {
		r, err := schema.Decode(rawRules)
		switch {
		case err != nil:
			logger.Warn("ignoring stored trip rules", "key", domain.KeyTripRules, "error", err)
		case schema.Validate(r) != nil:
			logger.Warn("ignoring invalid stored trip rules", "key", domain.KeyTripRules, "error", schema.Validate(r))
		default:
			rules = &r
		}
	}

	if snap.Audience == "" {
		return snap, rules, nil
	}
	if rules == nil {
		snap.Step = domain.StepRulesEntry
		return snap, nil, nil
	}
	snap.Rules = rules
	snap.Step = domain.StepRulesSummary

	text, ok, err := load(ctx, store, domain.KeyItineraryText, logger)
	if err != nil {
		return snap, nil, err
	}
	if ok && text != "" {
		snap.Itinerary = text
		snap.Step = domain.StepExport
	}
	return snap, nil, nil
}

func load(ctx context.Context, store ports.KVStore, key string, logger *slog.Logger) (string, bool, error) {
	v, err := store.Get(ctx, key)
	switch {
	case err == nil:
		return v, true, nil
	case errors.Is(err, domain.ErrKeyNotFound):
		return "", false, nil
	case errors.Is(err, domain.ErrPersistenceCorrupt):
		logger.Warn("ignoring corrupt value", "key", key, "error", err)
		return "", false, nil
	default:
		return "", false, fmt.Errorf("failed to load %s: %w", key, err)
	}
}
