package wizard

import (
	"context"
	"testing"

	"github.com/aretw0/triprules/pkg/adapters/memory"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdges_MatchMachine(t *testing.T) {
	ops := map[string]func(context.Context, *Machine) error{
		"SelectAudience": func(ctx context.Context, m *Machine) error { return m.SelectAudience(ctx, domain.AudienceTeam) },
		"Continue":       func(ctx context.Context, m *Machine) error { return m.Continue(ctx, goaRules()) },
		"Edit":           func(ctx context.Context, m *Machine) error { return m.Edit(ctx) },
		"Generate":       func(ctx context.Context, m *Machine) error { return m.Generate(ctx) },
		"Back":           func(ctx context.Context, m *Machine) error { return m.Back(ctx) },
		"Next":           func(ctx context.Context, m *Machine) error { return m.Next(ctx, "Day 1: beach") },
	}

	for _, e := range Edges {
		t.Run(e.From.String()+"_"+e.Op, func(t *testing.T) {
			op, ok := ops[e.Op]
			require.True(t, ok, "no driver for %s", e.Op)

			m := newMachine(t, memory.NewStore())
			advance(t, m, e.From)
			require.NoError(t, op(context.Background(), m))
			assert.Equal(t, e.To, m.Step())
		})
	}
}

func TestEdges_ResetFromEveryStep(t *testing.T) {
	for _, s := range Steps {
		t.Run(s.String(), func(t *testing.T) {
			m := newMachine(t, memory.NewStore())
			advance(t, m, s)
			require.NoError(t, m.Reset(context.Background()))
			assert.Equal(t, domain.StepAudienceSelect, m.Step())
		})
	}
}
