package triprules_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/triprules"
	"github.com/aretw0/triprules/pkg/adapters/memory"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ResumesFromStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, domain.KeyAudience, "team"))

	p, err := triprules.New(ctx, triprules.WithStore(store))
	require.NoError(t, err)
	assert.Equal(t, domain.StepRulesEntry, p.Snapshot().Step)
	assert.Same(t, store, p.Store())
}

func TestNew_HooksAndGenerator(t *testing.T) {
	ctx := context.Background()
	var entered []domain.Step
	gen := ports.GeneratorFunc(func(ctx context.Context, a domain.Audience, r domain.TripRules) (string, error) {
		return "custom", nil
	})
	p, err := triprules.New(ctx,
		triprules.WithGenerator(gen),
		triprules.WithLifecycleHooks(domain.LifecycleHooks{
			OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
				entered = append(entered, e.Step)
			},
		}),
	)
	require.NoError(t, err)

	require.NoError(t, p.SelectAudience(ctx, domain.AudienceTeam))
	assert.Equal(t, []domain.Step{domain.StepRulesEntry}, entered)
}

func TestRun_QuitsOnRequest(t *testing.T) {
	ctx := context.Background()
	p, err := triprules.New(ctx)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	require.NoError(t, triprules.Run(ctx, p, strings.NewReader("q\n"), out))
	assert.Contains(t, out.String(), "Who is this trip for?")
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(triprules.Version))
}
