package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/triprules/pkg/adapters/memory"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/stretchr/testify/require"
)

func goaRules() domain.TripRules {
	return domain.TripRules{
		City:         "Goa",
		StartDate:    "2024-01-01",
		EndDate:      "2024-01-03",
		TeamSize:     2,
		BudgetMin:    10000,
		BudgetMax:    20000,
		Pace:         domain.PaceMedium,
		NeedsWifi:    true,
		NearVenue:    true,
		MeetingStart: "10:00",
		MeetingEnd:   "17:00",
	}
}

func staticGenerator(text string) ports.Generator {
	return ports.GeneratorFunc(func(ctx context.Context, a domain.Audience, r domain.TripRules) (string, error) {
		return text, nil
	})
}

func newMachine(t *testing.T, store ports.KVStore, opts ...Option) *Machine {
	t.Helper()
	m, err := New(context.Background(), store, opts...)
	require.NoError(t, err)
	return m
}

// advance drives a fresh machine to the given step.
func advance(t *testing.T, m *Machine, to domain.Step) {
	t.Helper()
	ctx := context.Background()
	if to >= domain.StepRulesEntry {
		require.NoError(t, m.SelectAudience(ctx, domain.AudienceTeam))
	}
	if to >= domain.StepRulesSummary {
		require.NoError(t, m.Continue(ctx, goaRules()))
	}
	if to >= domain.StepItineraryGeneration {
		require.NoError(t, m.Generate(ctx))
	}
	if to >= domain.StepExport {
		require.NoError(t, m.Next(ctx, "Day 1: beach"))
	}
	require.Equal(t, to, m.Step())
}

func keyPresent(t *testing.T, store ports.KVStore, key string) bool {
	t.Helper()
	_, err := store.Get(context.Background(), key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

// failingStore fails every write.
type failingStore struct {
	*memory.Store
}

var errDiskFull = errors.New("disk full")

func (failingStore) Set(ctx context.Context, key, value string) error { return errDiskFull }
func (failingStore) Remove(ctx context.Context, key string) error     { return errDiskFull }

type fakeExporter struct {
	mu        sync.Mutex
	copied    []string
	downloads map[string]string
	err       error
}

func (f *fakeExporter) Copy(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.copied = append(f.copied, text)
	return nil
}

func (f *fakeExporter) Download(ctx context.Context, text, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.downloads == nil {
		f.downloads = map[string]string{}
	}
	f.downloads[filename] = text
	return nil
}
