package wizard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/triprules/pkg/adapters/memory"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingGenerator returns text once released, ignoring cancellation.
type blockingGenerator struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	text    string
}

func newBlockingGenerator(text string) *blockingGenerator {
	return &blockingGenerator{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
		text:    text,
	}
}

func (g *blockingGenerator) Generate(ctx context.Context, a domain.Audience, r domain.TripRules) (string, error) {
	g.calls.Add(1)
	g.started <- struct{}{}
	<-g.release
	return g.text, nil
}

func waitStarted(t *testing.T, g *blockingGenerator) {
	t.Helper()
	select {
	case <-g.started:
	case <-time.After(5 * time.Second):
		t.Fatal("generator was never called")
	}
}

type result struct {
	text string
	err  error
}

func request(m *Machine) <-chan result {
	ch := make(chan result, 1)
	go func() {
		text, err := m.RequestItinerary(context.Background())
		ch <- result{text, err}
	}()
	return ch
}

func TestRequestItinerary_FailureKeepsStep(t *testing.T) {
	store := memory.NewStore()
	gen := ports.GeneratorFunc(func(ctx context.Context, a domain.Audience, r domain.TripRules) (string, error) {
		return "", errors.New("backend unreachable")
	})
	m := newMachine(t, store, WithGenerator(gen))
	advance(t, m, domain.StepItineraryGeneration)

	_, err := m.RequestItinerary(context.Background())
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "backend unreachable")

	snap := m.Snapshot()
	assert.Equal(t, domain.StepItineraryGeneration, snap.Step)
	assert.False(t, snap.Pending)
	assert.False(t, keyPresent(t, store, domain.KeyItineraryText))
}

func TestRequestItinerary_EmptyTextFails(t *testing.T) {
	store := memory.NewStore()
	m := newMachine(t, store, WithGenerator(staticGenerator(" \n")))
	advance(t, m, domain.StepItineraryGeneration)

	_, err := m.RequestItinerary(context.Background())
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Equal(t, domain.StepItineraryGeneration, m.Step())
	assert.False(t, keyPresent(t, store, domain.KeyItineraryText))
}

func TestRequestItinerary_RetryAfterFailure(t *testing.T) {
	var calls atomic.Int32
	gen := ports.GeneratorFunc(func(ctx context.Context, a domain.Audience, r domain.TripRules) (string, error) {
		if calls.Add(1) == 1 {
			return "", domain.ErrGenerationFailed
		}
		return "Day 1: second try", nil
	})
	m := newMachine(t, memory.NewStore(), WithGenerator(gen))
	advance(t, m, domain.StepItineraryGeneration)

	_, err := m.RequestItinerary(context.Background())
	require.ErrorIs(t, err, domain.ErrGenerationFailed)

	text, err := m.RequestItinerary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Day 1: second try", text)
	assert.Equal(t, domain.StepExport, m.Step())
}

func TestRequestItinerary_NoGenerator(t *testing.T) {
	m := newMachine(t, memory.NewStore())
	advance(t, m, domain.StepItineraryGeneration)

	_, err := m.RequestItinerary(context.Background())
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestRequestItinerary_LateResultDiscarded(t *testing.T) {
	store := memory.NewStore()
	gen := newBlockingGenerator("Day 1: too late")
	m := newMachine(t, store, WithGenerator(gen))
	advance(t, m, domain.StepItineraryGeneration)

	res := request(m)
	waitStarted(t, gen)
	assert.True(t, m.Snapshot().Pending)

	require.NoError(t, m.Back(context.Background()))
	assert.False(t, m.Snapshot().Pending)
	close(gen.release)

	r := <-res
	assert.ErrorIs(t, r.err, domain.ErrStaleGeneration)
	assert.Empty(t, r.text)

	assert.Equal(t, domain.StepRulesSummary, m.Step())
	assert.Empty(t, m.Snapshot().Itinerary)
	assert.False(t, keyPresent(t, store, domain.KeyItineraryText))
}

func TestRequestItinerary_LateResultAfterReenter(t *testing.T) {
	store := memory.NewStore()
	gen := newBlockingGenerator("Day 1: old")
	m := newMachine(t, store, WithGenerator(gen))
	advance(t, m, domain.StepItineraryGeneration)

	res := request(m)
	waitStarted(t, gen)

	// Leave and come back: the step matches again but the token does not.
	require.NoError(t, m.Back(context.Background()))
	require.NoError(t, m.Generate(context.Background()))
	close(gen.release)

	r := <-res
	assert.ErrorIs(t, r.err, domain.ErrStaleGeneration)
	assert.Equal(t, domain.StepItineraryGeneration, m.Step())
	assert.False(t, keyPresent(t, store, domain.KeyItineraryText))
}

func TestRequestItinerary_BackCancelsContext(t *testing.T) {
	cancelled := make(chan struct{})
	started := make(chan struct{})
	gen := ports.GeneratorFunc(func(ctx context.Context, a domain.Audience, r domain.TripRules) (string, error) {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return "", ctx.Err()
	})
	m := newMachine(t, memory.NewStore(), WithGenerator(gen))
	advance(t, m, domain.StepItineraryGeneration)

	res := request(m)
	<-started
	require.NoError(t, m.Back(context.Background()))

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("generator context was not cancelled by Back")
	}
	r := <-res
	assert.ErrorIs(t, r.err, domain.ErrStaleGeneration)
	assert.ErrorIs(t, r.err, context.Canceled)
}

func TestRequestItinerary_SingleFlight(t *testing.T) {
	store := memory.NewStore()
	gen := newBlockingGenerator("Day 1: shared")
	m := newMachine(t, store, WithGenerator(gen))
	advance(t, m, domain.StepItineraryGeneration)

	first := request(m)
	waitStarted(t, gen)

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan result, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- <-request(m)
		}()
	}

	close(gen.release)
	wg.Wait()
	close(results)

	r := <-first
	require.NoError(t, r.err)
	assert.Equal(t, "Day 1: shared", r.text)

	// Callers that joined share the text; callers that arrived after the
	// flight settled find the wizard already at export.
	for r := range results {
		if r.err != nil {
			assert.ErrorIs(t, r.err, domain.ErrInvalidTransition)
			continue
		}
		assert.Equal(t, "Day 1: shared", r.text)
	}

	assert.EqualValues(t, 1, gen.calls.Load())
	assert.Equal(t, domain.StepExport, m.Step())
}

func TestRequestItinerary_CallerCancelStopsWaiting(t *testing.T) {
	gen := newBlockingGenerator("Day 1: eventually")
	m := newMachine(t, memory.NewStore(), WithGenerator(gen))
	advance(t, m, domain.StepItineraryGeneration)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := m.RequestItinerary(ctx)
		done <- err
	}()
	waitStarted(t, gen)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// The shared request keeps running and still completes the step.
	close(gen.release)
	require.Eventually(t, func() bool {
		return m.Step() == domain.StepExport
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRequestItinerary_GenerationHook(t *testing.T) {
	var mu sync.Mutex
	var events []*domain.GenerationEvent
	hooks := domain.LifecycleHooks{
		OnGeneration: func(ctx context.Context, e *domain.GenerationEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		},
	}
	m := newMachine(t, memory.NewStore(), WithGenerator(staticGenerator("Day 1")), WithLifecycleHooks(hooks))
	advance(t, m, domain.StepItineraryGeneration)

	_, err := m.RequestItinerary(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventGeneration, events[0].Type)
	assert.Equal(t, domain.AudienceTeam, events[0].Audience)
	assert.NoError(t, events[0].Err)
	assert.False(t, events[0].Stale)
}
