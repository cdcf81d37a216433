package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcome label values.
const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeStale  = "stale"
	OutcomeCancel = "canceled"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	Requests   *prometheus.CounterVec
	Generation *prometheus.HistogramVec
	StepVisits *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triprules_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "method", "status"},
		),
		Generation: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triprules_generation_duration_seconds",
				Help:    "Duration of itinerary generations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"audience", "outcome"},
		),
		StepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triprules_step_visits_total",
				Help: "Total number of wizard step entries",
			},
			[]string{"step"},
		),
		gatherer: reg,
	}
	reg.MustRegister(m.Requests, m.Generation, m.StepVisits)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// ObserveRequest counts one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int) {
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// ObserveGeneration records the duration and outcome of one generator call.
func (m *Metrics) ObserveGeneration(e *domain.GenerationEvent) {
	m.Generation.WithLabelValues(string(e.Audience), Outcome(e)).Observe(e.Duration.Seconds())
}

// Outcome classifies a generation event.
func Outcome(e *domain.GenerationEvent) string {
	switch {
	case e.Stale:
		return OutcomeStale
	case errors.Is(e.Err, context.Canceled):
		return OutcomeCancel
	case e.Err != nil:
		return OutcomeError
	default:
		return OutcomeOK
	}
}

// Hooks returns lifecycle hooks that log through logger and feed m.
// A nil Metrics only logs.
func (m *Metrics) Hooks(logger *slog.Logger) domain.LifecycleHooks {
	if logger == nil {
		logger = logging.NewNop()
	}
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("step_enter", "step", e.Step.String(), "cause", e.Cause)
			if m != nil {
				m.StepVisits.WithLabelValues(e.Step.String()).Inc()
			}
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("step_leave", "step", e.Step.String(), "cause", e.Cause)
		},
		OnGeneration: func(ctx context.Context, e *domain.GenerationEvent) {
			outcome := Outcome(e)
			if e.Err != nil && !e.Stale {
				logger.Warn("generation", "audience", e.Audience, "outcome", outcome, "duration", e.Duration, "error", e.Err)
			} else {
				logger.Info("generation", "audience", e.Audience, "outcome", outcome, "duration", e.Duration)
			}
			if m != nil {
				m.ObserveGeneration(e)
			}
		},
	}
}
