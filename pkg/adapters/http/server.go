// Package http exposes the itinerary backend over HTTP with chi.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	triprules "github.com/aretw0/triprules"
	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/itinerary"
	"github.com/aretw0/triprules/pkg/observability"
	"github.com/aretw0/triprules/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodyBytes limits the size of POST /api/itinerary bodies.
const MaxBodyBytes = 1 << 20

// ItineraryRequest is the body of POST /api/itinerary.
// Meta is accepted in the canonical or the legacy shape.
type ItineraryRequest struct {
	Meta   map[string]any `json:"meta"`
	Prompt string         `json:"prompt,omitempty"`
}

// Renderer produces itinerary text for an explicit number of days.
type Renderer interface {
	Render(audience domain.Audience, rules domain.TripRules, days int) (string, error)
}

// Server serves the itinerary backend.
type Server struct {
	renderer Renderer
	metrics  *observability.Metrics
	origins  []string
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS allowlist.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = append(s.origins, origins...)
	}
}

// WithMetrics enables request and generation metrics and the /metrics route.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the HTTP handler for the backend.
// Documented operations are validated against the embedded OpenAPI description.
func NewHandler(renderer Renderer, opts ...Option) http.Handler {
	s := &Server{
		renderer: renderer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := loadOpenAPI()
	if err != nil {
		panic(err)
	}
	validate, err := ValidateRequests(doc, s.logger)
	if err != nil {
		panic(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	r.Use(AllowOrigins(s.origins...))
	r.Use(validate)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(OpenAPI())
	})
	r.Get("/", s.Root)
	r.Get("/health", s.GetHealth)
	r.Post("/api/itinerary", s.PostItinerary)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "Trip rules itinerary backend " + strings.TrimSpace(triprules.Version),
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PostItinerary handles POST /api/itinerary.
// Meta is never validated: missing fields fall back to defaults.
func (s *Server) PostItinerary(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var body ItineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.logger.Warn("PostItinerary: invalid request body", "error", err)
		writeJSON(w, status, map[string]string{"error": "Invalid request body"})
		return
	}

	meta, err := schema.FromMeta(body.Meta)
	if err != nil {
		s.logger.Warn("PostItinerary: invalid meta", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	days := meta.Days
	if days < 1 {
		days = schema.DayCount(meta.Rules.StartDate, meta.Rules.EndDate)
	}
	if days > schema.MaxDays {
		s.logger.Warn("PostItinerary: trip too long", "days", days)
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Trips are limited to %d days", schema.MaxDays),
		})
		return
	}

	start := time.Now()
	text, err := s.renderer.Render(meta.Audience, meta.Rules, days)
	if s.metrics != nil {
		s.metrics.ObserveGeneration(&domain.GenerationEvent{
			Audience: meta.Audience,
			Duration: time.Since(start),
			Err:      err,
		})
	}
	if err != nil {
		s.logger.Error("PostItinerary: generation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate itinerary"})
		return
	}

	s.logger.Info("itinerary generated",
		"request_id", r.Header.Get("X-Request-Id"),
		"audience", meta.Audience,
		"days", days,
		"prompt_bytes", len(body.Prompt),
	)
	writeJSON(w, http.StatusOK, map[string]string{"itinerary": text})
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if s.metrics == nil {
			return
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, r.Method, status)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

var _ Renderer = (*itinerary.Generator)(nil)
