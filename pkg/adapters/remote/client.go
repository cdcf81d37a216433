// Package remote implements ports.Generator against an itinerary backend over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/triprules/internal/logging"
	"github.com/aretw0/triprules/pkg/domain"
	"github.com/aretw0/triprules/pkg/itinerary"
	"github.com/aretw0/triprules/pkg/schema"
	"github.com/google/uuid"
)

// ItineraryPath is the backend route that produces itineraries.
const ItineraryPath = "/api/itinerary"

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-Id"

const maxResponseBytes = 1 << 20

// Request is the body posted to the backend.
type Request struct {
	Meta   map[string]any `json:"meta"`
	Prompt string         `json:"prompt,omitempty"`
}

// Response is the body returned by the backend.
type Response struct {
	Itinerary string `json:"itinerary"`
	Error     string `json:"error,omitempty"`
}

// Client posts trip rules to a backend and returns its itinerary.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.http.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// New creates a Client for the backend at baseURL (e.g. http://localhost:5000).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate implements ports.Generator.
func (c *Client) Generate(ctx context.Context, audience domain.Audience, rules domain.TripRules) (string, error) {
	body, err := json.Marshal(Request{
		Meta:   schema.ToMeta(audience, rules),
		Prompt: itinerary.BuildPrompt(audience, rules),
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %w", domain.ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ItineraryPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("itinerary request failed", "request_id", reqID, "error", err)
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrGenerationFailed, err)
	}

	c.logger.Debug("itinerary response",
		"request_id", reqID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	var out Response
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("%w: backend returned %d: %s", domain.ErrGenerationFailed, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrGenerationFailed, decodeErr)
	}
	if strings.TrimSpace(out.Itinerary) == "" {
		return "", fmt.Errorf("%w: backend returned an empty itinerary", domain.ErrGenerationFailed)
	}
	return out.Itinerary, nil
}
