package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/triprules/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rules = domain.TripRules{
	City:      "Goa",
	StartDate: "2024-01-01",
	EndDate:   "2024-01-02",
	TeamSize:  3,
	BudgetMin: 1000,
	BudgetMax: 2000,
	Pace:      domain.PaceLight,
}

func backend(t *testing.T, status int, body string, inspect func(*http.Request, Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if inspect != nil {
			inspect(r, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate_Success(t *testing.T) {
	var seen Request
	var header http.Header
	var path string
	srv := backend(t, http.StatusOK, `{"itinerary":"Day 1: beach"}`, func(r *http.Request, req Request) {
		seen = req
		header = r.Header.Clone()
		path = r.URL.Path
	})

	c := New(srv.URL + "/")
	text, err := c.Generate(context.Background(), domain.AudienceTeam, rules)
	require.NoError(t, err)
	assert.Equal(t, "Day 1: beach", text)

	assert.Equal(t, ItineraryPath, path)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	_, err = uuid.Parse(header.Get(RequestIDHeader))
	assert.NoError(t, err, "request id must be a uuid")

	assert.Equal(t, "Goa", seen.Meta["city"])
	assert.Equal(t, "team", seen.Meta["audience"])
	assert.Equal(t, "light", seen.Meta["pace"])
	assert.EqualValues(t, 2, seen.Meta["days"])
	assert.Contains(t, seen.Prompt, "expert travel planner")
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"bad request without body", http.StatusBadRequest, ``},
		{"empty itinerary", http.StatusOK, `{"itinerary":""}`},
		{"whitespace itinerary", http.StatusOK, `{"itinerary":"  \n"}`},
		{"undecodable body", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := backend(t, tt.status, tt.body, nil)
			_, err := New(srv.URL).Generate(context.Background(), domain.AudiencePersonal, rules)
			assert.ErrorIs(t, err, domain.ErrGenerationFailed)
		})
	}
}

func TestGenerate_ErrorMessageFromBackend(t *testing.T) {
	srv := backend(t, http.StatusBadGateway, `{"error":"upstream down"}`, nil)
	_, err := New(srv.URL).Generate(context.Background(), domain.AudienceTeam, rules)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream down")
}

func TestGenerate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Generate(context.Background(), domain.AudienceTeam, rules)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestGenerate_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).Generate(ctx, domain.AudienceTeam, rules)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
