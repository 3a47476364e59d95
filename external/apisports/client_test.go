package apisports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golazo-app/predictions-api/internal/platform/resilience"
	"github.com/golazo-app/predictions-api/internal/usecase"
)

const fixturesPayload = `{
	"results": 2,
	"response": [
		{
			"fixture": {"id": 1100, "date": "2026-03-01T15:00:00+00:00", "timestamp": 1772377200, "status": {"short": "NS", "long": "Not Started"}},
			"league": {"id": 39, "name": "Premier League", "country": "England", "logo": "https://cdn/39.png", "season": 2025},
			"teams": {"home": {"id": 50, "name": "Manchester City", "logo": "https://cdn/50.png"}, "away": {"id": 42, "name": "Arsenal", "logo": "https://cdn/42.png"}},
			"goals": {"home": null, "away": null}
		},
		{
			"fixture": {"id": 1101, "date": "2026-03-01T17:30:00+00:00", "timestamp": 1772386200, "status": {"short": "FT", "long": "Match Finished"}},
			"league": {"id": 140, "name": "La Liga", "country": "Spain", "logo": "https://cdn/140.png", "season": 2025},
			"teams": {"home": {"id": 541, "name": "Real Madrid", "logo": "https://cdn/541.png"}, "away": {"id": 529, "name": "Barcelona", "logo": "https://cdn/529.png"}},
			"goals": {"home": 2, "away": 0}
		}
	]
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 5,
			OpenTimeout:      time.Second,
			HalfOpenMaxReq:   1,
		},
	})
	return client, server
}

func TestFetchFixturesByDate_ParsesEnvelope(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-apisports-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		if got := r.URL.Query().Get("date"); got != "2026-03-01" {
			t.Errorf("unexpected date param %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixturesPayload))
	}))

	matches, err := client.FetchFixturesByDate(context.Background(), "2026-03-01")
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	first := matches[0]
	if first.FixtureID != 1100 || first.HomeTeam != "Manchester City" || first.StatusShort != "NS" {
		t.Fatalf("unexpected first match: %+v", first)
	}
	if first.HomeScore != nil || first.AwayScore != nil {
		t.Fatalf("upcoming match must have nil scores")
	}

	second := matches[1]
	if second.StatusShort != "FT" || second.HomeScore == nil || *second.HomeScore != 2 {
		t.Fatalf("unexpected second match: %+v", second)
	}
	if second.LeagueExternalID != 140 || second.LeagueCountry != "Spain" {
		t.Fatalf("unexpected league mapping: %+v", second)
	}
}

func TestFetchFixturesByDate_MissingKey(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://localhost:0"})
	_, err := client.FetchFixturesByDate(context.Background(), "2026-03-01")
	if !errors.Is(err, usecase.ErrProviderNotConfigured) {
		t.Fatalf("expected ErrProviderNotConfigured, got %v", err)
	}
}

func TestFetchFixturesByDate_InvalidDate(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{APIKey: "k"})
	_, err := client.FetchFixturesByDate(context.Background(), "03/01/2026")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFetchFixturesByDate_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(fixturesPayload))
	}))
	client.maxRetries = 2

	matches, err := client.FetchFixturesByDate(context.Background(), "2026-03-01")
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestFetchFixturesByDate_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	client.maxRetries = 3

	_, err := client.FetchFixturesByDate(context.Background(), "2026-03-01")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := usecase.StepOf(err); got != usecase.StepAPIResponse {
		t.Fatalf("expected step %s, got %s", usecase.StepAPIResponse, got)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}

func TestFetchFixturesByDate_SkipsRecordsWithoutIDOrKickoff(t *testing.T) {
	t.Parallel()

	payload := `{"response": [
		{"fixture": {"id": 0, "timestamp": 1772377200, "status": {"short": "NS"}}},
		{"fixture": {"id": 7, "date": "", "timestamp": 0, "status": {"short": "NS"}}},
		{"fixture": {"id": 8, "timestamp": 1772377200, "status": {"short": "NS"}},
		 "teams": {"home": {"name": "A"}, "away": {"name": "B"}}, "league": {"id": 1, "name": "L"}}
	]}`
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))

	matches, err := client.FetchFixturesByDate(context.Background(), "2026-03-01")
	if err != nil {
		t.Fatalf("fetch fixtures: %v", err)
	}
	if len(matches) != 1 || matches[0].FixtureID != 8 {
		t.Fatalf("expected only the valid record, got %+v", matches)
	}
}
