package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akshay090592-cmd/FitTribe-sub001/internal/models"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths and
// query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestGetUserLogs verifies the client hits the per-user logs path and parses
// the response, including type normalization of legacy values.
func TestGetUserLogs(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/users/kai/logs": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []map[string]any{
				{
					"id":              "log-1",
					"user":            "kai",
					"type":            "Commitment", // legacy casing
					"date":            time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC),
					"durationMinutes": 0,
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	logs, err := client.GetUserLogs(context.Background(), "kai")
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(logs))
	}
	if logs[0].Type != models.WorkoutCommitment {
		t.Errorf("type = %q, want normalized COMMITMENT", logs[0].Type)
	}
}

// TestGetTribeLogs verifies the tribe query parameter.
func TestGetTribeLogs(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/team/logs": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("tribe"); got != "alpha" {
				t.Errorf("tribe=%q, want alpha", got)
			}
			writeTestJSON(t, w, []models.WorkoutLog{})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.GetTribeLogs(context.Background(), "alpha"); err != nil {
		t.Fatal(err)
	}
}

// TestGetGamificationState verifies state decoding preserves the lifetimeXp
// fallback shape.
func TestGetGamificationState(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/users/kai/state": func(w http.ResponseWriter, r *http.Request) {
			// Legacy record: no lifetimeXp field.
			writeTestJSON(t, w, map[string]any{
				"points": 320,
				"badges": []string{"first_step"},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	state, err := client.GetGamificationState(context.Background(), "kai")
	if err != nil {
		t.Fatal(err)
	}
	if state.EffectiveXP() != 320 {
		t.Errorf("effective XP = %d, want 320 (points fallback)", state.EffectiveXP())
	}
	if !state.HasBadge("first_step") {
		t.Error("badge set not decoded")
	}
}

// TestErrorStatus verifies non-200 responses surface as errors with the
// body included.
func TestErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/states": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.AllGamificationStates(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}
