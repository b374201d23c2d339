package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/woozymasta/gamewatch/internal/config"
	"github.com/woozymasta/gamewatch/internal/models"
	"github.com/woozymasta/gamewatch/internal/vars"
)

func newServer(t *testing.T, count int) *Server {
	t.Helper()
	s := New(config.Server{RateLimitCount: count, RateLimitWindow: time.Minute})
	t.Cleanup(s.Stop)
	return s
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "192.0.2.1:4242"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGamesEmpty(t *testing.T) {
	rec := get(t, newServer(t, 10).Run(), "/api/games")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestPublishedState(t *testing.T) {
	s := newServer(t, 10)
	h := s.Run()

	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.Publish([]models.Game{{ID: "ABCD", Players: []string{"Hero"}, Handle: "secret"}}, at)
	s.SetActiveCount(context.Background(), 1)

	rec := get(t, h, "/api/games")
	var games []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &games); err != nil {
		t.Fatalf("decode games: %v", err)
	}
	if len(games) != 1 || games[0]["id"] != "ABCD" {
		t.Errorf("games = %v", games)
	}
	if _, leaked := games[0]["Handle"]; leaked {
		t.Error("message handle exposed")
	}

	rec = get(t, h, "/api/status")
	var status StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Active != 1 || status.UpdatedAt == nil || !status.UpdatedAt.Equal(at) {
		t.Errorf("status = %+v", status)
	}
	if status.Build != vars.Ver() || status.Version != vars.Version {
		t.Errorf("build = %+v version = %q, want %+v", status.Build, status.Version, vars.Ver())
	}
}

func TestStatusBeforeFirstCycle(t *testing.T) {
	rec := get(t, newServer(t, 10).Run(), "/api/status")

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["updated_at"] != nil || body["active"] != float64(0) {
		t.Errorf("body = %v", body)
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, newServer(t, 10).Run(), "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/games", nil)
	rec := httptest.NewRecorder()
	newServer(t, 10).Run().ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	h := newServer(t, 2).Run()

	for i := 0; i < 2; i++ {
		if rec := get(t, h, "/api/games"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}
	if rec := get(t, h, "/api/games"); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}

	// Health checks are never limited.
	if rec := get(t, h, "/healthz"); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
}

func TestGetRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")

	if ip := GetRealIP(req, false); ip != "10.0.0.1" {
		t.Errorf("untrusted ip = %q", ip)
	}
	if ip := GetRealIP(req, true); ip != "203.0.113.7" {
		t.Errorf("forwarded ip = %q", ip)
	}

	req.Header.Set("CF-Connecting-IP", "198.51.100.3")
	if ip := GetRealIP(req, true); ip != "198.51.100.3" {
		t.Errorf("cloudflare ip = %q", ip)
	}
}
