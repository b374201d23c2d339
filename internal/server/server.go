// Package server implements the read-only query API, its middleware and handlers.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/woozymasta/gamewatch/internal/config"
	"github.com/woozymasta/gamewatch/internal/models"
)

// New creates a server with an empty state.
func New(cfg config.Server) *Server {
	return &Server{
		trustProxy:     cfg.TrustProxy,
		hardLimitCount: cfg.RateLimitCount,
		hardLimitWin:   cfg.RateLimitWindow,
		shutdown:       make(chan struct{}),
		games:          []models.Game{},
	}
}

// Run configures the HTTP routes and returns the main handler.
func (s *Server) Run() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/games", s.RateLimitMiddleware(http.HandlerFunc(s.handleGames)))
	mux.Handle("GET /api/status", s.RateLimitMiddleware(http.HandlerFunc(s.handleStatus)))
	mux.Handle("GET /healthz", http.HandlerFunc(s.handleHealth))

	return s.LoggingMiddleware(mux)
}

// Stop releases background goroutines started by the middleware.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.shutdown) })
}

// SetActiveCount records the public game count.
func (s *Server) SetActiveCount(_ context.Context, count int) {
	s.mu.Lock()
	s.active = count
	s.mu.Unlock()
}

// Publish replaces the served game list. The slice must not be modified afterwards.
func (s *Server) Publish(games []models.Game, at time.Time) {
	if games == nil {
		games = []models.Game{}
	}

	s.mu.Lock()
	s.games = games
	s.updatedAt = at
	s.mu.Unlock()
}

func (s *Server) state() ([]models.Game, int, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.games, s.active, s.updatedAt
}
