package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/gamewatch/internal/vars"
)

// handleGames returns the games known after the last cycle.
func (s *Server) handleGames(w http.ResponseWriter, _ *http.Request) {
	games, _, _ := s.state()
	writeJSON(w, games)
}

// handleStatus returns the active count, when it was last refreshed and the
// build that serves it.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	_, active, at := s.state()

	build := vars.Ver()
	resp := StatusResponse{Active: active, Version: build.Version, Build: build}
	if !at.IsZero() {
		resp.UpdatedAt = &at
	}

	writeJSON(w, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
