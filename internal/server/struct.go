package server

import (
	"sync"
	"time"

	"github.com/woozymasta/gamewatch/internal/models"
	"github.com/woozymasta/gamewatch/internal/vars"
)

// Server exposes the last published reconcile state over a read-only HTTP API.
type Server struct {
	// updatedAt is the time of the last published cycle.
	updatedAt time.Time

	// shutdown stops the background cleanup of rate limiter clients.
	shutdown chan struct{}

	// games is the last published registry snapshot.
	games []models.Game

	// active is the last count pushed by the reconcile loop.
	active int

	// hardLimitCount is the maximum number of requests allowed per IP address
	// within the hardLimitWin duration.
	hardLimitCount int

	// hardLimitWin is the time window duration for the hard rate limiter.
	hardLimitWin time.Duration

	mu       sync.RWMutex
	stopOnce sync.Once

	// trustProxy indicates whether the server should trust headers like X-Forwarded-For
	// or CF-Connecting-IP when determining the client's real IP address.
	trustProxy bool
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	UpdatedAt *time.Time     `json:"updated_at"`
	Version   string         `json:"version"`
	Build     vars.BuildInfo `json:"build"`
	Active    int            `json:"active"`
}
