// Package registry keeps the per-game state merged from periodic snapshots.
//
// A Registry has a single owner (the reconcile loop) and does no locking.
package registry

import (
	"sort"
	"strings"
	"time"

	"github.com/woozymasta/gamewatch/internal/models"
)

// MergeResult tells whether a merge inserted or refreshed a game.
type MergeResult int

const (
	// Created means the key was unknown and a new game was inserted.
	Created MergeResult = iota
	// Refreshed means an existing game got a new roster and LastSeen.
	Refreshed
)

func (r MergeResult) String() string {
	if r == Created {
		return "created"
	}
	return "refreshed"
}

// Registry maps normalized game keys to games.
type Registry struct {
	games map[string]*models.Game
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{games: make(map[string]*models.Game)}
}

// NormalizeKey returns the registry key for a reported game identifier.
func NormalizeKey(id string) string {
	return strings.ToUpper(id)
}

// Merge admits a validated record.
// New keys are inserted with FirstSeen = LastSeen = now. For known keys only
// the roster and LastSeen change; version, difficulty, speed, flags and type
// stay as they were when the game was first seen.
func (r *Registry) Merge(rec models.Record, now time.Time) MergeResult {
	key := NormalizeKey(rec.ID)

	if g, ok := r.games[key]; ok {
		g.Players = clonePlayers(rec.Players)
		if now.After(g.LastSeen) {
			g.LastSeen = now
		}
		return Refreshed
	}

	r.games[key] = &models.Game{
		ID:         key,
		Version:    rec.Version,
		Type:       rec.Type,
		Players:    clonePlayers(rec.Players),
		Difficulty: models.Difficulty(rec.Difficulty),
		TickRate:   rec.TickRate,
		Flags: models.Flags{
			RunInTown:    rec.RunInTown,
			FullQuests:   rec.FullQuests,
			TheoQuest:    rec.TheoQuest,
			CowQuest:     rec.CowQuest,
			FriendlyFire: rec.FriendlyFire,
		},
		FirstSeen: now,
		LastSeen:  now,
	}

	return Created
}

// SweepStale removes every game not seen for at least ttl and returns the
// removed games ordered by key. A later sighting of a removed key creates a
// new game.
func (r *Registry) SweepStale(now time.Time, ttl time.Duration) []models.Game {
	var swept []models.Game

	for key, g := range r.games {
		if now.Sub(g.LastSeen) < ttl {
			continue
		}
		swept = append(swept, copyGame(g))
		delete(r.games, key)
	}

	sort.Slice(swept, func(i, j int) bool { return swept[i].ID < swept[j].ID })

	return swept
}

// Snapshot returns copies of all games ordered by FirstSeen, then key.
func (r *Registry) Snapshot() []models.Game {
	games := make([]models.Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, copyGame(g))
	}

	sort.Slice(games, func(i, j int) bool {
		if !games[i].FirstSeen.Equal(games[j].FirstSeen) {
			return games[i].FirstSeen.Before(games[j].FirstSeen)
		}
		return games[i].ID < games[j].ID
	})

	return games
}

// MarkSent stores the message handle and payload digest accepted by the sink.
// It returns false when the key is not in the registry.
func (r *Registry) MarkSent(key, handle string, digest uint64) bool {
	g, ok := r.games[key]
	if !ok {
		return false
	}

	g.Handle = handle
	g.Digest = digest

	return true
}

// Get returns a copy of the game stored under key.
func (r *Registry) Get(key string) (models.Game, bool) {
	g, ok := r.games[NormalizeKey(key)]
	if !ok {
		return models.Game{}, false
	}

	return copyGame(g), true
}

// Len returns the number of tracked games.
func (r *Registry) Len() int {
	return len(r.games)
}

func copyGame(g *models.Game) models.Game {
	c := *g
	c.Players = clonePlayers(g.Players)
	return c
}

func clonePlayers(players []string) []string {
	out := make([]string, len(players))
	copy(out, players)
	return out
}
