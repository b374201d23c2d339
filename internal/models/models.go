// Package models defines the data structures shared by the snapshot source,
// the registry and the Discord notification layer.
package models

import (
	"strconv"
	"time"
)

// Record represents one game as reported by the snapshot command.
type Record struct {
	ID           string   `json:"id"`
	Version      string   `json:"version"`
	Type         string   `json:"type"`
	Players      []string `json:"players"`
	Difficulty   int      `json:"difficulty"`
	TickRate     int      `json:"tick_rate"`
	RunInTown    bool     `json:"run_in_town"`
	FullQuests   bool     `json:"full_quests"`
	TheoQuest    bool     `json:"theo_quest"`
	CowQuest     bool     `json:"cow_quest"`
	FriendlyFire bool     `json:"friendly_fire"`
}

// Difficulty of a game session.
type Difficulty int

// Known difficulties, in the order the game reports them.
const (
	Normal Difficulty = iota
	Nightmare
	Hell
)

// String returns the display label, or the raw value for unknown difficulties.
func (d Difficulty) String() string {
	switch d {
	case Normal:
		return "Normal"
	case Nightmare:
		return "Nightmare"
	case Hell:
		return "Hell"
	default:
		return "Unknown (" + strconv.Itoa(int(d)) + ")"
	}
}

// Flags are the boolean game options fixed when the game is created.
type Flags struct {
	RunInTown    bool `json:"run_in_town"`
	FullQuests   bool `json:"full_quests"`
	TheoQuest    bool `json:"theo_quest"`
	CowQuest     bool `json:"cow_quest"`
	FriendlyFire bool `json:"friendly_fire"`
}

// Game is a tracked session keyed by its upper-cased identifier.
type Game struct {
	FirstSeen  time.Time  `json:"first_seen"`
	LastSeen   time.Time  `json:"last_seen"`
	ID         string     `json:"id"`
	Version    string     `json:"version"`
	Type       string     `json:"type"`
	Players    []string   `json:"players"`
	Difficulty Difficulty `json:"difficulty"`
	TickRate   int        `json:"tick_rate"`
	Flags      Flags      `json:"flags"`

	// Handle is the Discord message ID, empty until the message was created.
	Handle string `json:"-"`

	// Digest fingerprints the last payload accepted by the sink.
	Digest uint64 `json:"-"`
}

// Message is the payload of a Discord channel message.
type Message struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

// Embed is a Discord rich embed.
type Embed struct {
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Thumbnail   *EmbedImage  `json:"thumbnail,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Fields      []EmbedField `json:"fields"`
	Color       int          `json:"color"`
}

// EmbedAuthor is the author line of an embed.
type EmbedAuthor struct {
	Name string `json:"name"`
}

// EmbedImage references an image shown inside an embed.
type EmbedImage struct {
	URL string `json:"url"`
}

// EmbedFooter is the footer line of an embed.
type EmbedFooter struct {
	Text string `json:"text"`
}

// EmbedField is a name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}
