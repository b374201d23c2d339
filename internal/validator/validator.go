// Package validator implements the content policy applied to player names
// before a reported game is admitted into the registry.
package validator

import (
	"errors"
	"fmt"
	"strings"
)

// restricted matches the characters DevilutionX refuses in player names.
const restricted = ",<>%&\\\"?*#/: "

var (
	// ErrInvalidName is returned when a name holds a restricted or non-printable character.
	ErrInvalidName = errors.New("invalid player name")

	// ErrBannedWord is returned when a name contains a banned word.
	ErrBannedWord = errors.New("banned word in player name")
)

// Validator applies both name checks with a fixed ban list.
type Validator struct {
	ban BanList
}

// New returns a Validator using the given ban list.
func New(ban BanList) *Validator {
	return &Validator{ban: ban}
}

// Check returns nil when every player passes, or the first failure wrapped
// with the offending name.
func (v *Validator) Check(players []string) error {
	for _, name := range players {
		if !validName(name) {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}

	for _, name := range players {
		if word, ok := v.ban.match(name); ok {
			return fmt.Errorf("%w: %q matches %q", ErrBannedWord, name, word)
		}
	}

	return nil
}

// Accept reports whether the players pass both checks.
func (v *Validator) Accept(players []string) bool {
	return v.Check(players) == nil
}

// IsValid reports whether every name consists of printable ASCII
// and holds none of the restricted characters.
func IsValid(players []string) bool {
	for _, name := range players {
		if !validName(name) {
			return false
		}
	}

	return true
}

// ContainsBannedWord reports whether any name contains a word of the ban list,
// compared case-insensitively.
func ContainsBannedWord(players []string, ban BanList) bool {
	for _, name := range players {
		if _, ok := ban.match(name); ok {
			return true
		}
	}

	return false
}

func validName(name string) bool {
	if strings.ContainsAny(name, restricted) {
		return false
	}

	for _, r := range name {
		if r < 32 || r > 126 {
			return false
		}
	}

	return true
}
