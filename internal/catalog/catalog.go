// Package catalog holds the finite lookup tables keyed by game type code:
// the thumbnail icon per type and the Diablo-only types that cannot enable
// the Hellfire quests (Theo and Cow).
package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/woozymasta/gamewatch/assets"
)

const catalogFile = "data/gametypes.json"

// GameType describes one known game type code.
type GameType struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Diablo bool   `json:"diablo"`
}

// Catalog is a validated, read-only set of game types.
type Catalog struct {
	types map[string]GameType
}

// Load parses and validates the embedded game type table.
func Load() (*Catalog, error) {
	data, err := assets.ReadFile(catalogFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", catalogFile, err)
	}

	return Parse(data)
}

// Parse builds a catalog from a JSON array of game types.
func Parse(data []byte) (*Catalog, error) {
	var list []GameType
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode game types: %w", err)
	}

	return New(list...)
}

// New validates the given game types and builds a catalog.
// Codes must be four upper-case ASCII letters and unique; icons must be
// empty or absolute http(s) URLs.
func New(types ...GameType) (*Catalog, error) {
	c := &Catalog{types: make(map[string]GameType, len(types))}

	for _, t := range types {
		if !validCode(t.Code) {
			return nil, fmt.Errorf("game type %q: code must be 4 upper-case letters", t.Code)
		}
		if _, dup := c.types[t.Code]; dup {
			return nil, fmt.Errorf("game type %q: duplicate code", t.Code)
		}
		if t.Icon != "" {
			u, err := url.Parse(t.Icon)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return nil, fmt.Errorf("game type %q: invalid icon url %q", t.Code, t.Icon)
			}
		}
		c.types[t.Code] = t
	}

	return c, nil
}

// Len returns the number of known game types.
func (c *Catalog) Len() int {
	return len(c.types)
}

// Lookup returns the game type registered for code.
func (c *Catalog) Lookup(code string) (GameType, bool) {
	t, ok := c.types[code]
	return t, ok
}

// Icon returns the thumbnail URL for code, or "" when unknown.
func (c *Catalog) Icon(code string) string {
	return c.types[code].Icon
}

// HellfireQuestsExcluded reports whether code is a Diablo-only type whose
// Theo and Cow quest flags must not be shown.
func (c *Catalog) HellfireQuestsExcluded(code string) bool {
	return c.types[code].Diablo
}

func validCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
