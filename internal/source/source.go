// Package source produces game list snapshots.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/woozymasta/gamewatch/internal/models"
)

// ErrEmpty is returned when the snapshot producer printed nothing.
var ErrEmpty = errors.New("empty snapshot")

// Source returns the games currently reported as public.
type Source interface {
	Fetch(ctx context.Context) ([]models.Record, error)
}

// Decode parses a snapshot payload: a JSON array of game records.
// Blank input yields ErrEmpty.
func Decode(data []byte) ([]models.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return records, nil
}
