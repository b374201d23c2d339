// Package maintenance provides one-shot tasks that run instead of the bot.
package maintenance

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/gamewatch/internal/config"
	"github.com/woozymasta/gamewatch/internal/registry"
	"github.com/woozymasta/gamewatch/internal/source"
	"github.com/woozymasta/gamewatch/internal/validator"
)

// Summary counts the verdicts of a snapshot check.
type Summary struct {
	Games    int
	Accepted int
	Rejected int
}

// Run checks if any maintenance flags are set and executes the corresponding task.
// Returns true if a maintenance task was executed (indicating the program should exit).
func Run(ctx context.Context, cfg *config.Config, src source.Source, v *validator.Validator, out io.Writer) bool {
	if !cfg.Snapshot.Check {
		return false
	}

	log.Info().Str("command", cfg.Snapshot.Command).Msg("Checking snapshot...")

	sum, err := Check(ctx, src, v)
	if err != nil {
		log.Error().Err(err).Msg("Snapshot check failed")
		return true
	}

	_, _ = fmt.Fprintf(out, "games: %d, accepted: %d, rejected: %d\n", sum.Games, sum.Accepted, sum.Rejected)

	return true
}

// Check fetches one snapshot and logs the verdict of every record.
// Nothing is sent anywhere.
func Check(ctx context.Context, src source.Source, v *validator.Validator) (Summary, error) {
	records, err := src.Fetch(ctx)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Games: len(records)}
	for _, rec := range records {
		logCtx := log.With().
			Str("game", registry.NormalizeKey(rec.ID)).
			Str("type", rec.Type).
			Strs("players", rec.Players).
			Logger()

		if err := v.Check(rec.Players); err != nil {
			sum.Rejected++
			logCtx.Warn().Err(err).Msg("Game rejected")
			continue
		}

		sum.Accepted++
		logCtx.Info().Msg("Game accepted")
	}

	return sum, nil
}
