package source

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/gamewatch/internal/config"
	"github.com/woozymasta/gamewatch/internal/models"
)

// Command runs an external program that prints the game list on stdout.
type Command struct {
	opts config.Snapshot
}

// NewCommand returns a Source backed by the configured program.
func NewCommand(opts config.Snapshot) *Command {
	return &Command{opts: opts}
}

// Fetch runs the program once and decodes its output.
func (c *Command) Fetch(ctx context.Context) ([]models.Record, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.opts.Command, c.opts.Args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		log.Debug().Str("command", c.opts.Command).Str("stderr", msg).Msg("Snapshot program wrote to stderr")
	}
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", c.opts.Command, err)
	}

	log.Trace().
		Str("command", c.opts.Command).
		Str("size", humanize.Bytes(uint64(stdout.Len()))).
		Msg("Snapshot received")

	return Decode(stdout.Bytes())
}
