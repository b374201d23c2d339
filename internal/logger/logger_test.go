package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupJSONFile(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "bot.log")
	Setup(Config{Level: "warn", Format: "json", Output: path})

	log.Info().Msg("hidden")
	log.Warn().Str("game", "ABCD").Msg("visible")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not json: %v", err)
	}
	if entry["message"] != "visible" || entry["game"] != "ABCD" || entry["level"] != "warn" {
		t.Errorf("entry = %v", entry)
	}
}

func TestSetupUnknownLevel(t *testing.T) {
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	Setup(Config{Level: "loud", Format: "json", Output: filepath.Join(t.TempDir(), "x.log")})
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info", zerolog.GlobalLevel())
	}
}

func TestOpenWriterFallback(t *testing.T) {
	if w := openWriter("stdout"); w != os.Stdout {
		t.Error("stdout not resolved")
	}
	if w := openWriter(""); w != os.Stderr {
		t.Error("empty output must default to stderr")
	}

	missingDir := filepath.Join(t.TempDir(), "missing", "bot.log")
	if w := openWriter(missingDir); w != os.Stderr {
		t.Error("unwritable path must fall back to stderr")
	}
}
