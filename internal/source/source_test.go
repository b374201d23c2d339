package source

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/woozymasta/gamewatch/internal/config"
	"github.com/woozymasta/gamewatch/internal/validator"
)

const sample = `[
  {"id": "abcd", "version": "1.5.2", "players": ["Hero", "Rogue"], "difficulty": 2,
   "tick_rate": 30, "run_in_town": true, "full_quests": false, "theo_quest": true,
   "cow_quest": false, "friendly_fire": true, "type": "HRTL"}
]`

func TestDecode(t *testing.T) {
	records, err := Decode([]byte(sample))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.ID != "abcd" || r.Version != "1.5.2" || r.Type != "HRTL" {
		t.Errorf("record = %+v", r)
	}
	if r.Difficulty != 2 || r.TickRate != 30 {
		t.Errorf("difficulty/tick = %d/%d", r.Difficulty, r.TickRate)
	}
	if !r.RunInTown || r.FullQuests || !r.TheoQuest || r.CowQuest || !r.FriendlyFire {
		t.Errorf("flags = %+v", r)
	}
	if len(r.Players) != 2 || r.Players[1] != "Rogue" {
		t.Errorf("players = %q", r.Players)
	}
}

func TestDecodeEmptyAndMalformed(t *testing.T) {
	for _, in := range []string{"", "  \n"} {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrEmpty) {
			t.Errorf("Decode(%q) = %v, want ErrEmpty", in, err)
		}
	}

	records, err := Decode([]byte("[]"))
	if err != nil || len(records) != 0 {
		t.Errorf("Decode([]) = %v, %v; want empty list", records, err)
	}

	if _, err := Decode([]byte(`{"id":`)); err == nil || errors.Is(err, ErrEmpty) {
		t.Errorf("Decode(malformed) = %v, want decode error", err)
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	path := filepath.Join(t.TempDir(), "gamelist.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil { //nolint:gosec
		t.Fatal(err)
	}
	return path
}

func TestCommandFetch(t *testing.T) {
	script := writeScript(t, "cat <<'EOF'\n"+sample+"\nEOF")

	records, err := NewCommand(config.Snapshot{Command: script}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(records) != 1 || records[0].ID != "abcd" {
		t.Errorf("records = %+v", records)
	}
}

func TestCommandFetchEmptyOutput(t *testing.T) {
	script := writeScript(t, "echo 'no lobby server reachable' >&2")

	_, err := NewCommand(config.Snapshot{Command: script}).Fetch(context.Background())
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Fetch() = %v, want ErrEmpty", err)
	}
}

func TestCommandFetchFailure(t *testing.T) {
	script := writeScript(t, "exit 3")

	if _, err := NewCommand(config.Snapshot{Command: script}).Fetch(context.Background()); err == nil {
		t.Error("Fetch() expected error for failing program")
	}

	missing := config.Snapshot{Command: filepath.Join(t.TempDir(), "missing")}
	if _, err := NewCommand(missing).Fetch(context.Background()); err == nil {
		t.Error("Fetch() expected error for missing program")
	}
}

func TestCommandFetchTimeout(t *testing.T) {
	script := writeScript(t, "exec sleep 5")

	start := time.Now()
	_, err := NewCommand(config.Snapshot{Command: script, Timeout: 100 * time.Millisecond}).Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() expected timeout error")
	}
	if time.Since(start) > 3*time.Second {
		t.Errorf("Fetch() took %v, timeout not applied", time.Since(start))
	}
}

func TestFakeFetch(t *testing.T) {
	f := NewFake(20, 1)

	seen := make(map[string]int)
	for i := 0; i < 5; i++ {
		records, err := f.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		for _, r := range records {
			seen[r.ID]++
			if !validator.IsValid(r.Players) {
				t.Errorf("fake players %q fail validation", r.Players)
			}
			if len(r.Players) == 0 {
				t.Errorf("fake game %s without players", r.ID)
			}
		}
	}

	if len(seen) == 0 || len(seen) > 20 {
		t.Errorf("distinct ids = %d, want within pool of 20", len(seen))
	}
}
