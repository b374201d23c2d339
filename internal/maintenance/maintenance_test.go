package maintenance

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/woozymasta/gamewatch/internal/config"
	"github.com/woozymasta/gamewatch/internal/models"
	"github.com/woozymasta/gamewatch/internal/validator"
)

type staticSource struct {
	err     error
	records []models.Record
}

func (s staticSource) Fetch(_ context.Context) ([]models.Record, error) {
	return s.records, s.err
}

func TestCheck(t *testing.T) {
	src := staticSource{records: []models.Record{
		{ID: "good", Players: []string{"Hero"}},
		{ID: "comma", Players: []string{"a,b"}},
		{ID: "banned", Players: []string{"xxCheaterxx"}},
	}}
	v := validator.New(validator.NewBanList("cheater"))

	sum, err := Check(context.Background(), src, v)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if sum != (Summary{Games: 3, Accepted: 1, Rejected: 2}) {
		t.Errorf("summary = %+v", sum)
	}
}

func TestRun(t *testing.T) {
	cfg := &config.Config{}
	src := staticSource{records: []models.Record{{ID: "good", Players: []string{"Hero"}}}}
	v := validator.New(validator.BanList{})

	var out bytes.Buffer
	if Run(context.Background(), cfg, src, v, &out) {
		t.Fatal("Run() executed without the check flag")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}

	cfg.Snapshot.Check = true
	if !Run(context.Background(), cfg, src, v, &out) {
		t.Fatal("Run() skipped the check")
	}
	if got := out.String(); got != "games: 1, accepted: 1, rejected: 0\n" {
		t.Errorf("output = %q", got)
	}

	out.Reset()
	failing := staticSource{err: errors.New("exit status 1")}
	if !Run(context.Background(), cfg, failing, v, &out) {
		t.Error("Run() must report the task as executed on failure")
	}
	if out.Len() != 0 {
		t.Errorf("output on failure = %q", out.String())
	}
}
