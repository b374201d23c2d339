package source

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/woozymasta/gamewatch/internal/models"
)

// Fake generates random game lists for development without the real
// snapshot program. Games come from a fixed pool so that refreshes and
// expiries both happen across calls.
type Fake struct {
	rnd  *rand.Rand
	pool []models.Record
}

// NewFake returns a fake source with a pool of count games.
func NewFake(count int, seed int64) *Fake {
	rnd := rand.New(rand.NewSource(seed)) //nolint:gosec

	types := []string{"DRTL", "DSHR", "HRTL", "HSHR", "IRON", "LTHR"}
	versions := []string{"1.5.0", "1.5.1", "1.5.2", "1.6.0-dev"}
	ticks := []int{20, 20, 20, 30, 40, 50, 60}

	pool := make([]models.Record, count)
	for i := range pool {
		pool[i] = models.Record{
			ID:           randomID(rnd),
			Version:      versions[rnd.Intn(len(versions))],
			Type:         types[rnd.Intn(len(types))],
			Difficulty:   rnd.Intn(3),
			TickRate:     ticks[rnd.Intn(len(ticks))],
			RunInTown:    rnd.Float32() < 0.7,
			FullQuests:   rnd.Float32() < 0.5,
			TheoQuest:    rnd.Float32() < 0.3,
			CowQuest:     rnd.Float32() < 0.3,
			FriendlyFire: rnd.Float32() < 0.4,
		}
	}

	return &Fake{rnd: rnd, pool: pool}
}

// Fetch returns a random subset of the pool with fresh rosters.
func (f *Fake) Fetch(_ context.Context) ([]models.Record, error) {
	names := []string{"Warrior", "Rogue", "Sorcerer", "Monk", "Bard", "Barbarian"}

	var records []models.Record
	for _, rec := range f.pool {
		// 80% chance the game is still listed
		if f.rnd.Float32() >= 0.8 {
			continue
		}

		players := make([]string, 1+f.rnd.Intn(4))
		for i := range players {
			players[i] = fmt.Sprintf("%s%d", names[f.rnd.Intn(len(names))], f.rnd.Intn(100))
		}
		rec.Players = players

		records = append(records, rec)
	}

	return records, nil
}

func randomID(rnd *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, 6)
	for i := range b {
		b[i] = letters[rnd.Intn(len(letters))]
	}
	return string(b)
}
