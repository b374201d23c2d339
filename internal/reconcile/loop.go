// Package reconcile drives the periodic fetch, validate, merge and notify cycle
// that keeps the Discord channel in step with the reported game list.
package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/gamewatch/internal/config"
	"github.com/woozymasta/gamewatch/internal/models"
	"github.com/woozymasta/gamewatch/internal/notify"
	"github.com/woozymasta/gamewatch/internal/registry"
	"github.com/woozymasta/gamewatch/internal/render"
	"github.com/woozymasta/gamewatch/internal/source"
	"github.com/woozymasta/gamewatch/internal/validator"
)

// Presence receives the active game count whenever it changes.
type Presence interface {
	SetActiveCount(ctx context.Context, count int)
}

// Observer receives a copy of the registry after every completed cycle.
type Observer interface {
	Publish(games []models.Game, at time.Time)
}

// Status is the aggregate public game counter and its Discord message.
type Status struct {
	// Handle of the status message, empty until one was created.
	Handle string

	// Count last published to the channel.
	Count int
}

// Report summarizes one cycle.
type Report struct {
	Fetched   int
	Accepted  int
	Rejected  int
	Created   int
	Refreshed int
	Swept     int
	Closed    int
	Sent      int
	Updated   int
	Unchanged int
	Failed    int

	StatusRecreated bool
	Aborted         bool
}

// Loop owns the registry and the status; it is the only goroutine touching them.
type Loop struct {
	source    source.Source
	validator *validator.Validator
	sink      notify.Sink
	renderer  *render.Renderer
	registry  *registry.Registry
	observer  Observer
	now       func() time.Time
	lastRun   time.Time
	presence  []Presence
	status    Status
	opts      config.Reconcile

	// statusMissing is set once the status message was deleted and no
	// replacement has been created yet.
	statusMissing bool
}

// New creates a loop with an empty registry.
func New(src source.Source, v *validator.Validator, sink notify.Sink, r *render.Renderer, opts config.Reconcile) *Loop {
	return &Loop{
		source:    src,
		validator: v,
		sink:      sink,
		renderer:  r,
		registry:  registry.New(),
		opts:      opts,
		now:       time.Now,
	}
}

// AddPresence registers a presence indicator updated with the active count.
func (l *Loop) AddPresence(p Presence) {
	l.presence = append(l.presence, p)
}

// SetObserver registers the receiver of registry snapshots.
func (l *Loop) SetObserver(o Observer) {
	l.observer = o
}

// Status returns the current aggregate status.
func (l *Loop) Status() Status {
	return l.status
}

// Run checks every tick whether the refresh interval elapsed and runs a
// cycle when it did. The first cycle runs on the first tick. Cycles never
// overlap: a slow cycle only delays the next one.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.opts.Tick)
	defer ticker.Stop()

	log.Info().
		Dur("interval", l.opts.Interval).
		Dur("ttl", l.opts.TTL).
		Msg("Reconcile loop started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Reconcile loop stopped")
			return nil
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

// tick runs a cycle if the interval elapsed and reports whether it did.
func (l *Loop) tick(ctx context.Context) bool {
	now := l.now()
	if !l.lastRun.IsZero() && now.Sub(l.lastRun) < l.opts.Interval {
		return false
	}

	l.lastRun = now
	l.Cycle(ctx)

	return true
}

// Cycle runs one reconciliation pass.
func (l *Loop) Cycle(ctx context.Context) Report {
	var rep Report
	logCtx := log.With().Str("cycle", uuid.NewString()).Logger()

	records, err := l.source.Fetch(ctx)
	if err != nil {
		rep.Aborted = true
		if errors.Is(err, source.ErrEmpty) {
			logCtx.Debug().Msg("Snapshot empty, cycle skipped")
		} else {
			logCtx.Warn().Err(err).Msg("Snapshot fetch failed, cycle skipped")
		}
		return rep
	}

	now := l.now()
	rep.Fetched = len(records)
	logCtx.Debug().Int("games", len(records)).Msg("Refreshing game list")

	for _, rec := range records {
		if err := l.validator.Check(rec.Players); err != nil {
			rep.Rejected++
			logCtx.Debug().Err(err).Str("game", registry.NormalizeKey(rec.ID)).Msg("Game rejected")
			continue
		}

		rep.Accepted++
		if l.registry.Merge(rec, now) == registry.Created {
			rep.Created++
			logCtx.Info().Str("game", registry.NormalizeKey(rec.ID)).Msg("New game")
		} else {
			rep.Refreshed++
		}
	}

	swept := l.registry.SweepStale(now, l.opts.TTL)
	rep.Swept = len(swept)
	for _, g := range swept {
		l.finalize(ctx, logCtx, &rep, g, now)
	}

	// Removal and refresh stay on separate ticks: a cycle that ended games
	// sends nothing else and leaves the status for the next cycle.
	if len(swept) > 0 {
		l.publish(now)
		l.logReport(logCtx, rep)
		return rep
	}

	for _, g := range l.registry.Snapshot() {
		l.sync(ctx, logCtx, &rep, g, now)
	}

	l.updateStatus(ctx, logCtx, &rep)
	l.publish(now)
	l.logReport(logCtx, rep)

	return rep
}

// finalize sends the final render of an ended game. The game is already out of
// the registry; a missing message is fine.
func (l *Loop) finalize(ctx context.Context, logCtx zerolog.Logger, rep *Report, g models.Game, now time.Time) {
	gameLog := logCtx.With().Str("game", g.ID).Logger()

	if g.Handle == "" {
		gameLog.Debug().Msg("Game ended without message")
		return
	}

	res := l.sink.Update(ctx, g.Handle, l.renderer.Game(g, now))
	switch res.Status {
	case notify.OK:
		rep.Closed++
		gameLog.Info().Str("handle", g.Handle).Msg("Game ended")
	case notify.NotFound:
		rep.Closed++
		gameLog.Debug().Str("handle", g.Handle).Msg("Game ended, message already gone")
	default:
		rep.Failed++
		gameLog.Warn().Err(res.Err).Str("handle", g.Handle).Msg("Failed to finalize game message")
	}
}

// sync creates the message of a new game or edits it when the payload changed.
func (l *Loop) sync(ctx context.Context, logCtx zerolog.Logger, rep *Report, g models.Game, now time.Time) {
	gameLog := logCtx.With().Str("game", g.ID).Logger()
	msg := l.renderer.Game(g, now)
	digest := render.Digest(msg)

	if g.Handle == "" {
		handle, err := l.sink.Create(ctx, msg)
		if err != nil {
			rep.Failed++
			gameLog.Warn().Err(err).Msg("Failed to create game message")
			return
		}
		l.registry.MarkSent(g.ID, handle, digest)
		rep.Sent++
		gameLog.Debug().Str("handle", handle).Msg("Game message created")
		return
	}

	if digest == g.Digest {
		rep.Unchanged++
		return
	}

	res := l.sink.Update(ctx, g.Handle, msg)
	switch res.Status {
	case notify.OK:
		l.registry.MarkSent(g.ID, g.Handle, digest)
		rep.Updated++
		gameLog.Trace().Str("handle", g.Handle).Msg("Game message updated")
	case notify.NotFound:
		l.registry.MarkSent(g.ID, g.Handle, digest)
		gameLog.Debug().Str("handle", g.Handle).Msg("Game message not found, update skipped")
	default:
		rep.Failed++
		gameLog.Warn().Err(res.Err).Str("handle", g.Handle).Msg("Failed to update game message")
	}
}

// updateStatus recreates the status message when the game count changed or
// when a previous replacement failed after the old message was deleted.
// The message is never edited so it always shows up below the game messages.
func (l *Loop) updateStatus(ctx context.Context, logCtx zerolog.Logger, rep *Report) {
	count := l.registry.Len()
	if count == l.status.Count && !l.statusMissing {
		return
	}

	if l.status.Handle != "" {
		if res := l.sink.Delete(ctx, l.status.Handle); !res.Done() {
			rep.Failed++
			logCtx.Warn().Err(res.Err).Str("handle", l.status.Handle).Msg("Failed to delete status message")
		}
		l.status.Handle = ""
		l.statusMissing = true
	}

	handle, err := l.sink.Create(ctx, render.StatusMessage(count))
	if err != nil {
		rep.Failed++
		logCtx.Warn().Err(err).Int("count", count).Msg("Failed to create status message")
		return
	}

	l.status = Status{Count: count, Handle: handle}
	l.statusMissing = false
	rep.StatusRecreated = true

	for _, p := range l.presence {
		p.SetActiveCount(ctx, count)
	}

	logCtx.Info().Int("count", count).Msg("Public game count changed")
}

func (l *Loop) publish(now time.Time) {
	if l.observer != nil {
		l.observer.Publish(l.registry.Snapshot(), now)
	}
}

func (l *Loop) logReport(logCtx zerolog.Logger, rep Report) {
	logCtx.Debug().
		Int("fetched", rep.Fetched).
		Int("accepted", rep.Accepted).
		Int("rejected", rep.Rejected).
		Int("created", rep.Created).
		Int("refreshed", rep.Refreshed).
		Int("swept", rep.Swept).
		Int("closed", rep.Closed).
		Int("sent", rep.Sent).
		Int("updated", rep.Updated).
		Int("unchanged", rep.Unchanged).
		Int("failed", rep.Failed).
		Bool("status_recreated", rep.StatusRecreated).
		Int("active", l.registry.Len()).
		Msg("Cycle finished")
}
