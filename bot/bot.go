// Package bot runs the polling loops: a background refresh of the
// tracked-games set on a long interval, and the main loop that walks the
// tracked games one engine round-trip at a time.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"eothello/communication"
	"eothello/extract"
	"eothello/game"
	"eothello/player"
)

// Bot wires the site, the tracker and the negotiator into the two loops.
type Bot struct {
	cfg        Config
	source     communication.GameSource
	tracker    *game.Tracker
	negotiator *player.Negotiator
}

// New assembles a Bot from its collaborators.
func New(cfg Config, source communication.GameSource, tracker *game.Tracker, negotiator *player.Negotiator) *Bot {
	return &Bot{
		cfg:        cfg,
		source:     source,
		tracker:    tracker,
		negotiator: negotiator,
	}
}

// Run blocks until ctx is canceled. Games are processed sequentially with
// a fixed delay between them; one game's failure never aborts the others
// or the loop, and an unexpected cycle failure backs off before resuming.
func (b *Bot) Run(ctx context.Context) {
	go b.refreshLoop(ctx)
	b.refresh()

	for {
		if err := b.cycle(ctx); err != nil {
			log.Error().Err(err).Msg("cycle failed, backing off")
			if !sleep(ctx, b.cfg.ErrorBackoff) {
				return
			}
			continue
		}
		if !sleep(ctx, b.cfg.MoveCheckInterval) {
			return
		}
	}
}

// refreshLoop re-reads the games list on the long interval.
func (b *Bot) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(b.cfg.GamesCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.refresh()
		}
	}
}

func (b *Bot) refresh() {
	ids, err := b.source.CurrentGames()
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch the games list")
		return
	}
	added := b.tracker.Refresh(ids)
	if len(added) > 0 {
		log.Info().Strs("games", added).Msg("new games")
	}
	log.Debug().Int("tracked", b.tracker.Len()).Msg("games list refreshed")
}

// cycle walks a snapshot of the tracked games. The recover guard is the
// loop's last line of defense: a panic in one cycle costs a backoff, not
// the process.
func (b *Bot) cycle(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()

	for _, id := range b.tracker.IDs() {
		b.processGame(id)
		if !sleep(ctx, b.cfg.RequestDelay) {
			return nil
		}
	}
	return nil
}

// processGame runs one poll for one game. Every failure is logged with the
// game id and ends here; the next cycle retries from scratch.
func (b *Bot) processGame(id string) {
	page, err := b.source.GamePage(id)
	if err != nil {
		log.Error().Err(err).Str("game", id).Msg("failed to fetch the game page")
		return
	}

	values, err := extract.Arguments(page)
	if err != nil {
		log.Warn().Err(err).Str("game", id).Msg("skipping malformed game page")
		return
	}
	rec := extract.MapRecord(values)
	// The page echoes its own id; the URL id stays authoritative.
	rec.ID = id

	result, err := b.negotiator.Negotiate(rec)
	if err != nil {
		log.Error().Err(err).Str("game", id).Msg("no move this cycle")
		return
	}
	b.tracker.Update(id, game.Tracking{
		Color:         result.Color,
		LastMoveCount: result.MoveCount,
	})
}

// sleep waits for d or until ctx is canceled; false means canceled.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
