package game

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/maps"
)

// Tracking is the mutable per-game state the bot carries between polls.
type Tracking struct {
	Color         string
	LastMoveCount int
}

// TrackingStore persists tracking state across bot restarts.
type TrackingStore interface {
	LoadTracking() (map[string]Tracking, error)
	SaveTracking(gameID string, t Tracking) error
	DeleteTracking(gameID string) error
}

// Tracker owns the tracked-games map. The refresh goroutine and the main
// loop both touch it, so every access goes through the mutex.
type Tracker struct {
	mu    sync.Mutex
	games map[string]Tracking
	store TrackingStore // nil when running memory-only
}

// NewTracker creates a Tracker, seeded from store when one is given.
func NewTracker(store TrackingStore) (*Tracker, error) {
	t := &Tracker{
		games: map[string]Tracking{},
		store: store,
	}
	if store != nil {
		saved, err := store.LoadTracking()
		if err != nil {
			return nil, err
		}
		if saved != nil {
			t.games = saved
		}
	}
	return t, nil
}

// Refresh replaces the tracked set with ids, preserving the state of games
// that are still present. It returns the ids that are new since the last
// refresh.
func (t *Tracker) Refresh(ids []string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var added []string
	next := make(map[string]Tracking, len(ids))
	for _, id := range ids {
		if current, ok := t.games[id]; ok {
			next[id] = current
			continue
		}
		next[id] = Tracking{}
		added = append(added, id)
	}

	if t.store != nil {
		for id := range t.games {
			if _, ok := next[id]; !ok {
				if err := t.store.DeleteTracking(id); err != nil {
					log.Warn().Err(err).Str("game", id).Msg("failed to drop finished game from store")
				}
			}
		}
	}

	t.games = next
	return added
}

// IDs returns a sorted snapshot of the tracked game ids. The caller
// iterates the snapshot without holding the lock.
func (t *Tracker) IDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := maps.Keys(t.games)
	sort.Strings(ids)
	return ids
}

// Get returns the tracking state for one game.
func (t *Tracker) Get(id string) (Tracking, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tracking, ok := t.games[id]
	return tracking, ok
}

// Update records new tracking state for a game, creating the entry if the
// refresh has not seen it yet.
func (t *Tracker) Update(id string, tracking Tracking) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.games[id] = tracking
	if t.store != nil {
		if err := t.store.SaveTracking(id, tracking); err != nil {
			log.Warn().Err(err).Str("game", id).Msg("failed to persist tracking state")
		}
	}
}

// Len reports how many games are currently tracked.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.games)
}
