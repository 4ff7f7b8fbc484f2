package stats

import (
	"context"
	"sync"
	"time"

	"github.com/Cameron-Kurotori/safesnake/logging"
	"github.com/go-kit/log/level"
)

// ActiveGame is a game we have seen /start for but not /end.
type ActiveGame struct {
	LastTurn       int
	StartedAt      time.Time
	StartingLength int32
}

// FoodEaten estimates food eaten from growth since the start of the game.
func (g ActiveGame) FoodEaten(finalLength int32) uint32 {
	if finalLength <= g.StartingLength {
		return 0
	}
	return uint32(finalLength - g.StartingLength)
}

type Tracker struct {
	mu    sync.Mutex
	games map[string]ActiveGame
}

func NewTracker() *Tracker {
	return &Tracker{games: map[string]ActiveGame{}}
}

func (t *Tracker) Start(gameID string, startingLength int32, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.games[gameID] = ActiveGame{StartedAt: now, StartingLength: startingLength}
}

// Touch records the latest turn played in a game. Games missed at /start are
// registered on their first move.
func (t *Tracker) Touch(gameID string, turn int, length int32, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	game, ok := t.games[gameID]
	if !ok {
		game = ActiveGame{StartedAt: now, StartingLength: length}
	}
	if turn > game.LastTurn {
		game.LastTurn = turn
	}
	t.games[gameID] = game
}

// Finish removes the game and returns what was tracked for it.
func (t *Tracker) Finish(gameID string) (ActiveGame, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	game, ok := t.games[gameID]
	delete(t.games, gameID)
	return game, ok
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.games)
}

// CleanupStale drops games started more than maxAge before now and returns how many
// were removed.
func (t *Tracker) CleanupStale(maxAge time.Duration, now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for id, game := range t.games {
		if age := now.Sub(game.StartedAt); age > maxAge {
			_ = level.Warn(logging.GlobalLogger()).Log("msg", "cleaning up stale game", "game_id", id, "age", age.String())
			delete(t.games, id)
			removed++
		}
	}
	return removed
}

// RunJanitor calls CleanupStale every interval until ctx is done.
func (t *Tracker) RunJanitor(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := t.CleanupStale(maxAge, now); removed > 0 {
				_ = level.Info(logging.GlobalLogger()).Log("msg", "cleaned up stale games", "removed", removed)
			}
		}
	}
}
