// Package stats keeps aggregate win/loss statistics across games and tracks the games
// that are currently in progress. Both types guard their own state and are shared by
// every request handler.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Cameron-Kurotori/safesnake/logging"
	"github.com/Cameron-Kurotori/safesnake/sdk"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// OutcomeOf decides the result of a finished game from the final state: we win if our
// snake is still on the board and draw if nobody is.
func OutcomeOf(state sdk.GameState) Outcome {
	for _, snake := range state.Board.Snakes {
		if snake.ID == state.You.ID {
			return OutcomeWin
		}
	}
	if len(state.Board.Snakes) == 0 {
		return OutcomeDraw
	}
	return OutcomeLoss
}

type Stats struct {
	TotalGames     uint64 `json:"total_games"`
	Wins           uint64 `json:"wins"`
	Losses         uint64 `json:"losses"`
	Draws          uint64 `json:"draws"`
	TotalTurns     uint64 `json:"total_turns"`
	LongestGame    uint32 `json:"longest_game"`
	ShortestGame   uint32 `json:"shortest_game"`
	TotalFoodEaten uint64 `json:"total_food_eaten"`
	LastPlayed     string `json:"last_played,omitempty"`
}

func (s *Stats) RecordGame(turns, foodEaten uint32, outcome Outcome, now time.Time) {
	s.TotalGames++
	s.TotalTurns += uint64(turns)
	s.TotalFoodEaten += uint64(foodEaten)

	switch outcome {
	case OutcomeWin:
		s.Wins++
	case OutcomeDraw:
		s.Draws++
	default:
		s.Losses++
	}

	if turns > s.LongestGame {
		s.LongestGame = turns
	}
	if s.TotalGames == 1 || turns < s.ShortestGame {
		s.ShortestGame = turns
	}
	s.LastPlayed = now.UTC().Format(time.RFC3339)
}

// WinRate is the percentage of games won
func (s Stats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.TotalGames) * 100
}

func (s Stats) AverageTurns() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.TotalTurns) / float64(s.TotalGames)
}

func (s Stats) AverageFoodEaten() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.TotalFoodEaten) / float64(s.TotalGames)
}

// Store persists Stats to a JSON file. Every Record rewrites the file through a temp
// file and a rename so a crash never leaves a half written file behind.
type Store struct {
	path string

	mu    sync.Mutex
	stats Stats
}

// Open loads stats from path. A missing or unreadable file starts from empty stats.
// The parent directory is created if needed.
func Open(path string) (*Store, error) {
	logger := log.With(logging.GlobalLogger(), "stats_file", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create stats dir: %w", err)
	}

	store := &Store{path: path}
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		_ = level.Info(logger).Log("msg", "stats file not found, starting fresh")
		return store, nil
	} else if err != nil {
		return nil, fmt.Errorf("read stats file: %w", err)
	}

	if err := json.Unmarshal(contents, &store.stats); err != nil {
		_ = level.Error(logger).Log("msg", "failed to parse stats file, starting fresh", "err", err)
		store.stats = Stats{}
		return store, nil
	}
	_ = level.Info(logger).Log("msg", "loaded stats", "total_games", store.stats.TotalGames)
	return store, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Record adds one finished game and saves. The in-memory stats are updated even when
// saving fails.
func (s *Store) Record(turns, foodEaten uint32, outcome Outcome, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.RecordGame(turns, foodEaten, outcome, now)
	return s.save()
}

func (s *Store) save() error {
	contents, err := json.MarshalIndent(s.stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open tmp stats file: %w", err)
	}
	if _, err := f.Write(contents); err != nil {
		_ = f.Close()
		return fmt.Errorf("write tmp stats file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync tmp stats file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close tmp stats file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename stats file: %w", err)
	}
	_ = level.Debug(logging.GlobalLogger()).Log("msg", "stats saved", "stats_file", s.path)
	return nil
}
