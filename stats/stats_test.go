package stats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Cameron-Kurotori/safesnake/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func TestOutcomeOf(t *testing.T) {
	you := sdk.Battlesnake{ID: "me"}
	other := sdk.Battlesnake{ID: "other"}

	type testCase struct {
		name     string
		snakes   []sdk.Battlesnake
		expected Outcome
	}
	test := func(tc testCase) func(*testing.T) {
		return func(t *testing.T) {
			state := sdk.GameState{Board: sdk.Board{Snakes: tc.snakes}, You: you}
			assert.Equal(t, tc.expected, OutcomeOf(state))
		}
	}

	testCases := []testCase{
		{"alive", []sdk.Battlesnake{you}, OutcomeWin},
		{"other-alive", []sdk.Battlesnake{other}, OutcomeLoss},
		{"nobody", nil, OutcomeDraw},
	}
	for _, tc := range testCases {
		t.Run(tc.name, test(tc))
	}
}

func TestRecordGame(t *testing.T) {
	var s Stats
	assert.Zero(t, s.WinRate())
	assert.Zero(t, s.AverageTurns())
	assert.Zero(t, s.AverageFoodEaten())

	s.RecordGame(40, 3, OutcomeWin, now)
	s.RecordGame(10, 0, OutcomeLoss, now)
	s.RecordGame(100, 9, OutcomeDraw, now)
	s.RecordGame(50, 0, OutcomeWin, now)

	assert.EqualValues(t, 4, s.TotalGames)
	assert.EqualValues(t, 2, s.Wins)
	assert.EqualValues(t, 1, s.Losses)
	assert.EqualValues(t, 1, s.Draws)
	assert.EqualValues(t, 200, s.TotalTurns)
	assert.EqualValues(t, 100, s.LongestGame)
	assert.EqualValues(t, 10, s.ShortestGame)
	assert.EqualValues(t, 12, s.TotalFoodEaten)
	assert.Equal(t, "2026-10-16T12:00:00Z", s.LastPlayed)

	assert.InDelta(t, 50.0, s.WinRate(), 1e-9)
	assert.InDelta(t, 50.0, s.AverageTurns(), 1e-9)
	assert.InDelta(t, 3.0, s.AverageFoodEaten(), 1e-9)
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "stats.json")

	store, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, store.Snapshot())

	require.NoError(t, store.Record(25, 2, OutcomeWin, now))
	require.NoError(t, store.Record(5, 0, OutcomeLoss, now))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, store.Snapshot(), reopened.Snapshot())
	assert.EqualValues(t, 2, reopened.Snapshot().TotalGames)
	assert.EqualValues(t, 5, reopened.Snapshot().ShortestGame)
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, store.Snapshot())

	require.NoError(t, store.Record(1, 0, OutcomeDraw, now))
	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved Stats
	require.NoError(t, json.Unmarshal(contents, &saved))
	assert.EqualValues(t, 1, saved.Draws)
}

func TestStoreConcurrentRecords(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "stats.json"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(turns uint32) {
			defer wg.Done()
			assert.NoError(t, store.Record(turns, 1, OutcomeWin, now))
		}(uint32(i + 1))
	}
	wg.Wait()

	snapshot := store.Snapshot()
	assert.EqualValues(t, 20, snapshot.TotalGames)
	assert.EqualValues(t, 20, snapshot.Wins)
	assert.EqualValues(t, 210, snapshot.TotalTurns)
	assert.EqualValues(t, 1, snapshot.ShortestGame)
	assert.EqualValues(t, 20, snapshot.LongestGame)
}
