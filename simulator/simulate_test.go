package main

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Cameron-Kurotori/safesnake/sdk"
	"github.com/go-kit/log"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTestSimulator(client BattlesnakeClient, settings Settings, seed uint64) *simulator {
	return &simulator{
		client:   client,
		rng:      rand.New(rand.NewSource(seed)),
		logger:   log.NewNopLogger(),
		settings: settings,
	}
}

func TestEliminated(t *testing.T) {
	board := sdk.Board{Width: 5, Height: 5}
	me := sdk.Battlesnake{ID: "me", Health: 50, Body: []sdk.Coord{{X: 2, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 0}}, Head: sdk.Coord{X: 2, Y: 2}, Length: 3}
	short := sdk.Battlesnake{ID: "short", Health: 50, Body: []sdk.Coord{{X: 2, Y: 2}, {X: 3, Y: 2}}, Head: sdk.Coord{X: 2, Y: 2}, Length: 2}
	wall := sdk.Battlesnake{ID: "wall", Health: 50, Body: []sdk.Coord{{X: 1, Y: 3}, {X: 2, Y: 3}, {X: 3, Y: 3}}, Head: sdk.Coord{X: 1, Y: 3}, Length: 3}

	type testCase struct {
		name     string
		snake    sdk.Battlesnake
		moved    []sdk.Battlesnake
		expected string
	}
	test := func(tc testCase) func(*testing.T) {
		return func(t *testing.T) {
			assert.Equal(t, tc.expected, eliminated(tc.snake, tc.moved, board))
		}
	}

	offBoard := me
	offBoard.Head = sdk.Coord{X: 5, Y: 2}
	starving := me
	starving.Health = 0
	intoWall := me
	intoWall.Head = sdk.Coord{X: 2, Y: 3}
	intoWall.Body = []sdk.Coord{{X: 2, Y: 3}, {X: 2, Y: 2}, {X: 2, Y: 1}}
	intoSelf := sdk.Battlesnake{ID: "loop", Health: 50, Body: []sdk.Coord{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 1, Y: 1}}, Head: sdk.Coord{X: 1, Y: 1}, Length: 5}

	testCases := []testCase{
		{"survives", me, []sdk.Battlesnake{me}, ""},
		{"out-of-bounds", offBoard, []sdk.Battlesnake{offBoard}, "out-of-bounds"},
		{"starvation", starving, []sdk.Battlesnake{starving}, "starvation"},
		{"body", intoWall, []sdk.Battlesnake{intoWall, wall}, "body-collision"},
		{"self", intoSelf, []sdk.Battlesnake{intoSelf}, "self-collision"},
		{"head-on-longer-wins", me, []sdk.Battlesnake{me, short}, ""},
		{"head-on-shorter-loses", short, []sdk.Battlesnake{me, short}, "head-collision"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, test(tc))
	}
}

func TestSpawnFood(t *testing.T) {
	settings := DefaultSettings()
	settings.MinimumFood = 3
	settings.FoodSpawnChance = 0
	sim := newTestSimulator(NewLocalClient(), settings, 1)

	board := sdk.Board{
		Width:  3,
		Height: 3,
		Snakes: []sdk.Battlesnake{{ID: "a", Health: 10, Body: []sdk.Coord{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}}},
	}
	sim.spawnFood(&board)
	require.Len(t, board.Food, 3)
	for _, f := range board.Food {
		assert.False(t, board.Occupied(f), "%v", f)
		assert.False(t, board.OutOfBounds(f), "%v", f)
	}

	// only three free cells are left
	settings.MinimumFood = 10
	sim.settings = settings
	sim.spawnFood(&board)
	assert.Len(t, board.Food, 6)
}

func TestRemoveFood(t *testing.T) {
	food := []sdk.Coord{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	assert.Equal(t, []sdk.Coord{{X: 1, Y: 1}, {X: 3, Y: 3}}, removeFood(food, sdk.Coord{X: 2, Y: 2}))
	assert.Equal(t, []sdk.Coord{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}, food, "input is not modified")
	assert.Equal(t, food, removeFood(food, sdk.Coord{X: 0, Y: 0}))
}

func TestSimulateLocal(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxTurns = 200
	recorder := RecordStates(NewLocalClient())
	sim := newTestSimulator(recorder, settings, 42)

	result, err := sim.Simulate()
	require.NoError(t, err)

	assert.NotEmpty(t, result.GameID)
	assert.LessOrEqual(t, result.Turns, settings.MaxTurns)
	assert.NotEmpty(t, recorder.States)
	if result.Turns < settings.MaxTurns {
		assert.LessOrEqual(t, len(result.Final.Board.Snakes), 1)
	}
	for _, snake := range result.Final.Board.Snakes {
		assert.False(t, result.Final.Board.OutOfBounds(snake.Head))
		assert.Greater(t, snake.Health, int32(0))
	}
}

func TestSimulateIsReproducible(t *testing.T) {
	settings := DefaultSettings()
	settings.Snakes = 2
	settings.MaxTurns = 100

	run := func() []sdk.Coord {
		recorder := RecordStates(NewLocalClient())
		_, err := newTestSimulator(recorder, settings, 7).Simulate()
		require.NoError(t, err)
		heads := make([]sdk.Coord, len(recorder.States))
		for i, state := range recorder.States {
			heads[i] = state.You.Head
		}
		return heads
	}
	assert.Equal(t, run(), run())
}

func TestSimulateNoRoom(t *testing.T) {
	settings := DefaultSettings()
	settings.Width, settings.Height = 3, 3
	settings.Snakes = 4
	_, err := newTestSimulator(NewLocalClient(), settings, 1).Simulate()
	assert.ErrorIs(t, err, errNoRoom)
}

func TestArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games", "game.parquet")
	settings := DefaultSettings()
	settings.Snakes = 2
	settings.MaxTurns = 20
	sim := newTestSimulator(NewLocalClient(), settings, 3)
	sim.archive = newArchiveWriter(path)

	result, err := sim.Simulate()
	require.NoError(t, err)
	require.NoError(t, sim.archive.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	stat, err := f.Stat()
	require.NoError(t, err)
	pf, err := parquet.OpenFile(f, stat.Size())
	require.NoError(t, err)

	reader := parquet.NewGenericReader[TurnRow](pf)
	defer reader.Close()
	require.EqualValues(t, result.Turns, reader.NumRows())

	rows := make([]TurnRow, reader.NumRows())
	n, err := reader.Read(rows)
	if err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(rows), n)
	assert.Equal(t, result.GameID, rows[0].GameID)
	assert.EqualValues(t, 0, rows[0].Turn)
	assert.EqualValues(t, 11, rows[0].Width)
	require.Len(t, rows[0].Snakes, 2)
	for _, snake := range rows[0].Snakes {
		assert.Contains(t, []string{"up", "down", "left", "right"}, snake.Move)
		assert.Len(t, snake.BodyX, 3)
	}
}

func TestNilArchive(t *testing.T) {
	var a *archiveWriter
	assert.NoError(t, a.Write(sdk.GameState{}, nil))
	assert.NoError(t, a.Close())
	assert.Nil(t, newArchiveWriter(""))
}

func TestRemoteClient(t *testing.T) {
	var (
		mu    sync.Mutex
		calls = map[string]int{}
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls[r.URL.Path]++
		mu.Unlock()
		switch r.URL.Path {
		case "/":
			_ = json.NewEncoder(w).Encode(sdk.BattlesnakeInfoResponse{APIVersion: "1", Author: "test"})
		case "/move":
			assert.Equal(t, http.MethodPost, r.Method)
			var state sdk.GameState
			if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(sdk.BattlesnakeMoveResponse{Move: sdk.BattlesnakeMove_Left})
		case "/start", "/end":
		default:
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	host, port, err := net.SplitHostPort(server.Listener.Addr().String())
	require.NoError(t, err)
	client := NewClient(host, port, time.Second)

	info, err := client.Info()
	require.NoError(t, err)
	assert.Equal(t, "test", info.Author)

	require.NoError(t, client.Start(sdk.GameState{}))
	move, err := client.Move(sdk.GameState{Turn: 3})
	require.NoError(t, err)
	assert.Equal(t, sdk.BattlesnakeMove_Left, move.Move)
	require.NoError(t, client.End(sdk.GameState{}))

	mu.Lock()
	assert.Equal(t, map[string]int{"/": 1, "/start": 1, "/move": 1, "/end": 1}, calls)
	mu.Unlock()
}

func TestRemoteClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	host, port, err := net.SplitHostPort(server.Listener.Addr().String())
	require.NoError(t, err)
	client := NewClient(host, port, time.Second)
	_, err = client.Move(sdk.GameState{})
	assert.ErrorContains(t, err, "status_code=500")
}
