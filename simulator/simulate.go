package main

import (
	"errors"
	"fmt"

	"github.com/Cameron-Kurotori/safesnake/sdk"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

type Settings struct {
	Snakes          int
	Width           int
	Height          int
	MaxTurns        int
	MinimumFood     int
	FoodSpawnChance int
	// Padding is the minimum manhattan distance between starting heads.
	Padding int
}

func DefaultSettings() Settings {
	return Settings{
		Snakes:          4,
		Width:           11,
		Height:          11,
		MaxTurns:        500,
		MinimumFood:     1,
		FoodSpawnChance: 15,
		Padding:         5,
	}
}

type Result struct {
	GameID string
	Turns  int
	// Winner is empty for draws and for games cut off at MaxTurns with several survivors.
	Winner string
	Final  sdk.GameState
}

type simulator struct {
	client   BattlesnakeClient
	rng      *rand.Rand
	logger   log.Logger
	archive  *archiveWriter
	settings Settings
}

var errNoRoom = errors.New("no room left on the board")

func (s *simulator) newNonCollidingSnakeHead(snakes []sdk.Battlesnake) (sdk.Coord, error) {
	for attempt := 0; attempt < 1000; attempt++ {
		c := sdk.Coord{X: s.rng.Intn(s.settings.Width), Y: s.rng.Intn(s.settings.Height)}
		collides := false
		for _, snake := range snakes {
			if snake.Head.Manhattan(c) < s.settings.Padding {
				collides = true
				break
			}
		}
		if !collides {
			return c, nil
		}
	}
	return sdk.Coord{}, errNoRoom
}

func (s *simulator) initSnakes() ([]sdk.Battlesnake, error) {
	snakes := make([]sdk.Battlesnake, 0, s.settings.Snakes)
	for i := 0; i < s.settings.Snakes; i++ {
		head, err := s.newNonCollidingSnakeHead(snakes)
		if err != nil {
			return nil, fmt.Errorf("place snake %d: %w", i, err)
		}
		snakeID := uuid.NewString()
		snakes = append(snakes, sdk.Battlesnake{
			ID:     snakeID,
			Name:   fmt.Sprintf("my-snake-%d", i),
			Health: sdk.MaxHealth,
			Body:   []sdk.Coord{head, head, head},
			Head:   head,
			Length: 3,
		})
		_ = level.Debug(s.logger).Log("msg", "initialized snake", "index", i, "snake_id", snakeID, "head_x", head.X, "head_y", head.Y)
	}
	return snakes, nil
}

// spawnFood tops the board up to the minimum food and then rolls for one extra.
func (s *simulator) spawnFood(board *sdk.Board) {
	free := []sdk.Coord{}
	for x := 0; x < board.Width; x++ {
		for y := 0; y < board.Height; y++ {
			c := sdk.Coord{X: x, Y: y}
			if !board.Occupied(c) && !sdk.CoordSliceContains(c, board.Food) {
				free = append(free, c)
			}
		}
	}
	take := func() {
		i := s.rng.Intn(len(free))
		board.Food = append(board.Food, free[i])
		free = append(free[:i], free[i+1:]...)
	}
	for len(board.Food) < s.settings.MinimumFood && len(free) > 0 {
		take()
	}
	if len(free) > 0 && s.rng.Intn(100) < s.settings.FoodSpawnChance {
		take()
	}
}

// eliminated reports why snake is out of the game after everyone has moved, or "" if
// it survives.
func eliminated(snake sdk.Battlesnake, moved []sdk.Battlesnake, board sdk.Board) string {
	if board.OutOfBounds(snake.Head) {
		return "out-of-bounds"
	}
	if snake.Health <= 0 {
		return "starvation"
	}
	for _, other := range moved {
		if sdk.CoordSliceContains(snake.Head, other.Body[1:]) {
			if other.ID == snake.ID {
				return "self-collision"
			}
			return "body-collision"
		}
	}
	for _, other := range moved {
		if other.ID != snake.ID && other.Head == snake.Head && other.Length >= snake.Length {
			return "head-collision"
		}
	}
	return ""
}

func removeFood(food []sdk.Coord, eaten sdk.Coord) []sdk.Coord {
	for i, f := range food {
		if f == eaten {
			return append(food[:i:i], food[i+1:]...)
		}
	}
	return food
}

func (s *simulator) Simulate() (Result, error) {
	snakes, err := s.initSnakes()
	if err != nil {
		return Result{}, err
	}

	state := sdk.GameState{
		Game: sdk.Game{
			ID:      uuid.NewString(),
			Ruleset: sdk.Ruleset{Name: "standard", Settings: sdk.RulesetSettings{MinimumFood: s.settings.MinimumFood, FoodSpawnChance: s.settings.FoodSpawnChance}},
			Timeout: 500,
			Source:  "simulator",
		},
		Board: sdk.Board{
			Height: s.settings.Height,
			Width:  s.settings.Width,
			Food:   []sdk.Coord{},
			Snakes: snakes,
		},
	}
	logger := log.With(s.logger, "game_id", state.Game.ID)
	s.spawnFood(&state.Board)

	final := map[string]sdk.Battlesnake{}
	for _, snake := range snakes {
		final[snake.ID] = snake
		state.You = snake
		if err := s.client.Start(state); err != nil {
			_ = level.Warn(logger).Log("msg", "start request failed", "snake", snake.Name, "err", err)
		}
	}

	for len(state.Board.Snakes) > 0 && state.Turn < s.settings.MaxTurns {
		if len(snakes) > 1 && len(state.Board.Snakes) == 1 {
			break
		}
		_ = level.Debug(logger).Log("msg", "turn", "turn", state.Turn, "snakes_left", len(state.Board.Snakes))

		moves := make(map[string]sdk.Direction, len(state.Board.Snakes))
		for _, snake := range state.Board.Snakes {
			state.You = snake
			resp, err := s.client.Move(state)
			dir, ok := sdk.MoveToDirection[resp.Move]
			if err != nil || !ok {
				_ = level.Warn(logger).Log("msg", "error obtaining move", "snake", snake.Name, "move", resp.Move, "err", err)
				dir = snake.Direction()
			}
			moves[snake.ID] = dir
		}
		if err := s.archive.Write(state, moves); err != nil {
			return Result{}, err
		}

		moved := make([]sdk.Battlesnake, 0, len(state.Board.Snakes))
		for _, snake := range state.Board.Snakes {
			moved = append(moved, snake.Next(moves[snake.ID], state.Board))
		}
		for _, snake := range moved {
			state.Board.Food = removeFood(state.Board.Food, snake.Head)
		}

		survivors := make([]sdk.Battlesnake, 0, len(moved))
		for _, snake := range moved {
			if reason := eliminated(snake, moved, state.Board); reason != "" {
				_ = level.Debug(logger).Log("msg", "snake eliminated", "snake", snake.Name, "reason", reason, "turn", state.Turn+1)
				snake.Health = 0
				final[snake.ID] = snake
				continue
			}
			final[snake.ID] = snake
			survivors = append(survivors, snake)
		}
		state.Board.Snakes = survivors
		state.Turn++
		s.spawnFood(&state.Board)
	}

	result := Result{GameID: state.Game.ID, Turns: state.Turn}
	if len(state.Board.Snakes) == 1 {
		result.Winner = state.Board.Snakes[0].Name
	}
	for _, snake := range snakes {
		state.You = final[snake.ID]
		if err := s.client.End(state); err != nil {
			_ = level.Warn(logger).Log("msg", "end request failed", "snake", snake.Name, "err", err)
		}
	}
	state.You = sdk.Battlesnake{}
	result.Final = state
	_ = level.Info(logger).Log("msg", "DONE", "turns", result.Turns, "winner", result.Winner)
	return result, nil
}
