package main

import (
	"time"

	"github.com/Cameron-Kurotori/safesnake/engine"
	"github.com/Cameron-Kurotori/safesnake/logging"
	"github.com/Cameron-Kurotori/safesnake/sdk"
	"github.com/Cameron-Kurotori/safesnake/stats"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// This function is called when you register your Battlesnake on play.battlesnake.com
// It controls your Battlesnake appearance and author permissions.
func info() sdk.BattlesnakeInfoResponse {
	_ = level.Debug(logging.GlobalLogger()).Log("msg", "INFO")
	return sdk.BattlesnakeInfoResponse{
		APIVersion: "1",
		Author:     "cameron-kurotori",
		Color:      "#0f3d17",
		Head:       "tiger-king",
		Tail:       "tiger-tail",
		Version:    "0.2.0",
	}
}

type game struct {
	tracker *stats.Tracker
	store   *stats.Store
	now     func() time.Time
}

// start is called everytime your Battlesnake is entered into a game.
func (g *game) start(state sdk.GameState) {
	_ = level.Info(state.Logger(logging.GlobalLogger())).Log("msg", "START")
	g.tracker.Start(state.Game.ID, state.You.Length, g.now())
}

// end is called when a game your Battlesnake was in has ended.
func (g *game) end(state sdk.GameState) {
	logger := state.Logger(logging.GlobalLogger())

	turns := state.Turn
	finalLength := state.You.Length
	food := uint32(0)
	if active, ok := g.tracker.Finish(state.Game.ID); ok {
		if active.LastTurn > turns {
			turns = active.LastTurn
		}
		food = active.FoodEaten(finalLength)
	}
	outcome := stats.OutcomeOf(state)

	_ = level.Info(logger).Log("msg", "END", "outcome", outcome, "turns", turns, "food_eaten", food)
	if err := g.store.Record(uint32(turns), food, outcome, g.now()); err != nil {
		_ = level.Error(logger).Log("msg", "failed to save stats", "err", err)
	}
}

// move is called on every turn of a game and returns the direction chosen by the engine.
func (g *game) move(state sdk.GameState) sdk.BattlesnakeMoveResponse {
	start := g.now()
	logger := state.Logger(logging.GlobalLogger())
	g.tracker.Touch(state.Game.ID, state.Turn, state.You.Length, start)

	decision := engine.Evaluate(engine.NewTurnContext(state))
	for _, c := range decision.Candidates {
		_ = level.Debug(log.With(logger, "dir", c.Direction)).Log(
			"msg", "heuristics calculated",
			"coord_x", c.Coord.X,
			"coord_y", c.Coord.Y,
			"safety", int(c.Safety),
			"desirability", int(c.Desirability),
			"final_weight", decision.Weights.Combine(c),
			"health", state.You.Health,
		)
	}
	if decision.Fallback {
		_ = level.Warn(logger).Log("msg", "Absolutely no possible moves", "move", decision.Direction)
	}

	err := level.Info(logger).Log("msg", "making move", "move", decision.Direction, "safety_weight", decision.Weights.Safety, "food_weight", decision.Weights.Food, "took_ms", g.now().Sub(start).Milliseconds())
	if err != nil {
		_ = level.Error(logger).Log("msg", "erorr while logging", "err", err)
	}

	return sdk.BattlesnakeMoveResponse{
		Move: decision.Direction.Move(),
	}
}

type statsResponse struct {
	stats.Stats
	WinRate          float64 `json:"win_rate"`
	AverageTurns     float64 `json:"average_turns"`
	AverageFoodEaten float64 `json:"average_food_eaten"`
	ActiveGames      int     `json:"active_games"`
}

func (g *game) summary() statsResponse {
	snapshot := g.store.Snapshot()
	return statsResponse{
		Stats:            snapshot,
		WinRate:          snapshot.WinRate(),
		AverageTurns:     snapshot.AverageTurns(),
		AverageFoodEaten: snapshot.AverageFoodEaten(),
		ActiveGames:      g.tracker.Len(),
	}
}
