// Package engine picks a single move for the controlled snake from one turn's state.
//
// Every call evaluates the four neighbours of the head from scratch: a layered safety
// score, a food desirability score, and a health-weighted combination of the two. The
// package keeps no state and does no I/O, so it is safe to call from any number of
// goroutines.
package engine

import "github.com/Cameron-Kurotori/safesnake/sdk"

// TurnContext is everything needed to decide one move. It is treated as read only.
type TurnContext struct {
	Board sdk.Board
	You   sdk.Battlesnake
	Turn  int
}

func NewTurnContext(state sdk.GameState) TurnContext {
	return TurnContext{
		Board: state.Board,
		You:   state.You,
		Turn:  state.Turn,
	}
}

// Decision is the full outcome of one evaluation, kept so callers can log why a
// direction was chosen.
type Decision struct {
	Direction  sdk.Direction
	Candidates [4]Candidate
	Weights    Weights
	// Fallback is set when no candidate survived and FallbackDirection was used.
	Fallback bool
}

func Evaluate(turn TurnContext) Decision {
	candidates := Candidates(turn.You.Head)
	ScoreSafety(&candidates, turn)
	ScoreDesirability(&candidates, turn)

	weights := WeightsFor(turn.You.Health)
	chosen, ok := Select(candidates, weights)
	return Decision{
		Direction:  chosen.Direction,
		Candidates: candidates,
		Weights:    weights,
		Fallback:   !ok,
	}
}

// DecideMove returns the direction to move this turn. It always returns one of
// sdk.Directions, even when every move is fatal.
func DecideMove(turn TurnContext) sdk.Direction {
	return Evaluate(turn).Direction
}
