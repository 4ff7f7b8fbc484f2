package engine

import "github.com/Cameron-Kurotori/safesnake/sdk"

// NearestFood returns the food closest to from. The first food in the list wins ties.
func NearestFood(from sdk.Coord, food []sdk.Coord) (sdk.Coord, bool) {
	if len(food) == 0 {
		return sdk.Coord{}, false
	}
	nearest := food[0]
	best := from.Manhattan(nearest)
	for _, f := range food[1:] {
		if d := from.Manhattan(f); d < best {
			nearest, best = f, d
		}
	}
	return nearest, true
}

// ScoreDesirability rewards candidates that end up close to the food nearest the
// current head: MaxScore / (1 + distance). Dead candidates are skipped.
func ScoreDesirability(candidates *[4]Candidate, turn TurnContext) {
	target, ok := NearestFood(turn.You.Head, turn.Board.Food)
	if !ok {
		return
	}
	for i := range candidates {
		if candidates[i].Safety == 0 {
			continue
		}
		d := candidates[i].Coord.Manhattan(target)
		candidates[i].Desirability = clampScore(MaxScore / Score(1+d))
	}
}
