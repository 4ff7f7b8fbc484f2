package engine

import "github.com/Cameron-Kurotori/safesnake/sdk"

const (
	// EdgeMargin is how many outer rows/columns count as "near the edge".
	EdgeMargin  = 2
	EdgePenalty = Score(16)

	HeadProximityWeight = 8
	BodyProximityWeight = 8
)

type safetyPass func(c sdk.Coord, turn TurnContext, score Score) Score

var safetyPasses = []safetyPass{
	collisionPass,
	edgePass,
	headProximityPass,
	bodyProximityPass,
}

// ScoreSafety runs every safety pass over the candidates. A candidate that reaches zero
// is dead and no later pass touches it.
func ScoreSafety(candidates *[4]Candidate, turn TurnContext) {
	for _, pass := range safetyPasses {
		for i := range candidates {
			if candidates[i].Safety == 0 {
				continue
			}
			candidates[i].Safety = pass(candidates[i].Coord, turn, candidates[i].Safety)
		}
	}
}

// 0 when moving off the board or into any body segment (own body included)
func collisionPass(c sdk.Coord, turn TurnContext, score Score) Score {
	if turn.Board.OutOfBounds(c) || turn.Board.Occupied(c) {
		return 0
	}
	if turn.You.Alive() && sdk.CoordSliceContains(c, turn.You.Body) {
		return 0
	}
	return score
}

func edgePass(c sdk.Coord, turn TurnContext, score Score) Score {
	if nearEdge(c, turn.Board) {
		return saturatingSub(score, EdgePenalty)
	}
	return score
}

func nearEdge(c sdk.Coord, board sdk.Board) bool {
	return c.X < EdgeMargin || c.X >= board.Width-EdgeMargin ||
		c.Y < EdgeMargin || c.Y >= board.Height-EdgeMargin
}

// larger boards make a nearby head proportionally more dangerous
func headProximityPass(c sdk.Coord, turn TurnContext, score Score) Score {
	boardScale := (turn.Board.Width + turn.Board.Height) / 2
	for _, snake := range turn.Board.OtherSnakes(turn.You.ID) {
		score = saturatingSub(score, inverseSquarePenalty(HeadProximityWeight*boardScale, c.Manhattan(snake.Head)))
	}
	return score
}

func bodyProximityPass(c sdk.Coord, turn TurnContext, score Score) Score {
	for _, snake := range turn.Board.OtherSnakes(turn.You.ID) {
		for _, segment := range snake.Body {
			score = saturatingSub(score, inverseSquarePenalty(BodyProximityWeight, c.Manhattan(segment)))
		}
	}
	return score
}

func inverseSquarePenalty(weight, distance int) Score {
	distance = max(1, distance)
	return Score(weight / (distance * distance))
}
