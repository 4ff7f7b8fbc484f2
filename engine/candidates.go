package engine

import "github.com/Cameron-Kurotori/safesnake/sdk"

// Score is a bounded heuristic value in [0, MaxScore]. Safety and desirability share the
// same scale so they can be weighted against each other directly.
type Score int

const MaxScore Score = 255

// saturatingSub subtracts penalty from s, flooring at zero.
func saturatingSub(s, penalty Score) Score {
	return max(0, s-penalty)
}

func clampScore(s Score) Score {
	return min(MaxScore, max(0, s))
}

// Candidate is one possible next head position.
type Candidate struct {
	Direction    sdk.Direction
	Coord        sdk.Coord
	Safety       Score
	Desirability Score
}

// Candidates returns the four neighbours of head in sdk.Directions order. Nothing is
// filtered here: off-board neighbours are kept and scored down to zero later.
func Candidates(head sdk.Coord) [4]Candidate {
	var candidates [4]Candidate
	for i, dir := range sdk.Directions {
		candidates[i] = Candidate{
			Direction:    dir,
			Coord:        head.Add(sdk.Coord(dir)),
			Safety:       MaxScore,
			Desirability: 0,
		}
	}
	return candidates
}
