package engine

import "github.com/Cameron-Kurotori/safesnake/sdk"

// LowHealthThreshold is the health below which food outweighs safety.
const LowHealthThreshold = 30

// FallbackDirection is returned when every move is fatal.
var FallbackDirection = sdk.Direction_Up

type Weights struct {
	Safety int
	Food   int
}

var (
	SafetyFirst = Weights{Safety: 3, Food: 1}
	FoodFirst   = Weights{Safety: 1, Food: 3}
)

func WeightsFor(health int32) Weights {
	if health < LowHealthThreshold {
		return FoodFirst
	}
	return SafetyFirst
}

func (w Weights) Combine(c Candidate) int {
	return int(c.Safety)*w.Safety + int(c.Desirability)*w.Food
}

// Select picks the highest combined score among candidates that are not fatal. Candidates
// are visited in sdk.Directions order and only a strictly better score replaces the
// current pick. ok is false when every candidate is fatal, in which case the returned
// candidate points at FallbackDirection.
func Select(candidates [4]Candidate, weights Weights) (best Candidate, ok bool) {
	bestScore := -1
	for _, c := range candidates {
		if c.Safety == 0 {
			continue
		}
		if score := weights.Combine(c); score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < 0 {
		for _, c := range candidates {
			if c.Direction == FallbackDirection {
				return c, false
			}
		}
		return Candidate{Direction: FallbackDirection}, false
	}
	return best, true
}
