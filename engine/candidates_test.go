package engine

import (
	"testing"

	"github.com/Cameron-Kurotori/safesnake/sdk"
	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	candidates := Candidates(sdk.Coord{X: 5, Y: 5})

	expected := [4]Candidate{
		{Direction: sdk.Direction_Up, Coord: sdk.Coord{X: 5, Y: 6}, Safety: MaxScore},
		{Direction: sdk.Direction_Down, Coord: sdk.Coord{X: 5, Y: 4}, Safety: MaxScore},
		{Direction: sdk.Direction_Left, Coord: sdk.Coord{X: 4, Y: 5}, Safety: MaxScore},
		{Direction: sdk.Direction_Right, Coord: sdk.Coord{X: 6, Y: 5}, Safety: MaxScore},
	}
	assert.Equal(t, expected, candidates)
}

func TestCandidatesKeepOffBoard(t *testing.T) {
	candidates := Candidates(sdk.Coord{X: 0, Y: 0})
	assert.Equal(t, sdk.Coord{X: 0, Y: -1}, candidates[1].Coord)
	assert.Equal(t, sdk.Coord{X: -1, Y: 0}, candidates[2].Coord)
}

func TestSaturatingSub(t *testing.T) {
	assert.Equal(t, Score(5), saturatingSub(10, 5))
	assert.Equal(t, Score(0), saturatingSub(10, 10))
	assert.Equal(t, Score(0), saturatingSub(10, 300))
	assert.Equal(t, Score(0), saturatingSub(0, 1))
}
