package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGridDimensionsAndAlphabet(t *testing.T) {
	g := NewGrid(5, func(n int) int { return 7 % n })

	assert.Equal(t, 5, g.Size())
	for _, row := range g {
		assert.Len(t, row, 5)
		for _, letter := range row {
			assert.Len(t, letter, 1)
			assert.GreaterOrEqual(t, letter[0], byte('A'))
			assert.LessOrEqual(t, letter[0], byte('Z'))
		}
	}
}

func TestNewGridIsDeterministicForFixedSource(t *testing.T) {
	fixed := func(int) int { return 0 }
	assert.Equal(t, NewGrid(4, fixed), NewGrid(4, fixed))
	assert.Equal(t, "A", NewGrid(4, fixed)[0][0])
}

func TestInBounds(t *testing.T) {
	g := NewGrid(4, func(int) int { return 0 })

	assert.True(t, g.InBounds(Coord{0, 0}))
	assert.True(t, g.InBounds(Coord{3, 3}))
	assert.False(t, g.InBounds(Coord{-1, 0}))
	assert.False(t, g.InBounds(Coord{0, -1}))
	assert.False(t, g.InBounds(Coord{4, 0}))
	assert.False(t, g.InBounds(Coord{0, 4}))
}

func TestAreNeighbors(t *testing.T) {
	center := Coord{1, 1}

	// All 8 surrounding cells are neighbors.
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			other := Coord{1 + dr, 1 + dc}
			if dr == 0 && dc == 0 {
				assert.False(t, AreNeighbors(center, other), "self-loop")
				continue
			}
			assert.True(t, AreNeighbors(center, other), "%+v", other)
		}
	}

	assert.False(t, AreNeighbors(center, Coord{1, 3}))
	assert.False(t, AreNeighbors(center, Coord{3, 1}))
	assert.False(t, AreNeighbors(Coord{0, 0}, Coord{2, 2}))
}

func TestIsAdjacentPath(t *testing.T) {
	assert.True(t, IsAdjacentPath([]Coord{{0, 0}}))
	assert.True(t, IsAdjacentPath([]Coord{{0, 0}, {0, 1}, {1, 2}}))
	assert.False(t, IsAdjacentPath([]Coord{{0, 0}, {0, 2}}))
	assert.False(t, IsAdjacentPath([]Coord{{0, 0}, {0, 0}}))

	// Bouncing between two adjacent cells is allowed: revisits are legal.
	assert.True(t, IsAdjacentPath([]Coord{{0, 0}, {0, 1}, {0, 0}, {0, 1}}))
}
