package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wordforge/go-server/internal/trie"
)

// testGrid is the fixed board used across validator tests:
//
//	C A T X
//	D O G X
//	B I R D
//	L I O N
func testGrid() Grid {
	return Grid{
		{"C", "A", "T", "X"},
		{"D", "O", "G", "X"},
		{"B", "I", "R", "D"},
		{"L", "I", "O", "N"},
	}
}

func testDict() *trie.Trie {
	tr := trie.New()
	for _, w := range []string{"cat", "dog", "bird", "lion", "coco"} {
		tr.Insert(w)
	}
	return tr
}

func TestValidateWordAcceptsAdjacentDictionaryPath(t *testing.T) {
	grid, dict := testGrid(), testDict()

	// CAT along the top row.
	assert.True(t, ValidateWord(grid, []Coord{{0, 0}, {0, 1}, {0, 2}}, dict))
	// DOG along the second row.
	assert.True(t, ValidateWord(grid, []Coord{{1, 0}, {1, 1}, {1, 2}}, dict))
	// LION along the bottom row.
	assert.True(t, ValidateWord(grid, []Coord{{3, 0}, {3, 1}, {3, 2}, {3, 3}}, dict))
}

func TestValidateWordRejectsNonAdjacentPair(t *testing.T) {
	grid, dict := testGrid(), testDict()

	// B(2,0) I(2,1) R(2,2) D(2,3) is "bird", but skipping a column breaks it
	// regardless of dictionary membership.
	assert.True(t, ValidateWord(grid, []Coord{{2, 0}, {2, 1}, {2, 2}, {2, 3}}, dict))
	assert.False(t, ValidateWord(grid, []Coord{{2, 0}, {2, 2}, {2, 2}, {2, 3}}, dict))
	assert.False(t, ValidateWord(grid, []Coord{{0, 0}, {0, 2}}, dict))
}

func TestValidateWordRejectsOutOfBounds(t *testing.T) {
	grid, dict := testGrid(), testDict()

	assert.False(t, ValidateWord(grid, []Coord{{0, 3}, {0, 4}}, dict))
	assert.False(t, ValidateWord(grid, []Coord{{-1, 0}, {0, 0}}, dict))
}

func TestValidateWordRejectsNonDictionaryWord(t *testing.T) {
	grid, dict := testGrid(), testDict()

	// "cao" is a legal trace but not a word.
	assert.False(t, ValidateWord(grid, []Coord{{0, 0}, {0, 1}, {1, 1}}, dict))
}

func TestValidateWordAllowsRevisitingCells(t *testing.T) {
	grid, dict := testGrid(), testDict()

	// "coco" bounces C(0,0) ↔ O(1,1) twice; letter reuse is permitted.
	assert.True(t, ValidateWord(grid, []Coord{{0, 0}, {1, 1}, {0, 0}, {1, 1}}, dict))
}

func TestValidateWordLowercasesGridLetters(t *testing.T) {
	dict := testDict()
	grid := Grid{
		{"c", "a"},
		{"t", "x"},
	}

	assert.True(t, ValidateWord(grid, []Coord{{0, 0}, {0, 1}, {1, 0}}, dict))
}
