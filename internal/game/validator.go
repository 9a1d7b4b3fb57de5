// internal/game/validator.go
//
// Path validation for word submissions. Pure and side-effect-free: duplicate
// tracking and round-activity checks are layered on top by the room engine.

package game

import (
	"strings"

	"github.com/wordforge/go-server/internal/trie"
)

// ValidateWord reports whether path is a legal trace on grid that spells a
// dictionary word:
//  1. every consecutive pair of coordinates must be adjacent,
//  2. every coordinate must be in bounds,
//  3. the concatenated (lowercased) letters must exist in dict.
func ValidateWord(grid Grid, path []Coord, dict *trie.Trie) bool {
	if !IsAdjacentPath(path) {
		return false
	}

	var word strings.Builder
	for _, c := range path {
		if !grid.InBounds(c) {
			return false
		}
		word.WriteString(strings.ToLower(grid[c.Row][c.Col]))
	}

	return dict.Exists(word.String())
}
