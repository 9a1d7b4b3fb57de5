// internal/game/scoring.go
//
// Scoring for accepted words: a length-tier base score plus a fractional
// bonus from Scrabble-style letter values. Deterministic and pure, with no
// dependency on room or round state.

package game

import "strings"

// letterPoints holds Scrabble-style values for a–z, indexed by letter offset.
var letterPoints = [26]int{
	1, 3, 3, 2, 1, 4, 2, 4, 1, 8, 5, 1, 3,
	1, 1, 3, 10, 1, 1, 1, 1, 4, 4, 8, 4, 10,
}

// scoreByLength is the base score tier for a word of length n.
func scoreByLength(n int) int {
	switch {
	case n < 3:
		return 0
	case n == 3:
		return 1
	case n == 4:
		return 2
	case n == 5:
		return 4
	case n == 6:
		return 7
	default:
		return 11
	}
}

// ScoreWord maps a word to its score: length-tier base plus a quarter of the
// summed letter points, rounded down. Characters outside a-z contribute zero.
func ScoreWord(word string) int {
	word = strings.ToLower(word)

	bonus := 0
	for _, r := range word {
		if r >= 'a' && r <= 'z' {
			bonus += letterPoints[r-'a']
		}
	}

	return scoreByLength(len(word)) + bonus/4
}
