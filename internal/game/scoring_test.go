package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreWordKnownValues(t *testing.T) {
	cases := map[string]int{
		"cat":    2,  // base 1 + floor(5*0.25)
		"cats":   3,  // base 2 + floor(6*0.25)
		"birds":  6,  // base 4 + floor(8*0.25)
		"quartz": 13, // base 7 + floor(24*0.25)
	}
	for word, want := range cases {
		assert.Equal(t, want, ScoreWord(word), word)
	}
}

func TestScoreWordShortWordsScoreZeroBase(t *testing.T) {
	assert.Equal(t, 0, ScoreWord(""))
	assert.Equal(t, 0, ScoreWord("a"))  // 1 letter point, bonus floors to 0
	assert.Equal(t, 2, ScoreWord("ox")) // base 0 + floor(9*0.25)
}

func TestScoreWordLongTier(t *testing.T) {
	// Any word of 7+ letters uses the 11-point base.
	assert.Equal(t, 11+1, ScoreWord("entente")) // letters sum to 7
}

func TestScoreWordIsCaseInsensitiveAndDeterministic(t *testing.T) {
	assert.Equal(t, ScoreWord("cat"), ScoreWord("CAT"))
	for i := 0; i < 10; i++ {
		assert.Equal(t, 13, ScoreWord("quartz"))
	}
}

func TestScoreWordUnknownCharactersContributeZero(t *testing.T) {
	// "ca7" has length 3 (base 1); only c and a add letter points.
	assert.Equal(t, 1+1, ScoreWord("ca7"))
}
