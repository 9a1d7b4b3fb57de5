package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWordFilter(t *testing.T) {
	assert.Equal(t, "cat", normalizeWord("  CAT \r"))
	assert.Equal(t, "zebra", normalizeWord("zebra"))

	assert.Equal(t, "", normalizeWord("at"))      // too short
	assert.Equal(t, "", normalizeWord("quartz"))  // too long
	assert.Equal(t, "", normalizeWord("ca7"))     // non-alphabetic
	assert.Equal(t, "", normalizeWord("it's"))    // punctuation
	assert.Equal(t, "", normalizeWord(""))        // blank line
	assert.Equal(t, "", normalizeWord("   \t  ")) // whitespace only
}

func TestNormalizeLines(t *testing.T) {
	got := normalizeLines("cat\nDOG\n\nat\nquartz\nbird\n")
	assert.Equal(t, []string{"cat", "dog", "bird"}, got)
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	require.NoError(t, Load())
	assert.Greater(t, Count(), 0)

	d := Dictionary()
	require.NotNil(t, d)
	assert.True(t, d.Exists("cat"))
	assert.True(t, d.Exists("bird"))
	assert.True(t, d.Exists("lion"))
	// Filtered out at load time: outside the 3–5 letter range.
	assert.False(t, d.Exists("at"))
	assert.False(t, d.Exists("quartz"))
}
