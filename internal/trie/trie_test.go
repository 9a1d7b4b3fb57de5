package trie

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndExists(t *testing.T) {
	tr := New()
	tr.Insert("cat")
	tr.Insert("cats")
	tr.Insert("dog")

	assert.True(t, tr.Exists("cat"))
	assert.True(t, tr.Exists("cats"))
	assert.True(t, tr.Exists("dog"))

	// "ca" is a prefix of inserted words but was never inserted itself.
	assert.False(t, tr.Exists("ca"))
	assert.False(t, tr.Exists("catsy"))
	assert.False(t, tr.Exists("bird"))
	assert.False(t, tr.Exists(""))
}

func TestLookupsAreCaseInsensitive(t *testing.T) {
	tr := New()
	tr.Insert("Lion")

	assert.True(t, tr.Exists("lion"))
	assert.True(t, tr.Exists("LION"))
	assert.True(t, tr.IsPrefix("Li"))
}

func TestIsPrefix(t *testing.T) {
	tr := New()
	tr.Insert("bird")

	assert.True(t, tr.IsPrefix(""))
	assert.True(t, tr.IsPrefix("b"))
	assert.True(t, tr.IsPrefix("bir"))
	assert.True(t, tr.IsPrefix("bird"))
	assert.False(t, tr.IsPrefix("birds"))
	assert.False(t, tr.IsPrefix("x"))
}

func TestAcceptsWordsOfAnyLength(t *testing.T) {
	tr := New()
	tr.Insert("a")
	tr.Insert("extraordinarily")

	assert.True(t, tr.Exists("a"))
	assert.True(t, tr.Exists("extraordinarily"))
}

func TestSerializeRoundTrip(t *testing.T) {
	tr := New()
	inserted := []string{"cat", "cats", "dog", "bird", "lion"}
	for _, w := range inserted {
		tr.Insert(w)
	}

	restored := Deserialize(tr.Serialize())

	for _, w := range inserted {
		assert.True(t, restored.Exists(w), w)
	}
	for _, w := range []string{"ca", "do", "birds", "tiger"} {
		assert.False(t, restored.Exists(w), w)
	}
	assert.True(t, restored.IsPrefix("bi"))
}

func TestSerializedFormIsJSONCompatible(t *testing.T) {
	tr := New()
	tr.Insert("ox")

	raw, err := json.Marshal(tr.Serialize())
	require.NoError(t, err)

	var decoded SerializedNode
	require.NoError(t, json.Unmarshal(raw, &decoded))

	restored := Deserialize(&decoded)
	assert.True(t, restored.Exists("ox"))
	assert.False(t, restored.Exists("o"))
}

func TestDeserializeNil(t *testing.T) {
	tr := Deserialize(nil)
	assert.False(t, tr.Exists("anything"))
	assert.True(t, tr.IsPrefix(""))
}
