// internal/words/words.go
//
// Dictionary loading for the room server.
//
// Responsibilities:
//   - Load the word list from an environment-provided file or fall back to
//     the embedded default list.
//   - Filter entries down to what the game accepts: 3–5 lowercase ASCII
//     letters.
//   - Build the prefix-tree index consumed by the path validator.
//
// Initialization behavior (Load):
//   1. If WORDS_FILE is set, read one word per line from that path.
//   2. Otherwise use the embedded `default_words.txt`.
//
// Environment variables:
//   WORDS_FILE=/path/to/words.txt
//
// Constraints:
//   • Entries are lowercased and trimmed before filtering.
//   • Entries outside 3–5 letters, or containing non a–z characters, are
//     dropped silently. Filtering is the loader's job; the trie itself
//     accepts anything.
//   • Initialization runs once (sync.Once).

package words

import (
	"bufio"
	_ "embed"
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/wordforge/go-server/internal/trie"
)

//go:embed default_words.txt
var embeddedWords string

const (
	minWordLen = 3
	maxWordLen = 5
)

var (
	loadOnce sync.Once
	dict     *trie.Trie
	count    int
	loadErr  error
)

// Load reads and indexes the dictionary exactly once.
// Returns an error if the resulting word list is empty.
func Load() error {
	loadOnce.Do(func() {
		var list []string

		if path := os.Getenv("WORDS_FILE"); path != "" {
			var err error
			list, err = readWordFile(path)
			if err != nil {
				loadErr = err
				return
			}
		} else {
			list = normalizeLines(embeddedWords)
		}

		if len(list) == 0 {
			loadErr = errors.New("words: word list is empty")
			return
		}

		t := trie.New()
		for _, w := range list {
			t.Insert(w)
		}
		dict = t
		count = len(list)
	})
	return loadErr
}

// Dictionary returns the loaded prefix-tree index. Load must have succeeded
// first; the index is immutable after construction.
func Dictionary() *trie.Trie { return dict }

// Count returns the number of words kept after filtering.
func Count() int { return count }

// readWordFile loads one word per line from a file, lowercases, trims, and
// keeps only valid 3–5 letter alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := normalizeWord(sc.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// normalizeLines processes an embedded multiline string into a slice of
// valid lowercase 3–5 letter words.
func normalizeLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w := normalizeWord(line); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// normalizeWord lowercases and trims a raw entry, returning "" if it fails
// the length or alphabet filter.
func normalizeWord(raw string) string {
	w := strings.TrimSpace(strings.ToLower(raw))
	if len(w) < minWordLen || len(w) > maxWordLen || !isAlpha(w) {
		return ""
	}
	return w
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
