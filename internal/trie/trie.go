// internal/trie/trie.go
//
// Prefix tree backing dictionary lookups for the word-search engine.
// Responsibilities:
//   - Insert words, creating intermediate nodes as needed.
//   - Answer full-word membership (Exists) and prefix (IsPrefix) queries.
//   - Serialize to / deserialize from a plain nested structure so the index
//     can be shipped to clients or cached.
//
// Notes:
//   • All lookups lowercase their input; stored keys are single lowercase
//     characters.
//   • The loader is responsible for filtering (length, alphabet); the trie
//     itself accepts words of any length.
//   • There is no removal operation: the index is built once at startup and
//     treated as immutable afterwards.

package trie

import "strings"

// node is a single trie node: children keyed by one lowercase character,
// plus a terminal flag marking the end of an inserted word.
type node struct {
	children map[string]*node
	isEnd    bool
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// Trie is a prefix tree over lowercase words.
type Trie struct {
	root *node
}

// New returns an empty Trie.
func New() *Trie {
	return &Trie{root: newNode()}
}

// Insert adds word to the index. Input is lowercased; intermediate nodes are
// created as needed and the final node gets its terminal flag set.
func (t *Trie) Insert(word string) {
	n := t.root
	for _, r := range strings.ToLower(word) {
		ch := string(r)
		next, ok := n.children[ch]
		if !ok {
			next = newNode()
			n.children[ch] = next
		}
		n = next
	}
	n.isEnd = true
}

// Exists reports whether word was inserted in full: every letter must be
// spelled and the final node must be terminal.
func (t *Trie) Exists(word string) bool {
	n := t.walk(word)
	return n != nil && n.isEnd
}

// IsPrefix reports whether some inserted word starts with prefix. The
// terminal flag is irrelevant; reachability is enough.
func (t *Trie) IsPrefix(prefix string) bool {
	return t.walk(prefix) != nil
}

// walk follows the letters of s from the root, returning the node it lands
// on, or nil if the path does not exist.
func (t *Trie) walk(s string) *node {
	n := t.root
	for _, r := range strings.ToLower(s) {
		next, ok := n.children[string(r)]
		if !ok {
			return nil
		}
		n = next
	}
	return n
}

// ---------------------------- serialization --------------------------------

// SerializedNode is the plain nested form of a trie node. It marshals to the
// {"isEnd": bool, "children": {...}} shape used on the wire.
type SerializedNode struct {
	IsEnd    bool                       `json:"isEnd"`
	Children map[string]*SerializedNode `json:"children"`
}

// Serialize converts the trie into its plain nested form. The tree has no
// back-edges, so a straight recursive walk cannot cycle.
func (t *Trie) Serialize() *SerializedNode {
	return serializeNode(t.root)
}

func serializeNode(n *node) *SerializedNode {
	out := &SerializedNode{
		IsEnd:    n.isEnd,
		Children: make(map[string]*SerializedNode, len(n.children)),
	}
	for ch, child := range n.children {
		out.Children[ch] = serializeNode(child)
	}
	return out
}

// Deserialize rebuilds a Trie from its plain nested form.
func Deserialize(data *SerializedNode) *Trie {
	if data == nil {
		return New()
	}
	return &Trie{root: buildNode(data)}
}

func buildNode(d *SerializedNode) *node {
	n := newNode()
	n.isEnd = d.IsEnd
	for ch, child := range d.Children {
		n.children[ch] = buildNode(child)
	}
	return n
}
