// internal/game/grid.go
//
// Letter grid primitives for the word-search engine.
// Defines:
//   - Coord: a (row, col) cell position.
//   - Grid: an n×n matrix of single uppercase letters.
//   - Adjacency helpers used by the path validator.

package game

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Coord is a cell position on the grid.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid is an n×n matrix of single uppercase letters. It is immutable for the
// duration of a round and regenerated at each round start.
type Grid [][]string

// NewGrid fills a size×size grid with letters drawn uniformly from A–Z.
// intn is the random source (rand.IntN in production, fixed in tests so
// grids are deterministic).
func NewGrid(size int, intn func(int) int) Grid {
	g := make(Grid, size)
	for r := 0; r < size; r++ {
		row := make([]string, size)
		for c := 0; c < size; c++ {
			row[c] = string(alphabet[intn(len(alphabet))])
		}
		g[r] = row
	}
	return g
}

// Size returns the grid dimension n.
func (g Grid) Size() int { return len(g) }

// InBounds reports whether c addresses a cell on the grid.
func (g Grid) InBounds(c Coord) bool {
	n := len(g)
	return c.Row >= 0 && c.Row < n && c.Col >= 0 && c.Col < n
}

// AreNeighbors reports whether a and b are 8-directionally adjacent:
// Chebyshev distance 1, never the same cell.
func AreNeighbors(a, b Coord) bool {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	if dr < -1 || dr > 1 || dc < -1 || dc > 1 {
		return false
	}
	return dr != 0 || dc != 0
}

// IsAdjacentPath reports whether every consecutive pair of coordinates in
// path is adjacent. A single-cell path is trivially adjacent. Revisiting a
// cell is permitted; only consecutive-pair adjacency is checked.
func IsAdjacentPath(path []Coord) bool {
	for i := 1; i < len(path); i++ {
		if !AreNeighbors(path[i-1], path[i]) {
			return false
		}
	}
	return true
}
