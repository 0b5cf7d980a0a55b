package board

import "strings"

// Empty is the rune held by a cell that has not been colored.
const Empty = '-'

// Grid is an immutable snapshot of a board's cells.
// The zero value is a grid of size 0 with no valid cells.
type Grid struct {
	size  int
	cells []rune
}

// newGrid creates a size×size grid filled with Empty.
func newGrid(size int) Grid {
	cells := make([]rune, size*size)
	for i := range cells {
		cells[i] = Empty
	}
	return Grid{size: size, cells: cells}
}

// Size returns the number of rows (and columns) in the grid.
func (g Grid) Size() int {
	return g.size
}

// Contains reports whether (row, col) addresses a cell of the grid.
func (g Grid) Contains(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// At returns the rune at (row, col).
// Returns 0 if the position is outside the grid.
func (g Grid) At(row, col int) rune {
	if !g.Contains(row, col) {
		return 0
	}
	return g.cells[row*g.size+col]
}

// Row returns a copy of one row, or nil if row is out of range.
func (g Grid) Row(row int) []rune {
	if row < 0 || row >= g.size {
		return nil
	}
	out := make([]rune, g.size)
	copy(out, g.cells[row*g.size:(row+1)*g.size])
	return out
}

// Rows returns the grid as a freshly allocated matrix.
// Modifying the result does not affect the grid.
func (g Grid) Rows() [][]rune {
	rows := make([][]rune, g.size)
	for r := range rows {
		rows[r] = g.Row(r)
	}
	return rows
}

// Equal reports whether two grids have the same size and contents.
func (g Grid) Equal(other Grid) bool {
	if g.size != other.size {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Format renders the grid with sep between cells and a newline after every row.
func (g Grid) Format(sep string) string {
	var sb strings.Builder
	sb.Grow(g.size * g.size * (1 + len(sep)))

	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if c > 0 {
				sb.WriteString(sep)
			}
			sb.WriteRune(g.cells[r*g.size+c])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String renders the grid with cells separated by single spaces.
func (g Grid) String() string {
	return g.Format(" ")
}

// clone returns a deep copy, used to hand snapshots out of the board.
func (g Grid) clone() Grid {
	cells := make([]rune, len(g.cells))
	copy(cells, g.cells)
	return Grid{size: g.size, cells: cells}
}

// set overwrites a cell in place. Callers validate coordinates first.
func (g Grid) set(row, col int, value rune) {
	g.cells[row*g.size+col] = value
}
