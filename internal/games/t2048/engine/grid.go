// Package engine implements the 2048 game-state engine: move resolution,
// transition classification, the tile identity pool and the update queue that
// paces moves against the animation layer.
//
// Everything here is synchronous and single-threaded. The only suspension
// point is the completion barrier, which waits for acknowledgements coming
// from whatever animates the published identities.
package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a row-major cell index: row*cols + col.
type Position int

// NoPosition marks an unused position field.
const NoPosition Position = -1

// Direction is the direction tiles travel in a move.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every direction in a fixed order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// scanOrder describes how a sweep walks the board for a direction.
// The cross axis always ascends. The main axis is walked from the edge tiles
// travel toward, so each tile slides into space already settled by its
// downstream neighbours.
type scanOrder struct {
	horizontal bool // main axis runs along a row
	step       int  // +1 walks the main axis ascending, -1 descending
}

func (d Direction) scan() scanOrder {
	switch d {
	case DirLeft:
		return scanOrder{horizontal: true, step: 1}
	case DirRight:
		return scanOrder{horizontal: true, step: -1}
	case DirUp:
		return scanOrder{horizontal: false, step: 1}
	default:
		return scanOrder{horizontal: false, step: -1}
	}
}

// Grid is an immutable rows x cols board of tile values (0 = empty).
// Methods that change a cell return a new Grid.
type Grid struct {
	rows  int
	cols  int
	cells []int
}

// NewGrid returns an empty grid.
func NewGrid(rows, cols int) Grid {
	return Grid{rows: rows, cols: cols, cells: make([]int, rows*cols)}
}

// GridFromRows builds a grid from a rectangular matrix.
// Every value must be 0 or a power of two no smaller than 2.
func GridFromRows(matrix [][]int) (Grid, error) {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return Grid{}, fmt.Errorf("engine: grid must have at least one row and column")
	}
	g := NewGrid(len(matrix), len(matrix[0]))
	for r, row := range matrix {
		if len(row) != g.cols {
			return Grid{}, fmt.Errorf("engine: row %d has %d columns, want %d", r, len(row), g.cols)
		}
		for c, v := range row {
			if v != 0 && !isTileValue(v) {
				return Grid{}, fmt.Errorf("engine: invalid tile value %d at row %d col %d", v, r, c)
			}
			g.cells[r*g.cols+c] = v
		}
	}
	return g, nil
}

func isTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// Rows returns the number of rows.
func (g Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g Grid) Cols() int { return g.cols }

// Size returns the number of cells.
func (g Grid) Size() int { return len(g.cells) }

// Pos encodes a row/column pair.
func (g Grid) Pos(row, col int) Position {
	return Position(row*g.cols + col)
}

// RowCol decodes a position.
func (g Grid) RowCol(p Position) (row, col int) {
	return int(p) / g.cols, int(p) % g.cols
}

// Contains reports whether p is a cell of this grid.
func (g Grid) Contains(p Position) bool {
	return p >= 0 && int(p) < len(g.cells)
}

// At returns the value at p, or 0 outside the grid.
func (g Grid) At(p Position) int {
	if !g.Contains(p) {
		return 0
	}
	return g.cells[p]
}

// With returns a copy of the grid with p set to v.
func (g Grid) With(p Position, v int) Grid {
	out := g.clone()
	out.cells[p] = v
	return out
}

func (g Grid) clone() Grid {
	cells := make([]int, len(g.cells))
	copy(cells, g.cells)
	return Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Cells returns a copy of the row-major cell values.
func (g Grid) Cells() []int {
	out := make([]int, len(g.cells))
	copy(out, g.cells)
	return out
}

// Matrix returns the grid as rows.
func (g Grid) Matrix() [][]int {
	out := make([][]int, g.rows)
	for r := range out {
		out[r] = make([]int, g.cols)
		copy(out[r], g.cells[r*g.cols:(r+1)*g.cols])
	}
	return out
}

// EmptyPositions returns every empty cell in ascending order.
func (g Grid) EmptyPositions() []Position {
	var out []Position
	for i, v := range g.cells {
		if v == 0 {
			out = append(out, Position(i))
		}
	}
	return out
}

// OccupiedPositions returns every occupied cell in ascending order.
func (g Grid) OccupiedPositions() []Position {
	var out []Position
	for i, v := range g.cells {
		if v != 0 {
			out = append(out, Position(i))
		}
	}
	return out
}

// Occupied returns the number of tiles on the board.
func (g Grid) Occupied() int {
	n := 0
	for _, v := range g.cells {
		if v != 0 {
			n++
		}
	}
	return n
}

// Sum returns the total of all tile values.
func (g Grid) Sum() int {
	total := 0
	for _, v := range g.cells {
		total += v
	}
	return total
}

// MaxTile returns the largest tile value.
func (g Grid) MaxTile() int {
	best := 0
	for _, v := range g.cells {
		best = max(best, v)
	}
	return best
}

// Equal reports whether both grids have the same shape and contents.
func (g Grid) Equal(o Grid) bool {
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// CanMove reports whether any direction would change the board.
func (g Grid) CanMove() bool {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			v := g.cells[r*g.cols+c]
			if v == 0 {
				return true
			}
			if c+1 < g.cols && g.cells[r*g.cols+c+1] == v {
				return true
			}
			if r+1 < g.rows && g.cells[(r+1)*g.cols+c] == v {
				return true
			}
		}
	}
	return false
}

// String renders the grid one row per line, "." for empty cells.
func (g Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < g.cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			v := g.cells[r*g.cols+c]
			if v == 0 {
				b.WriteByte('.')
				continue
			}
			b.WriteString(strconv.Itoa(v))
		}
	}
	return b.String()
}
