package engine

import "fmt"

// Move is the outcome of resolving one direction against a grid.
type Move struct {
	Direction   Direction
	Grid        Grid
	Transitions []Transition // raw, in scan order; see Classify
	Moved       bool
	Merges      int
}

// ResolveMove slides and merges every tile toward dir. The input grid is not
// modified. A move in which no tile changes cell has Moved false and returns
// a grid equal to g.
func ResolveMove(g Grid, dir Direction) (Move, error) {
	if !dir.Valid() {
		return Move{}, fmt.Errorf("engine: unknown direction %d", dir)
	}
	s := newSweep(g, dir)
	crossLen, mainLen := g.rows, g.cols
	if !s.order.horizontal {
		crossLen, mainLen = g.cols, g.rows
	}
	for cross := 0; cross < crossLen; cross++ {
		for i := 0; i < mainLen; i++ {
			main := i
			if s.order.step < 0 {
				main = mainLen - 1 - i
			}
			row, col := cross, main
			if !s.order.horizontal {
				row, col = main, cross
			}
			if err := s.resolveCell(row, col); err != nil {
				return Move{}, err
			}
		}
	}
	return Move{
		Direction:   dir,
		Grid:        s.grid,
		Transitions: s.transitions,
		Moved:       s.moved,
		Merges:      s.merges,
	}, nil
}

// sweep is the working state of a single ResolveMove call.
type sweep struct {
	grid        Grid
	order       scanOrder
	dr, dc      int
	limit       int
	claimed     []bool // cells already produced by a merge this move
	transitions []Transition
	moved       bool
	merges      int
}

func newSweep(g Grid, dir Direction) *sweep {
	s := &sweep{
		grid:    g.clone(),
		order:   dir.scan(),
		claimed: make([]bool, g.Size()),
	}
	// Tiles travel against the scan step.
	if s.order.horizontal {
		s.dc = -s.order.step
		s.limit = g.cols
	} else {
		s.dr = -s.order.step
		s.limit = g.rows
	}
	return s
}

func (s *sweep) resolveCell(row, col int) error {
	g := s.grid
	from := g.Pos(row, col)
	v := g.cells[from]
	if v == 0 {
		return nil
	}
	dr, dc, merged, err := s.travel(v, row, col, 0)
	if err != nil {
		return err
	}
	to := g.Pos(dr, dc)
	switch {
	case to == from:
		s.transitions = append(s.transitions, StaticAt(from))
	case merged:
		g.cells[to] = v * 2
		g.cells[from] = 0
		s.claimed[to] = true
		s.transitions = append(s.transitions, MergeSlideTo(from, to), MergeStaticAt(to))
		s.moved = true
		s.merges++
	default:
		g.cells[to] = v
		g.cells[from] = 0
		s.transitions = append(s.transitions, SlideTo(from, to))
		s.moved = true
	}
	return nil
}

// travel follows one tile cell by cell until it hits the edge, a tile it
// cannot merge with, or an equal tile not yet claimed by another merge.
func (s *sweep) travel(v, row, col, depth int) (int, int, bool, error) {
	if depth >= s.limit {
		return 0, 0, false, violation("resolve", s.grid.Pos(row, col),
			"slide search exceeded %d steps", s.limit)
	}
	nr, nc := row+s.dr, col+s.dc
	if nr < 0 || nr >= s.grid.rows || nc < 0 || nc >= s.grid.cols {
		return row, col, false, nil
	}
	next := s.grid.Pos(nr, nc)
	switch nv := s.grid.cells[next]; {
	case nv == v && !s.claimed[next]:
		return nr, nc, true, nil
	case nv != 0:
		return row, col, false, nil
	}
	return s.travel(v, nr, nc, depth+1)
}
