package engine

import (
	"math/rand"
	"testing"
)

func mustGrid(t *testing.T, rows ...[]int) Grid {
	t.Helper()
	g, err := GridFromRows(rows)
	if err != nil {
		t.Fatalf("GridFromRows: %v", err)
	}
	return g
}

// scriptedRand replays fixed draws. Intn draws are reduced modulo n.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func randomGrid(rng *rand.Rand, rows, cols int) Grid {
	values := []int{0, 0, 0, 2, 2, 4, 8, 16}
	g := NewGrid(rows, cols)
	for i := range g.cells {
		g.cells[i] = values[rng.Intn(len(values))]
	}
	return g
}

func kinds(ts []Transition) map[TransitionKind]int {
	out := make(map[TransitionKind]int)
	for _, t := range ts {
		out[t.Kind]++
	}
	return out
}
