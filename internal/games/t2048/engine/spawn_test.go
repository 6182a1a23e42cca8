package engine

import "testing"

func TestSpawnOnEmptyBoard(t *testing.T) {
	tests := []struct {
		name  string
		rng   *scriptedRand
		pos   Position
		value int
	}{
		{"two", &scriptedRand{ints: []int{5}, floats: []float64{0.5}}, 5, 2},
		{"four", &scriptedRand{ints: []int{11}, floats: []float64{0.05}}, 11, 4},
		{"boundary is a two", &scriptedRand{ints: []int{0}, floats: []float64{FourChance}}, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(4, 4)
			next, tr, ok := NewSpawner(tt.rng).Spawn(g)
			if !ok {
				t.Fatal("spawn failed on an empty board")
			}
			if tr != SpawnAt(tt.pos) {
				t.Errorf("transition = %v, want %v", tr, SpawnAt(tt.pos))
			}
			if next.Occupied() != 1 {
				t.Errorf("occupied = %d, want 1", next.Occupied())
			}
			if got := next.At(tt.pos); got != tt.value {
				t.Errorf("value at %d = %d, want %d", tt.pos, got, tt.value)
			}
			if g.Occupied() != 0 {
				t.Error("input grid changed")
			}
		})
	}
}

func TestSpawnPicksAmongEmptyCells(t *testing.T) {
	g := mustGrid(t, []int{2, 0, 4, 0})
	next, tr, ok := NewSpawner(&scriptedRand{ints: []int{1}}).Spawn(g)
	if !ok {
		t.Fatal("spawn failed")
	}
	if tr.Position != 3 {
		t.Errorf("spawned at %d, want 3 (second empty cell)", tr.Position)
	}
	if next.At(3) != 2 {
		t.Errorf("value = %d, want 2", next.At(3))
	}
}

func TestSpawnOnFullBoard(t *testing.T) {
	g := mustGrid(t, []int{2, 4}, []int{8, 16})
	next, _, ok := NewSpawner(&scriptedRand{}).Spawn(g)
	if ok {
		t.Error("spawn succeeded on a full board")
	}
	if !next.Equal(g) {
		t.Error("full board changed")
	}
}
