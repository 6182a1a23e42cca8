package engine

import "testing"

func TestGridFromRowsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int
	}{
		{"empty", nil},
		{"ragged", [][]int{{2, 0}, {0}}},
		{"odd value", [][]int{{3, 0}}},
		{"one", [][]int{{1, 0}}},
		{"negative", [][]int{{-2, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GridFromRows(tt.rows); err == nil {
				t.Errorf("GridFromRows(%v) succeeded, want error", tt.rows)
			}
		})
	}
}

func TestGridPositions(t *testing.T) {
	g := NewGrid(3, 4)
	if got := g.Pos(2, 1); got != 9 {
		t.Errorf("Pos(2,1) = %d, want 9", got)
	}
	r, c := g.RowCol(7)
	if r != 1 || c != 3 {
		t.Errorf("RowCol(7) = (%d,%d), want (1,3)", r, c)
	}
	if g.Contains(12) || g.Contains(NoPosition) {
		t.Error("Contains accepted an off-board position")
	}
}

func TestGridWithIsImmutable(t *testing.T) {
	g := mustGrid(t, []int{2, 0}, []int{0, 4})
	h := g.With(1, 8)
	if g.At(1) != 0 {
		t.Errorf("original changed: At(1) = %d", g.At(1))
	}
	if h.At(1) != 8 {
		t.Errorf("copy At(1) = %d, want 8", h.At(1))
	}
	cells := h.Cells()
	cells[0] = 64
	if h.At(0) != 2 {
		t.Error("Cells() leaked internal storage")
	}
}

func TestGridCounts(t *testing.T) {
	g := mustGrid(t, []int{2, 0, 4}, []int{0, 8, 0})
	if got := g.Occupied(); got != 3 {
		t.Errorf("Occupied = %d, want 3", got)
	}
	if got := g.Sum(); got != 14 {
		t.Errorf("Sum = %d, want 14", got)
	}
	if got := g.MaxTile(); got != 8 {
		t.Errorf("MaxTile = %d, want 8", got)
	}
	empty := g.EmptyPositions()
	want := []Position{1, 3, 5}
	if len(empty) != len(want) {
		t.Fatalf("EmptyPositions = %v, want %v", empty, want)
	}
	for i := range want {
		if empty[i] != want[i] {
			t.Errorf("EmptyPositions = %v, want %v", empty, want)
		}
	}
}

func TestGridCanMove(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int
		want bool
	}{
		{"has empty", [][]int{{2, 4}, {8, 0}}, true},
		{"horizontal pair", [][]int{{2, 2}, {4, 8}}, true},
		{"vertical pair", [][]int{{2, 4}, {2, 8}}, true},
		{"stuck", [][]int{{2, 4}, {4, 2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustGrid(t, tt.rows...).CanMove(); got != tt.want {
				t.Errorf("CanMove = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGridString(t *testing.T) {
	g := mustGrid(t, []int{2, 0}, []int{0, 16})
	want := "2 .\n. 16"
	if got := g.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPaletteIndex(t *testing.T) {
	tests := []struct {
		value, size, want int
	}{
		{2, 11, 0},
		{4, 11, 1},
		{2048, 11, 10},
		{4096, 11, 10},
		{1 << 20, 11, 10},
		{8, 2, 1},
	}
	for _, tt := range tests {
		if got := PaletteIndex(tt.value, tt.size); got != tt.want {
			t.Errorf("PaletteIndex(%d, %d) = %d, want %d", tt.value, tt.size, got, tt.want)
		}
	}
}

func TestPaletteIndexPanicsOnInvalidValue(t *testing.T) {
	for _, v := range []int{0, 1, 3, 6, -4} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("PaletteIndex(%d) did not panic", v)
				}
			}()
			PaletteIndex(v, DefaultPaletteSize)
		}()
	}
}
