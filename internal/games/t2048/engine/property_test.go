package engine

import (
	"math/rand"
	"testing"
)

const propertyRounds = 500

func TestMovePropertiesOnRandomGrids(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < propertyRounds; round++ {
		rows, cols := 2+rng.Intn(4), 2+rng.Intn(4)
		g := randomGrid(rng, rows, cols)
		for _, dir := range Directions {
			mv, err := ResolveMove(g, dir)
			if err != nil {
				t.Fatalf("round %d %s: %v", round, dir, err)
			}
			ts := Classify(mv.Transitions)

			if mv.Grid.Sum() != g.Sum() {
				t.Fatalf("round %d %s: sum %d -> %d\n%s", round, dir, g.Sum(), mv.Grid.Sum(), g)
			}
			if got, want := mv.Grid.Occupied(), g.Occupied()-mv.Merges; got != want {
				t.Fatalf("round %d %s: %d tiles after %d merges, want %d", round, dir, got, mv.Merges, want)
			}
			if err := CheckTransitions(g, mv.Grid, ts); err != nil {
				t.Fatalf("round %d %s: %v\n%s\n%v", round, dir, err, g, ts)
			}
			if mv.Moved == mv.Grid.Equal(g) {
				t.Fatalf("round %d %s: moved = %v but grids equal = %v", round, dir, mv.Moved, mv.Grid.Equal(g))
			}
			if !mv.Moved {
				for _, tr := range ts {
					if tr.Kind != KindStatic {
						t.Fatalf("round %d %s: no-op move emitted %s", round, dir, tr)
					}
				}
			}
			checkSingleMerge(t, g, mv.Grid, ts)
		}
	}
}

// checkSingleMerge asserts every merged cell holds exactly twice each of its
// two contributors, ruling out chained merges.
func checkSingleMerge(t *testing.T, before, after Grid, ts []Transition) {
	t.Helper()
	contributors := make(map[Position][]int)
	for _, tr := range ts {
		if tr.Kind.IsMerge() {
			contributors[tr.NewPosition] = append(contributors[tr.NewPosition], before.At(tr.Source()))
		}
	}
	for dst, vals := range contributors {
		if len(vals) != 2 {
			t.Fatalf("cell %d has %d merge contributors", dst, len(vals))
		}
		for _, v := range vals {
			if after.At(dst) != 2*v {
				t.Fatalf("cell %d holds %d from contributor %d", dst, after.At(dst), v)
			}
		}
	}
}

func TestSpawnConservesValue(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sp := NewSpawner(rng)
	for round := 0; round < propertyRounds; round++ {
		g := randomGrid(rng, 4, 4)
		mv, err := ResolveMove(g, Directions[round%4])
		if err != nil {
			t.Fatal(err)
		}
		if !mv.Moved {
			continue
		}
		next, tr, ok := sp.Spawn(mv.Grid)
		if !ok {
			t.Fatalf("round %d: spawn failed after a move", round)
		}
		spawned := next.At(tr.Position)
		if next.Sum() != g.Sum()+spawned {
			t.Fatalf("round %d: sum %d, want %d + %d", round, next.Sum(), g.Sum(), spawned)
		}
		ts := append(Classify(mv.Transitions), tr)
		if err := CheckTransitions(g, next, ts); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
	}
}

func TestPoolClosureOverRandomGames(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		s, err := New(Options{Rows: 4, Cols: 4, Seed: seed})
		if err != nil {
			t.Fatal(err)
		}
		rng := rand.New(rand.NewSource(seed))
		for step := 0; step < 300; step++ {
			if _, err := s.RequestMove(Directions[rng.Intn(4)]); err != nil {
				t.Fatalf("seed %d step %d: %v", seed, step, err)
			}
			drain(t, s)
			checkClosure(t, s.Frame())
			if !s.LatestGrid().CanMove() {
				break
			}
		}
	}
}

func checkClosure(t *testing.T, f Frame) {
	t.Helper()
	cells := make(map[Position]int)
	for _, id := range f.Identities {
		if !id.Active {
			continue
		}
		if other, dup := cells[id.Position]; dup {
			t.Fatalf("frame %d: identities %d and %d share cell %d", f.Seq, other, id.ID, id.Position)
		}
		cells[id.Position] = id.ID
		if f.Grid.At(id.Position) != id.Value {
			t.Fatalf("frame %d: identity %d value %d, grid %d", f.Seq, id.ID, id.Value, f.Grid.At(id.Position))
		}
	}
	if len(cells) > f.Grid.Occupied() {
		t.Fatalf("frame %d: %d active identities for %d tiles", f.Seq, len(cells), f.Grid.Occupied())
	}
}

// drain acknowledges every identity until nothing is queued.
func drain(t *testing.T, s *Session) {
	t.Helper()
	for guard := 0; !s.Ready() || s.Pending() > 0; guard++ {
		if guard > 100 {
			t.Fatal("session never drained")
		}
		for id := 0; id < s.Capacity(); id++ {
			if err := s.AcknowledgeFinished(id); err != nil {
				t.Fatalf("ack %d: %v", id, err)
			}
		}
	}
}
