package t2048

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/t2048/internal/config"
	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/games/t2048/engine"
	"github.com/vovakirdan/t2048/internal/registry"
)

func newGame(t *testing.T, seed int64) *Game {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed})
	if g.fault != nil {
		t.Fatalf("Reset: %v", g.fault)
	}
	return g
}

func press(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// settle steps without input until nothing is animating or queued.
func settle(t *testing.T, g *Game) int {
	t.Helper()
	for ticks := 0; ticks < 500; ticks++ {
		if !g.State().Busy {
			return ticks
		}
		g.Step(core.NewInputFrame())
	}
	t.Fatal("game never settled")
	return 0
}

func TestRegisteredModes(t *testing.T) {
	tests := []struct {
		id    string
		title string
	}{
		{"2048", "2048"},
		{"2048_easy", "2048 (Always Spawn)"},
	}
	for _, tt := range tests {
		g, err := registry.Create(tt.id)
		if err != nil {
			t.Fatalf("Create(%q): %v", tt.id, err)
		}
		if g.ID() != tt.id || g.Title() != tt.title {
			t.Errorf("Create(%q) = %s %q, want %s %q", tt.id, g.ID(), g.Title(), tt.id, tt.title)
		}
	}
}

func TestResetStartsWithOneTile(t *testing.T) {
	g := newGame(t, 1)
	snap := g.Snapshot()
	tiles := 0
	for _, row := range snap.Board {
		for _, v := range row {
			if v != 0 {
				tiles++
			}
		}
	}
	if tiles != 1 {
		t.Errorf("tiles after reset = %d, want 1", tiles)
	}
	if snap.Active != 1 {
		t.Errorf("active identities = %d, want 1", snap.Active)
	}
	if snap.State != StateAnimating {
		t.Errorf("state = %s, want %s while the first tile pops in", snap.State, StateAnimating)
	}
}

func TestAlwaysSpawnMode(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	g := NewAlwaysSpawn()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 3})
	if !g.Session().AlwaysSpawn() {
		t.Fatal("always-spawn mode did not enable the rule")
	}

	settle(t, g)
	before := g.Snapshot().Sum
	// At least one of two opposite moves is a no-op for a single tile,
	// and both still spawn.
	g.Step(press(core.ActionLeft))
	g.Step(press(core.ActionRight))
	settle(t, g)
	if got := g.Snapshot().Sum; got < before+4 {
		t.Errorf("sum = %d after two moves from %d, want two spawns", got, before)
	}
}

func TestToggleEasy(t *testing.T) {
	g := newGame(t, 2)
	g.Step(press(core.ActionToggleEasy))
	if !g.Session().AlwaysSpawn() {
		t.Error("space did not turn always-spawn on")
	}
	g.Step(press(core.ActionToggleEasy))
	if g.Session().AlwaysSpawn() {
		t.Error("space did not turn always-spawn off")
	}
}

func TestMovesDrainThroughAnimator(t *testing.T) {
	g := newGame(t, 4)
	settle(t, g)

	g.Step(press(core.ActionLeft))
	g.Step(press(core.ActionRight))
	settle(t, g)

	snap := g.Snapshot()
	if snap.Queued != 0 || snap.Hurry {
		t.Errorf("queued = %d hurry = %v after settling", snap.Queued, snap.Hurry)
	}
	if !reflect.DeepEqual(snap.Board, snap.Displayed) {
		t.Errorf("displayed board %v lags latest %v", snap.Displayed, snap.Board)
	}
}

func TestHurryShortensQueuedAnimations(t *testing.T) {
	g := newGame(t, 5)

	// The first tile is still popping in, so these moves queue up.
	g.Step(press(core.ActionLeft))
	g.Step(press(core.ActionRight))
	if !g.Snapshot().Hurry {
		t.Fatal("hurry not raised while moves were queued")
	}

	ticks := settle(t, g)
	if limit := 4 * g.timing.Hurry; ticks > limit {
		t.Errorf("took %d ticks to drain in hurry mode, want <= %d", ticks, limit)
	}
	if g.Snapshot().Hurry {
		t.Error("hurry still set after the queue drained")
	}
}

func TestSpawnAction(t *testing.T) {
	g := newGame(t, 6)
	settle(t, g)
	before := g.Snapshot().Sum

	g.Step(press(core.ActionSpawn))
	settle(t, g)
	after := g.Snapshot().Sum
	if after != before+2 && after != before+4 {
		t.Errorf("sum after spawn = %d, want %d + 2 or 4", after, before)
	}
}

func TestRestartClearsBoard(t *testing.T) {
	g := newGame(t, 7)
	for _, a := range []core.Action{core.ActionLeft, core.ActionUp, core.ActionRight, core.ActionDown, core.ActionSpawn} {
		g.Step(press(a))
	}
	g.Step(press(core.ActionRestart))
	snap := g.Snapshot()
	if snap.Queued != 0 || snap.Hurry {
		t.Errorf("queued = %d hurry = %v after restart", snap.Queued, snap.Hurry)
	}
	if snap.Active != 1 {
		t.Errorf("active identities = %d after restart, want 1", snap.Active)
	}
}

func TestPauseBlocksMoves(t *testing.T) {
	g := newGame(t, 8)
	settle(t, g)
	before := g.Snapshot()

	g.Step(press(core.ActionPause))
	g.Step(press(core.ActionLeft))
	g.Step(press(core.ActionRight))
	snap := g.Snapshot()
	if snap.State != StatePaused {
		t.Errorf("state = %s, want paused", snap.State)
	}
	if !reflect.DeepEqual(snap.Board, before.Board) {
		t.Error("board changed while paused")
	}
}

func TestDeterminism(t *testing.T) {
	actions := []core.Action{core.ActionLeft, core.ActionUp, core.ActionRight, core.ActionDown, core.ActionSpawn}
	run := func() Snapshot {
		g := newGame(t, 12345)
		for tick := 0; tick < 400; tick++ {
			in := core.NewInputFrame()
			if tick%7 == 0 {
				in.Set(actions[(tick/7)%len(actions)])
			}
			g.Step(in)
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("snapshots differ:\n%+v\n%+v", a, b)
	}
}

func TestTimingFromConfig(t *testing.T) {
	got := TimingFromConfig(config.DefaultT2048Config().Animation, 60)
	want := Timing{Slide: 12, Pop: 15, PopDelay: 6, VanishDelay: 9, Hurry: 3}
	if got != want {
		t.Errorf("TimingFromConfig = %+v, want %+v", got, want)
	}
	if slow := TimingFromConfig(config.DefaultT2048Config().Animation, 1); slow.Hurry != 1 || slow.Slide != 1 {
		t.Errorf("durations must round up to at least one tick, got %+v", slow)
	}
}

// fixedRand always picks the first empty cell and spawns a 2.
type fixedRand struct{}

func (fixedRand) Intn(int) int     { return 0 }
func (fixedRand) Float64() float64 { return 0.5 }

func TestSpritesInterpolateSlides(t *testing.T) {
	s, err := engine.New(engine.Options{Rows: 4, Cols: 4, Rand: fixedRand{}})
	if err != nil {
		t.Fatal(err)
	}
	timing := Timing{Slide: 4, Pop: 2, PopDelay: 1, VanishDelay: 3, Hurry: 1}
	a, err := NewAnimator(s, timing)
	if err != nil {
		t.Fatal(err)
	}
	for a.Busy() {
		if err := a.Advance(); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := s.RequestMove(engine.DirRight); err != nil {
		t.Fatal(err)
	}
	if err := a.Advance(); err != nil {
		t.Fatal(err)
	}

	var slider *Sprite
	sprites := a.Sprites()
	for i := range sprites {
		if sprites[i].ID == 0 {
			slider = &sprites[i]
		}
	}
	if slider == nil {
		t.Fatalf("sliding identity not drawn: %+v", sprites)
	}
	if slider.Col <= 0 || slider.Col >= 3 {
		t.Errorf("sliding tile at col %.2f, want strictly between 0 and 3", slider.Col)
	}
	if slider.Row != 0 {
		t.Errorf("sliding tile at row %.2f, want 0", slider.Row)
	}

	for a.Busy() {
		if err := a.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	for _, sp := range a.Sprites() {
		if sp.ID == 0 && sp.Col != 3 {
			t.Errorf("tile rests at col %.2f, want 3", sp.Col)
		}
	}
}

func TestMergedTilesVanish(t *testing.T) {
	s, err := engine.New(engine.Options{Rows: 2, Cols: 2, Rand: fixedRand{}})
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewAnimator(s, Timing{Slide: 2, Pop: 2, PopDelay: 0, VanishDelay: 2, Hurry: 1})
	if err != nil {
		t.Fatal(err)
	}
	drainAnimator := func() {
		for i := 0; a.Busy() || s.Pending() > 0; i++ {
			if i > 50 {
				t.Fatal("animator never drained")
			}
			if err := a.Advance(); err != nil {
				t.Fatal(err)
			}
		}
	}
	drainAnimator()
	if _, err := s.RequestSpawn(); err != nil {
		t.Fatal(err)
	}
	drainAnimator()

	if _, err := s.RequestMove(engine.DirLeft); err != nil {
		t.Fatal(err)
	}
	drainAnimator()

	for _, sp := range a.Sprites() {
		if sp.Value == 2 && sp.Row == 0 && sp.Col == 0 {
			t.Errorf("merged-away tile %d still drawn", sp.ID)
		}
	}
	if got := s.Grid().At(0); got != 4 {
		t.Fatalf("cell 0 = %d, want 4", got)
	}
}

func TestMergeStaticWaitsForIncomingSlide(t *testing.T) {
	s, err := engine.New(engine.Options{Rows: 2, Cols: 2, Rand: fixedRand{}})
	if err != nil {
		t.Fatal(err)
	}
	timing := Timing{Slide: 6, Pop: 2, PopDelay: 0, VanishDelay: 2, Hurry: 1}
	a, err := NewAnimator(s, timing)
	if err != nil {
		t.Fatal(err)
	}
	for s.Pending() > 0 || a.Busy() {
		if err := a.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.RequestSpawn(); err != nil {
		t.Fatal(err)
	}
	for s.Pending() > 0 || a.Busy() {
		if err := a.Advance(); err != nil {
			t.Fatal(err)
		}
	}

	// [2 2] slides left: the tile from col 1 merges into the one at col 0.
	if _, err := s.RequestMove(engine.DirLeft); err != nil {
		t.Fatal(err)
	}
	arrived, staticGone, slideGone := -1, -1, -1
	for tick := 1; tick <= 3*(timing.Slide+timing.VanishDelay); tick++ {
		if err := a.Advance(); err != nil {
			t.Fatal(err)
		}
		var slide, static bool
		for _, sp := range a.Sprites() {
			switch sp.Layer {
			case layerMergeSlide:
				slide = true
				if sp.Col == 0 && arrived < 0 {
					arrived = tick
				}
			case layerMergeStatic:
				static = true
			}
		}
		if !static && staticGone < 0 {
			staticGone = tick
		}
		if !slide && slideGone < 0 {
			slideGone = tick
		}
	}

	if arrived != timing.Slide {
		t.Errorf("sliding half arrived on tick %d, want %d", arrived, timing.Slide)
	}
	if staticGone <= arrived {
		t.Errorf("static half hidden on tick %d, before the sliding half arrived on tick %d", staticGone, arrived)
	}
	if want := timing.Slide + timing.VanishDelay; staticGone != want || slideGone != want {
		t.Errorf("merge halves hidden on ticks %d (static) and %d (slide), want both %d", staticGone, slideGone, want)
	}
}

func TestPoolCapacityMatchesEngine(t *testing.T) {
	for _, cells := range []int{4, 9, 16, 25, 30} {
		if got, want := config.MinPoolCapacity(cells), engine.MinCapacity(cells); got != want {
			t.Errorf("config.MinPoolCapacity(%d) = %d, engine.MinCapacity = %d", cells, got, want)
		}
	}
}

func TestRenderShowsBoard(t *testing.T) {
	g := newGame(t, 9)
	settle(t, g)
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"2048", "Queue: 0", "Classic"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestRenderTooSmall(t *testing.T) {
	g := newGame(t, 10)
	g.Resize(20, 10)
	screen := core.NewScreen(20, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("small window message missing")
	}
}
