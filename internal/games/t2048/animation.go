package t2048

import (
	"slices"

	"github.com/vovakirdan/t2048/internal/config"
	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/games/t2048/engine"
)

// Timing holds per-role animation lengths in ticks.
type Timing struct {
	Slide       int
	Pop         int
	PopDelay    int
	VanishDelay int
	Hurry       int // cap on every animation while the session is hurrying
}

// TimingFromConfig converts millisecond durations to ticks at tickRate.
func TimingFromConfig(a config.AnimationConfig, tickRate int) Timing {
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	ticks := func(ms int) int {
		return (ms*tickRate + 999) / 1000
	}
	return Timing{
		Slide:       max(1, ticks(a.SlideMs)),
		Pop:         max(1, ticks(a.PopMs)),
		PopDelay:    max(0, ticks(a.PopDelayMs)),
		VanishDelay: max(1, ticks(a.VanishDelayMs)),
		Hurry:       max(1, ticks(a.HurryMs)),
	}
}

// track is the animation state of one identity for the current frame.
type track struct {
	id      engine.Identity
	elapsed int
	done    bool
}

// Sprite is one identity's drawable state on the current tick.
type Sprite struct {
	ID      int
	Value   int
	Palette int
	Row     float64 // interpolated cell coordinates
	Col     float64
	Scale   float64 // 0 hidden, 1 full size
	Layer   int     // higher layers draw on top
}

// Draw layers: a tile sliding into a merge sits below the tile it joins,
// which sits below everything else.
const (
	layerMergeSlide = iota
	layerMergeStatic
	layerTile
)

// Animator is the animation side of the engine session: it plays every
// published frame and acknowledges each identity when its role finishes.
type Animator struct {
	session *engine.Session
	timing  Timing
	frame   engine.Frame
	tracks  []track
	pending []engine.Frame
}

// NewAnimator subscribes to s and starts playing its current frame.
func NewAnimator(s *engine.Session, timing Timing) (*Animator, error) {
	a := &Animator{session: s, timing: timing}
	s.Subscribe(a.receive)
	a.pending = append(a.pending, s.Frame())
	if err := a.flush(); err != nil {
		return nil, err
	}
	return a, nil
}

// receive runs inside the session; frames are installed after the session
// call returns.
func (a *Animator) receive(f engine.Frame) {
	a.pending = append(a.pending, f)
}

// Sync installs frames published since the last call, for example after a
// reset requested outside Advance.
func (a *Animator) Sync() error {
	return a.flush()
}

func (a *Animator) flush() error {
	// A reset makes every frame published before it stale.
	for i := len(a.pending) - 1; i > 0; i-- {
		if a.pending[i].Kind == engine.ResultReset {
			a.pending = a.pending[i:]
			break
		}
	}
	for len(a.pending) > 0 {
		f := a.pending[0]
		a.pending = a.pending[1:]
		if err := a.install(f); err != nil {
			return err
		}
	}
	return nil
}

func (a *Animator) install(f engine.Frame) error {
	a.frame = f
	a.tracks = a.tracks[:0]
	for _, id := range f.Identities {
		a.tracks = append(a.tracks, track{id: id})
	}
	// Roles with nothing to animate finish immediately.
	for i := range a.tracks {
		if a.length(a.tracks[i].id.Role) > 0 {
			continue
		}
		if err := a.finish(i); err != nil {
			return err
		}
	}
	return nil
}

func (a *Animator) finish(i int) error {
	a.tracks[i].done = true
	return a.session.AcknowledgeFinished(a.tracks[i].id.ID)
}

// Advance moves every running animation forward one tick.
func (a *Animator) Advance() error {
	if err := a.flush(); err != nil {
		return err
	}
	hurry := a.session.Hurry()
	for i := range a.tracks {
		tr := &a.tracks[i]
		if tr.done {
			continue
		}
		tr.elapsed++
		if tr.elapsed >= a.total(tr.id.Role, hurry) {
			if err := a.finish(i); err != nil {
				return err
			}
		}
	}
	return a.flush()
}

// length is the unhurried number of ticks a role plays for.
func (a *Animator) length(r engine.Role) int {
	switch r {
	case engine.RoleSlide:
		return a.timing.Slide
	case engine.RoleMergeSlide, engine.RoleMergeStatic:
		// Both halves of a merge stay until the mover arrives, then vanish together.
		return a.timing.Slide + a.timing.VanishDelay
	case engine.RoleSpawn:
		return a.timing.PopDelay + a.timing.Pop
	default:
		return 0
	}
}

func (a *Animator) total(r engine.Role, hurry bool) int {
	n := a.length(r)
	if hurry {
		n = min(n, a.timing.Hurry)
	}
	return n
}

// Busy reports whether any identity of the current frame is still playing
// or a published frame is waiting to be installed.
func (a *Animator) Busy() bool {
	if len(a.pending) > 0 {
		return true
	}
	for _, tr := range a.tracks {
		if !tr.done {
			return true
		}
	}
	return false
}

// Frame returns the frame being played.
func (a *Animator) Frame() engine.Frame {
	return a.frame
}

// Sprites returns the drawable identities, bottom layer first.
func (a *Animator) Sprites() []Sprite {
	cols := a.frame.Grid.Cols()
	if cols == 0 {
		return nil
	}
	hurry := a.session.Hurry()
	var out []Sprite
	for _, tr := range a.tracks {
		if s, ok := a.sprite(tr, cols, hurry); ok {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(x, y Sprite) int {
		if x.Layer != y.Layer {
			return x.Layer - y.Layer
		}
		return x.ID - y.ID
	})
	return out
}

func (a *Animator) sprite(tr track, cols int, hurry bool) (Sprite, bool) {
	id := tr.id
	if !id.Visible() {
		return Sprite{}, false
	}
	if id.Retiring() && tr.done {
		return Sprite{}, false
	}
	s := Sprite{ID: id.ID, Value: id.Value, Palette: id.Palette, Scale: 1, Layer: layerTile}
	travel := a.total(id.Role, hurry)
	if id.Role == engine.RoleMergeSlide {
		travel = min(a.timing.Slide, travel)
	}
	progress := 1.0
	if travel > 0 && !tr.done {
		progress = core.ClampF(float64(tr.elapsed)/float64(travel), 0, 1)
	}

	from, to := id.Meta.From, id.Meta.To
	switch id.Role {
	case engine.RoleMergeSlide:
		s.Layer = layerMergeSlide
	case engine.RoleMergeStatic:
		s.Layer = layerMergeStatic
	case engine.RoleSpawn:
		s.Scale = a.popScale(tr, hurry)
	}
	t := easeOutQuad(progress)
	s.Row = core.Lerp(float64(int(from)/cols), float64(int(to)/cols), t)
	s.Col = core.Lerp(float64(int(from)%cols), float64(int(to)%cols), t)
	return s, s.Scale > 0
}

// popScale grows a spawned tile from nothing once its delay has passed.
func (a *Animator) popScale(tr track, hurry bool) float64 {
	if tr.done {
		return 1
	}
	delay, pop := a.timing.PopDelay, a.timing.Pop
	if hurry {
		delay, pop = 0, a.timing.Hurry
	}
	if tr.elapsed < delay {
		return 0
	}
	return easeOutQuad(core.ClampF(float64(tr.elapsed-delay+1)/float64(pop), 0, 1))
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}
