package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
)

// Options configures a Session.
type Options struct {
	Rows        int
	Cols        int
	Capacity    int  // identity pool size; 0 means MinCapacity(Rows*Cols)
	PaletteSize int  // 0 means DefaultPaletteSize
	AlwaysSpawn bool // spawn after every move, including no-op moves
	Seed        int64
	Rand        Rand // overrides Seed when set
	Logger      *log.Logger
}

// Frame is what the animation layer sees: the identities for the active
// result plus the hurry flag at the time it was published.
type Frame struct {
	Seq        uint64
	Kind       ResultKind
	Grid       Grid
	Identities []Identity
	Hurry      bool
}

// MoveReport describes the outcome of RequestMove.
type MoveReport struct {
	Direction Direction
	Grid      Grid // board after the move and any spawn
	Moved     bool
	Merges    int
	Spawned   bool
	Enqueued  bool
	GameOver  bool
}

// SpawnReport describes the outcome of RequestSpawn.
type SpawnReport struct {
	Spawned  bool
	Position Position
	Value    int
	GameOver bool
}

// Session owns one board: its queued results, identity pool and completion
// barrier. It is not safe for concurrent use.
type Session struct {
	rows, cols  int
	alwaysSpawn bool

	grid    Grid // board the active frame shows
	queue   UpdateQueue
	pool    *Pool
	barrier *Barrier
	spawner *Spawner

	seq         uint64
	frame       Frame
	hurry       bool
	fault       error
	subscribers []func(Frame)
	logger      *log.Logger
}

// New creates a session and spawns its first tile.
func New(opts Options) (*Session, error) {
	if opts.Rows <= 0 || opts.Cols <= 0 {
		return nil, fmt.Errorf("engine: board must be at least 1x1, got %dx%d", opts.Rows, opts.Cols)
	}
	cells := opts.Rows * opts.Cols
	capacity := opts.Capacity
	if capacity == 0 {
		capacity = MinCapacity(cells)
	}
	paletteSize := opts.PaletteSize
	if paletteSize == 0 {
		paletteSize = DefaultPaletteSize
	}
	pool, err := NewPool(capacity, cells, paletteSize)
	if err != nil {
		return nil, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Session{
		rows:        opts.Rows,
		cols:        opts.Cols,
		alwaysSpawn: opts.AlwaysSpawn,
		pool:        pool,
		barrier:     NewBarrier(capacity),
		spawner:     NewSpawner(rng),
		logger:      logger,
	}
	if err := s.RequestReset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Subscribe registers fn to receive every published frame. Callbacks run
// synchronously inside the call that promoted the frame and must not call
// back into the session.
func (s *Session) Subscribe(fn func(Frame)) {
	s.subscribers = append(s.subscribers, fn)
}

// Frame returns the most recently published frame.
func (s *Session) Frame() Frame {
	return s.frame
}

// Grid returns the board shown by the active frame.
func (s *Session) Grid() Grid {
	return s.grid
}

// LatestGrid returns the board after every queued result, which is what the
// next move is resolved against.
func (s *Session) LatestGrid() Grid {
	if last, ok := s.queue.Last(); ok {
		return last.Grid
	}
	return s.grid
}

// Hurry reports whether input is arriving faster than the animation layer
// finishes frames.
func (s *Session) Hurry() bool {
	return s.hurry
}

// Pending returns the number of results waiting behind the active frame.
func (s *Session) Pending() int {
	return s.queue.Len()
}

// Ready reports whether the active frame has been fully acknowledged.
func (s *Session) Ready() bool {
	return s.barrier.Ready()
}

// Fault returns the invariant violation that stopped the session, if any.
func (s *Session) Fault() error {
	return s.fault
}

// AlwaysSpawn reports whether no-op moves still spawn a tile.
func (s *Session) AlwaysSpawn() bool {
	return s.alwaysSpawn
}

// SetAlwaysSpawn toggles spawning after no-op moves.
func (s *Session) SetAlwaysSpawn(on bool) {
	s.alwaysSpawn = on
	s.logger.Debug("always-spawn toggled", "on", on)
}

// Capacity returns the identity pool size.
func (s *Session) Capacity() int {
	return s.pool.Capacity()
}

// RequestMove resolves dir against the latest board and queues the result.
// A move that changes nothing and spawns nothing is reported but not queued.
func (s *Session) RequestMove(dir Direction) (MoveReport, error) {
	if s.fault != nil {
		return MoveReport{}, s.fault
	}
	base := s.LatestGrid()
	mv, err := ResolveMove(base, dir)
	if err != nil {
		return MoveReport{}, s.check(err)
	}
	ts := Classify(mv.Transitions)
	grid := mv.Grid
	report := MoveReport{Direction: dir, Moved: mv.Moved, Merges: mv.Merges}

	if mv.Moved || s.alwaysSpawn {
		if spawned, t, ok := s.spawner.Spawn(grid); ok {
			grid = spawned
			ts = append(ts, t)
			report.Spawned = true
		}
	}
	report.Grid = grid
	report.GameOver = !grid.CanMove()

	if !report.Moved && !report.Spawned {
		s.logger.Debug("no-op move", "dir", dir, "game_over", report.GameOver)
		return report, nil
	}
	if err := CheckTransitions(base, grid, ts); err != nil {
		return report, s.check(err)
	}
	s.enqueue(MoveResult{
		Kind:        ResultMove,
		Direction:   dir,
		Grid:        grid,
		Transitions: ts,
		Merges:      mv.Merges,
		Spawned:     report.Spawned,
	})
	report.Enqueued = true
	return report, s.pump()
}

// RequestSpawn adds one random tile to the latest board without moving.
func (s *Session) RequestSpawn() (SpawnReport, error) {
	if s.fault != nil {
		return SpawnReport{}, s.fault
	}
	base := s.LatestGrid()
	grid, t, ok := s.spawner.Spawn(base)
	if !ok {
		return SpawnReport{GameOver: !base.CanMove()}, nil
	}
	occupied := base.OccupiedPositions()
	ts := make([]Transition, 0, len(occupied)+1)
	for _, p := range occupied {
		ts = append(ts, StaticAt(p))
	}
	ts = append(ts, t)
	if err := CheckTransitions(base, grid, ts); err != nil {
		return SpawnReport{}, s.check(err)
	}
	s.enqueue(MoveResult{Kind: ResultSpawn, Grid: grid, Transitions: ts, Spawned: true})
	report := SpawnReport{
		Spawned:  true,
		Position: t.Position,
		Value:    grid.At(t.Position),
		GameOver: !grid.CanMove(),
	}
	return report, s.pump()
}

// RequestReset empties the board, drops queued results, parks every
// identity and spawns a single tile. It also clears a fault.
func (s *Session) RequestReset() error {
	s.queue.Clear()
	s.barrier.Reset()
	s.pool.Reset()
	s.grid = NewGrid(s.rows, s.cols)
	s.hurry = false
	s.fault = nil
	s.seq++
	s.frame = Frame{Seq: s.seq, Kind: ResultReset, Grid: s.grid, Identities: s.pool.Identities()}
	s.logger.Info("board reset", "rows", s.rows, "cols", s.cols, "capacity", s.pool.Capacity())

	grid, t, ok := s.spawner.Spawn(s.grid)
	if !ok {
		return s.check(violation("reset", NoPosition, "no empty cell on a fresh board"))
	}
	s.enqueue(MoveResult{Kind: ResultReset, Grid: grid, Transitions: []Transition{t}, Spawned: true})
	return s.pump()
}

// AcknowledgeFinished records that identity id finished its animation for
// the active frame. The last acknowledgement promotes the next queued result.
func (s *Session) AcknowledgeFinished(id int) error {
	if s.fault != nil {
		return s.fault
	}
	done, err := s.barrier.Acknowledge(id)
	if err != nil {
		return s.check(err)
	}
	if !done {
		return nil
	}
	s.logger.Debug("frame finished", "seq", s.frame.Seq, "queued", s.queue.Len())
	return s.pump()
}

func (s *Session) enqueue(r MoveResult) {
	s.seq++
	r.Seq = s.seq
	s.queue.Push(r)
	s.logger.Debug("result queued", "seq", r.Seq, "kind", r.Kind, "dir", r.Direction, "queued", s.queue.Len())
}

// pump promotes the next queued result when the barrier allows it and
// otherwise updates the hurry flag.
func (s *Session) pump() error {
	if !s.barrier.Ready() {
		s.hurry = true
		return nil
	}
	next, ok := s.queue.Pop()
	if !ok {
		s.hurry = false
		return nil
	}
	ids, err := s.pool.Apply(next.Grid, next.Transitions)
	if err != nil {
		return s.check(err)
	}
	s.grid = next.Grid
	s.barrier.Open()
	s.frame = Frame{Seq: next.Seq, Kind: next.Kind, Grid: next.Grid, Identities: ids, Hurry: s.hurry}
	s.logger.Debug("frame published", "seq", next.Seq, "kind", next.Kind, "hurry", s.hurry, "queued", s.queue.Len())
	for _, fn := range s.subscribers {
		fn(s.frame)
	}
	return nil
}

// check latches invariant violations so the session refuses further work.
func (s *Session) check(err error) error {
	if errors.Is(err, ErrInvariant) {
		s.fault = err
		s.logger.Error("engine fault", "err", err)
	}
	return err
}
