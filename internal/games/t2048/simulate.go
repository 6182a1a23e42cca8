package t2048

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/t2048/internal/games/t2048/engine"
)

// SimOptions configures one headless game.
type SimOptions struct {
	Rows        int
	Cols        int
	Capacity    int
	AlwaysSpawn bool
	MaxMoves    int // 0 plays until the board locks
	SpawnEvery  int // request a manual spawn every n moves; 0 never
	Seed        int64
	Logger      *log.Logger
}

// SimResult summarizes one headless game.
type SimResult struct {
	Seed     int64
	Moves    int // requests that changed the board
	Requests int
	Merges   int
	Spawns   int
	Frames   int
	MaxTile  int
	Sum      int
	GameOver bool
}

// Simulate plays random moves against an engine session with every
// animation acknowledged instantly, checking each published frame.
func Simulate(ctx context.Context, opts SimOptions) (SimResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s, err := engine.New(engine.Options{
		Rows:        opts.Rows,
		Cols:        opts.Cols,
		Capacity:    opts.Capacity,
		AlwaysSpawn: opts.AlwaysSpawn,
		Seed:        opts.Seed,
		Logger:      logger,
	})
	if err != nil {
		return SimResult{}, err
	}

	sim := &simulation{session: s, result: SimResult{Seed: opts.Seed}}
	s.Subscribe(func(f engine.Frame) { sim.pending = append(sim.pending, f) })
	sim.pending = append(sim.pending, s.Frame())
	if err := sim.drain(); err != nil {
		return sim.result, err
	}

	rng := rand.New(rand.NewSource(opts.Seed ^ 0x2048))
	for opts.MaxMoves == 0 || sim.result.Requests < opts.MaxMoves {
		if err := ctx.Err(); err != nil {
			return sim.result, err
		}
		if opts.SpawnEvery > 0 && sim.result.Requests > 0 && sim.result.Requests%opts.SpawnEvery == 0 {
			if err := sim.spawn(); err != nil {
				return sim.result, err
			}
		}
		over, err := sim.move(engine.Directions[rng.Intn(len(engine.Directions))])
		if err != nil {
			return sim.result, err
		}
		if over {
			sim.result.GameOver = true
			break
		}
	}

	grid := s.LatestGrid()
	sim.result.MaxTile = grid.MaxTile()
	sim.result.Sum = grid.Sum()
	logger.Debug("simulation finished", "seed", opts.Seed, "requests", sim.result.Requests, "max", sim.result.MaxTile)
	return sim.result, nil
}

type simulation struct {
	session *engine.Session
	pending []engine.Frame
	result  SimResult
}

func (sim *simulation) move(dir engine.Direction) (bool, error) {
	before := sim.session.LatestGrid().Sum()
	r, err := sim.session.RequestMove(dir)
	if err != nil {
		return false, err
	}
	sim.result.Requests++
	if r.Moved {
		sim.result.Moves++
	}
	sim.result.Merges += r.Merges
	if err := sim.conserved(before, r.Grid.Sum(), r.Spawned); err != nil {
		return false, fmt.Errorf("move %s: %w", dir, err)
	}
	if r.Spawned {
		sim.result.Spawns++
	}
	return r.GameOver, sim.drain()
}

func (sim *simulation) spawn() error {
	before := sim.session.LatestGrid().Sum()
	r, err := sim.session.RequestSpawn()
	if err != nil {
		return err
	}
	if !r.Spawned {
		return nil
	}
	sim.result.Spawns++
	if err := sim.conserved(before, sim.session.LatestGrid().Sum(), true); err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	return sim.drain()
}

func (sim *simulation) conserved(before, after int, spawned bool) error {
	added := after - before
	if (!spawned && added != 0) || (spawned && added != 2 && added != 4) {
		return fmt.Errorf("board sum went from %d to %d (spawned=%v)", before, after, spawned)
	}
	return nil
}

// drain acknowledges every identity of every published frame. The last
// acknowledgement of a frame may publish the next one.
func (sim *simulation) drain() error {
	for len(sim.pending) > 0 {
		f := sim.pending[0]
		sim.pending = sim.pending[1:]
		sim.result.Frames++
		if err := checkFrame(f); err != nil {
			return err
		}
		for _, id := range f.Identities {
			if err := sim.session.AcknowledgeFinished(id.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkFrame verifies that the active identities cover the frame's board
// exactly once with matching values.
func checkFrame(f engine.Frame) error {
	seen := make(map[engine.Position]int)
	for _, id := range f.Identities {
		if !id.Active {
			continue
		}
		if !f.Grid.Contains(id.Position) {
			return fmt.Errorf("frame %d: identity %d active off the board at %d", f.Seq, id.ID, id.Position)
		}
		if other, ok := seen[id.Position]; ok {
			return fmt.Errorf("frame %d: identities %d and %d share cell %d", f.Seq, other, id.ID, id.Position)
		}
		seen[id.Position] = id.ID
		if v := f.Grid.At(id.Position); v != id.Value {
			return fmt.Errorf("frame %d: identity %d shows %d on a %d cell", f.Seq, id.ID, id.Value, v)
		}
	}
	if n := f.Grid.Occupied(); n != len(seen) {
		return fmt.Errorf("frame %d: %d active identities for %d tiles", f.Seq, len(seen), n)
	}
	return nil
}
