package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateAnimating   GameStateType = "animating"
	StateGameOver    GameStateType = "game_over"
	StateFaulted     GameStateType = "faulted"
	StatePaused      GameStateType = "paused"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick        uint64
	Mode        string
	AlwaysSpawn bool
	Seq         uint64  // sequence number of the frame on screen
	Board       [][]int // board after every queued move
	Displayed   [][]int // board the animator is showing
	MaxTile     int
	Sum         int
	Queued      int
	Hurry       bool
	Active      int // active identities in the displayed frame
	State       GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{Tick: g.tick, Mode: string(g.mode), State: StateFaulted}
	}
	st := g.State()
	state := StatePlaying
	switch {
	case st.Faulted:
		state = StateFaulted
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	case st.GameOver:
		state = StateGameOver
	case st.Busy:
		state = StateAnimating
	}

	active := 0
	for _, id := range g.Identities() {
		if id.Active {
			active++
		}
	}
	latest := g.session.LatestGrid()
	return Snapshot{
		Tick:        g.tick,
		Mode:        string(g.mode),
		AlwaysSpawn: g.session.AlwaysSpawn(),
		Seq:         g.session.Frame().Seq,
		Board:       latest.Matrix(),
		Displayed:   g.session.Grid().Matrix(),
		MaxTile:     latest.MaxTile(),
		Sum:         latest.Sum(),
		Queued:      g.session.Pending(),
		Hurry:       g.session.Hurry(),
		Active:      active,
		State:       state,
	}
}
