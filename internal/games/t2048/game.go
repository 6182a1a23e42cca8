package t2048

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/t2048/internal/config"
	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/games/t2048/engine"
	"github.com/vovakirdan/t2048/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic     Mode = "classic"
	ModeAlwaysSpawn Mode = "always_spawn"
)

// Game drives an engine session from platform input and animates its frames.
type Game struct {
	mode    Mode
	cfg     config.T2048Config
	timing  Timing
	session *engine.Session
	anim    *Animator
	tick    uint64
	logger  *log.Logger

	// Screen dimensions
	screenW int
	screenH int

	// Game state flags
	paused   bool
	tooSmall bool
	fault    error
	status   string // one-line feedback for the HUD
}

// Package-level variables for config
var (
	configPath    string
	alwaysSpawn   bool
	packageLogger *log.Logger
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetAlwaysSpawn forces always-spawn on for games created afterwards.
func SetAlwaysSpawn(on bool) {
	alwaysSpawn = on
}

// SetLogger sets the logger handed to new sessions.
func SetLogger(l *log.Logger) {
	packageLogger = l
}

// New creates a classic 2048 game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewAlwaysSpawn creates a game that spawns a tile after every move.
func NewAlwaysSpawn() *Game {
	return &Game{mode: ModeAlwaysSpawn}
}

func init() {
	registry.Register("2048", func() registry.Game {
		return New()
	})
	registry.Register("2048_easy", func() registry.Game {
		return NewAlwaysSpawn()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeAlwaysSpawn {
		return "2048_easy"
	}
	return "2048"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeAlwaysSpawn {
		return "2048 (Always Spawn)"
	}
	return "2048"
}

// Reset loads configuration and starts a fresh session.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.logger = packageLogger
	if g.logger == nil {
		g.logger = log.New(io.Discard)
	}

	cfg, err := config.LoadT2048(configPath)
	if err != nil {
		g.logger.Warn("using default config", "err", err)
		cfg = config.DefaultT2048Config()
	}
	if g.mode == ModeAlwaysSpawn || alwaysSpawn {
		cfg.Rules.AlwaysSpawn = true
	}
	g.cfg = cfg
	g.timing = TimingFromConfig(cfg.Animation, rc.TickRate)

	g.tick = 0
	g.paused = false
	g.fault = nil
	g.status = ""
	g.Resize(rc.ScreenW, rc.ScreenH)

	g.session, err = engine.New(engine.Options{
		Rows:        cfg.Board.Rows,
		Cols:        cfg.Board.Cols,
		Capacity:    cfg.PoolCapacity(),
		PaletteSize: len(cfg.Palette),
		AlwaysSpawn: cfg.Rules.AlwaysSpawn,
		Seed:        rc.Seed,
		Logger:      g.logger.With("game", g.ID()),
	})
	if err != nil {
		g.setFault(err)
		return
	}
	g.anim, err = NewAnimator(g.session, g.timing)
	if err != nil {
		g.setFault(err)
	}
}

// Resize updates the screen dimensions without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	boardW, boardH := boardSize(g.cfg.Board.Rows, g.cfg.Board.Cols)
	g.tooSmall = g.screenW < boardW+2 || g.screenH < boardH+hudHeight+2
}

func (g *Game) setFault(err error) {
	g.fault = err
	g.status = "engine fault: press R to reset"
	g.logger.Error("game stopped", "err", err)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionRestart) {
		g.restart()
		return core.StepResult{State: g.State()}
	}
	if g.session == nil || g.fault != nil {
		return core.StepResult{State: g.State()}
	}

	// Handle window size check
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle pause
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionToggleEasy) {
		on := !g.session.AlwaysSpawn()
		g.session.SetAlwaysSpawn(on)
		g.status = "always spawn off"
		if on {
			g.status = "always spawn on"
		}
	}

	switch {
	case in.Has(core.ActionSpawn):
		g.spawn()
	case in.Has(core.ActionUp):
		g.move(engine.DirUp)
	case in.Has(core.ActionDown):
		g.move(engine.DirDown)
	case in.Has(core.ActionLeft):
		g.move(engine.DirLeft)
	case in.Has(core.ActionRight):
		g.move(engine.DirRight)
	}

	if g.fault == nil {
		if err := g.anim.Advance(); err != nil {
			g.setFault(err)
		}
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) move(dir engine.Direction) {
	r, err := g.session.RequestMove(dir)
	if err != nil {
		g.setFault(err)
		return
	}
	switch {
	case r.GameOver:
		g.status = "no moves left"
	case !r.Enqueued:
		g.status = "can't move " + dir.String()
	default:
		g.status = ""
	}
}

func (g *Game) spawn() {
	r, err := g.session.RequestSpawn()
	if err != nil {
		g.setFault(err)
		return
	}
	if !r.Spawned {
		g.status = "board is full"
	}
}

func (g *Game) restart() {
	if g.session == nil {
		return
	}
	g.fault = nil
	g.status = ""
	g.paused = false
	if err := g.session.RequestReset(); err != nil {
		g.setFault(err)
		return
	}
	if g.anim == nil {
		anim, err := NewAnimator(g.session, g.timing)
		if err != nil {
			g.setFault(err)
			return
		}
		g.anim = anim
		return
	}
	if err := g.anim.Sync(); err != nil {
		g.setFault(err)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{Faulted: g.fault != nil}
	}
	return core.GameState{
		GameOver: !g.session.LatestGrid().CanMove(),
		Paused:   g.paused || g.tooSmall,
		Busy:     g.anim != nil && (g.anim.Busy() || g.session.Pending() > 0),
		Faulted:  g.fault != nil,
	}
}

// Identities returns the identity pool as last published.
func (g *Game) Identities() []engine.Identity {
	if g.anim == nil {
		return nil
	}
	return g.anim.Frame().Identities
}

// Frame returns the identity frame the animator is playing.
func (g *Game) Frame() engine.Frame {
	if g.anim == nil {
		return engine.Frame{}
	}
	return g.anim.Frame()
}

// Session exposes the underlying engine session.
func (g *Game) Session() *engine.Session {
	return g.session
}
