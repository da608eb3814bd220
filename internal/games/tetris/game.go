package tetris

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

// ID is the registry identifier of the game.
const ID = "tetris"

// Game adapts the Engine to the platform's fixed-tick Game interface.
type Game struct {
	engine *Engine
	cfg    config.TetrisConfig
	tick   uint64
	dt     time.Duration

	// Screen dimensions
	screenW  int
	screenH  int
	tooSmall bool
}

// configPath stores the custom config path set via CLI
var configPath string

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// New creates a game with settings loaded from the config search path.
// An unreadable custom config falls back to the defaults.
func New() *Game {
	cfg, err := config.LoadTetris(configPath)
	if err != nil {
		cfg = config.DefaultTetrisConfig()
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a game with explicit settings.
func NewWithConfig(cfg config.TetrisConfig) *Game {
	return &Game{cfg: cfg}
}

func init() {
	registry.Register(ID, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Tetris"
}

// Reset starts a new game. Pieces are drawn from a generator seeded with
// cfg.Seed, so equal seeds and inputs replay identically.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.dt = cfg.TickInterval()
	g.tick = 0

	g.engine = NewEngine(UniformRandomizer(rand.New(rand.NewSource(cfg.Seed))))
	g.engine.NewGame()

	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize adapts the layout to a new terminal size without touching the
// game. The board has a fixed size, so a resize never restarts play.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < minScreenW || h < minScreenH
}

// Step applies the frame's actions in order, then advances game time by
// one tick. Nothing happens while the window is too small.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}
	g.tick++

	for _, a := range in.Actions {
		g.apply(a)
	}
	g.engine.Tick(g.dt)

	return core.StepResult{State: g.State()}
}

// apply maps one platform action onto the engine.
func (g *Game) apply(a core.Action) {
	e := g.engine
	switch a {
	case core.ActionPause:
		e.TogglePause()
	case core.ActionRestart:
		if g.CanRestart() {
			e.NewGame()
		}
	case core.ActionLeft:
		e.MovePiece(-1)
	case core.ActionRight:
		e.MovePiece(1)
	case core.ActionDown:
		e.SoftDrop()
	case core.ActionRotate:
		e.Rotate()
	case core.ActionHardDrop:
		e.HardDrop()
	case core.ActionHold:
		e.Hold()
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{}
	}
	state := g.engine.State()
	return core.GameState{
		Score:    g.engine.Progress().Score,
		GameOver: state == StateGameOver,
		Paused:   state == StatePaused || g.tooSmall,
	}
}

// CanRestart reports whether the engine itself is paused or over. A window
// that is too small does not count as paused here.
func (g *Game) CanRestart() bool {
	return g.engine != nil && g.engine.State() != StatePlaying
}

// Tick returns the number of simulated ticks since Reset.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Engine exposes the underlying engine.
func (g *Game) Engine() *Engine {
	return g.engine
}

// DrainCues returns the feedback cues queued since the last call.
func (g *Game) DrainCues() []Cue {
	if g.engine == nil {
		return nil
	}
	return g.engine.DrainCues()
}

// Config returns the settings the game renders with.
func (g *Game) Config() config.TetrisConfig {
	return g.cfg
}
