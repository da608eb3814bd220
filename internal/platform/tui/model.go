package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/replay"
)

// Session is a game the platform can record and play cues for.
type Session interface {
	registry.Game
	Tick() uint64
	Snapshot() tetris.Snapshot
	DrainCues() []tetris.Cue
	Resize(w, h int)
	CanRestart() bool
}

// CuePlayer plays feedback cues.
type CuePlayer interface {
	Play(cues ...tetris.Cue)
}

// Options configures a game Model. Nil collaborators are skipped.
type Options struct {
	Runtime core.RuntimeConfig
	Config  config.TetrisConfig
	Replays replay.Saver
	Sound   CuePlayer

	// Embedded models report Done on quit instead of ending the program.
	Embedded bool
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model that runs one game session.
type Model struct {
	game       Session
	screen     *core.Screen
	opts       Options
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	recorder   *replay.Recorder
	saved      bool // Whether the current game's replay has been written
	lastReplay string
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game Session, opts Options) Model {
	// Use time-based seed if not specified
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}

	m := Model{
		game:   game,
		screen: core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	m.help.Width = opts.Runtime.ScreenW
	m.startGame()
	return m
}

// startGame resets the game with the current seed and starts a recording.
func (m *Model) startGame() {
	cfg := m.opts.Runtime
	cfg.ScreenH = m.gameHeight()
	m.game.Reset(cfg)
	m.gameState = m.game.State()
	m.saved = false
	m.recorder = nil
	if m.opts.Replays != nil && m.opts.Config.Replay.Record {
		m.recorder = replay.NewRecorder(cfg.Seed, cfg.TickRate)
	}
}

// gameHeight is the screen height left for the game after the help bar.
func (m Model) gameHeight() int {
	if m.opts.Config.Display.ShowHelp {
		return max(m.opts.Runtime.ScreenH-1, 0)
	}
	return m.opts.Runtime.ScreenH
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.finishRecording(replay.OutcomeQuit)
		m.quitting = true
		if m.opts.Embedded {
			return m, nil
		}
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events. The board has a fixed size,
// so the running game is kept.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.opts.Runtime.ScreenW = msg.Width
	m.opts.Runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, m.gameHeight())
	m.game.Resize(msg.Width, m.gameHeight())
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Restart is handled here so every game gets its own seed and replay.
	if m.inputFrame.Has(core.ActionRestart) && m.game.CanRestart() {
		outcome := replay.OutcomeRestart
		if m.gameState.GameOver {
			outcome = replay.OutcomeGameOver
		}
		m.finishRecording(outcome)
		m.opts.Runtime.Seed = time.Now().UnixNano()
		m.startGame()
		m.inputFrame.Clear()
		return m, tickCmd(m.opts.Runtime.TickInterval())
	}

	if m.quitting {
		return m, nil
	}

	before := m.game.Tick()
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if m.recorder != nil && m.game.Tick() > before {
		m.recorder.Record(m.game.Tick(), m.inputFrame)
	}

	if cues := m.game.DrainCues(); len(cues) > 0 && m.opts.Sound != nil {
		m.opts.Sound.Play(cues...)
	}

	if m.gameState.GameOver {
		m.finishRecording(replay.OutcomeGameOver)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.opts.Runtime.TickInterval())
}

// finishRecording writes the current game's replay once. Games without
// any input are not kept.
func (m *Model) finishRecording(outcome string) {
	if m.recorder == nil || m.saved {
		return
	}
	m.saved = true
	if m.recorder.Frames() == 0 {
		return
	}
	rec := m.recorder.Finish(m.game.Snapshot(), outcome)
	// Best-effort save, game continues regardless
	if err := m.opts.Replays.SaveReplay(rec); err == nil {
		m.lastReplay = rec.ID
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".tetris", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	out := RenderScreen(m.screen)
	if m.opts.Config.Display.ShowHelp {
		out += "\n" + helpStyle.Render(m.help.View(m.keys))
	}
	return out
}

// Done reports whether the player quit the game.
func (m Model) Done() bool {
	return m.quitting
}

// LastReplay returns the id of the most recently saved replay, if any.
func (m Model) LastReplay() string {
	return m.lastReplay
}

// Run starts the Bubble Tea program with the given game and returns the
// id of the last replay it saved.
func Run(game Session, opts Options) (string, error) {
	p := tea.NewProgram(
		NewModel(game, opts),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(Model); ok {
		return m.LastReplay(), nil
	}
	return "", nil
}
