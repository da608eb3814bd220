package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/replay"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var playbackSpeeds = []int{1, 2, 4, 8}

// PlaybackKeyMap defines the key bindings while watching a replay.
type PlaybackKeyMap struct {
	Pause  key.Binding
	Faster key.Binding
	Slower key.Binding
	Back   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlaybackKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Faster, k.Slower, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k PlaybackKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultPlaybackKeyMap returns default key bindings.
func DefaultPlaybackKeyMap() PlaybackKeyMap {
	return PlaybackKeyMap{
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Faster: key.NewBinding(
			key.WithKeys("right", "+", "l"),
			key.WithHelp("→/+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("left", "-", "h"),
			key.WithHelp("←/-", "slower"),
		),
		Back: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "back"),
		),
	}
}

// PlaybackModel replays a recording at its own tick rate.
type PlaybackModel struct {
	player   *replay.Player
	screen   *core.Screen
	keys     PlaybackKeyMap
	help     help.Model
	width    int
	height   int
	speed    int // Index into playbackSpeeds
	paused   bool
	embedded bool
	done     bool // Viewer left the playback
	interval time.Duration
}

// NewPlaybackModel prepares a recording for watching.
func NewPlaybackModel(rec storage.Replay, cfg config.TetrisConfig, width, height int, embedded bool) PlaybackModel {
	gameH := max(height-1, 0)
	h := help.New()
	h.Width = width
	return PlaybackModel{
		player:   replay.NewPlayer(rec, cfg, width, gameH),
		screen:   core.NewScreen(width, gameH),
		keys:     DefaultPlaybackKeyMap(),
		help:     h,
		width:    width,
		height:   height,
		embedded: embedded,
		interval: core.RuntimeConfig{TickRate: rec.TickRate}.TickInterval(),
	}
}

// Init starts the playback clock.
func (m PlaybackModel) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles messages during playback.
func (m PlaybackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.done = true
			if m.embedded {
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Faster):
			m.speed = core.Clamp(m.speed+1, 0, len(playbackSpeeds)-1)
		case key.Matches(msg, m.keys.Slower):
			m.speed = core.Clamp(m.speed-1, 0, len(playbackSpeeds)-1)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		gameH := max(msg.Height-1, 0)
		m.screen.Resize(msg.Width, gameH)
		m.player.Game().Resize(msg.Width, gameH)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			for range playbackSpeeds[m.speed] {
				m.player.Step()
			}
		}
		return m, tickCmd(m.interval)
	}

	return m, nil
}

// View renders the replayed game with a status line.
func (m PlaybackModel) View() string {
	if m.done && !m.embedded {
		return ""
	}

	g := m.player.Game()
	g.Render(m.screen)

	rec := m.player.Replay()
	status := fmt.Sprintf("REPLAY %s  x%d  tick %d/%d", shortID(rec.ID), playbackSpeeds[m.speed], g.Tick(), rec.Ticks)
	switch {
	case m.player.Done():
		status += "  [end]"
	case m.paused:
		status += "  [paused]"
	}

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderScreen(m.screen) + "\n" + statusStyle.Render(status+"  "+m.help.View(m.keys))
}

// Done reports whether the viewer left the playback.
func (m PlaybackModel) Done() bool {
	return m.done
}

func shortID(id string) string {
	if len(id) > idPrefix {
		return id[:idPrefix]
	}
	return id
}

// RunPlayback watches a recording in the terminal.
func RunPlayback(rec storage.Replay, cfg config.TetrisConfig, width, height int) error {
	p := tea.NewProgram(
		NewPlaybackModel(rec, cfg, width, height, false),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
