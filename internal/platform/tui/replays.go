package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// Replay browser layout constants
const (
	maxReplays = 100 // Max replays to load
	idPrefix   = 8   // Characters of the replay id shown
)

// ReplayStore is the part of the journal the browser needs.
type ReplayStore interface {
	ListReplays(gameID string, limit int) ([]storage.Replay, error)
	GetReplay(id string) (storage.Replay, error)
	DeleteReplay(id string) error
}

// ReplaysKeyMap defines the key bindings for the replay browser.
type ReplaysKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Watch  key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplaysKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Watch, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ReplaysKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Watch},
		{k.Delete, k.Back, k.Quit},
	}
}

// DefaultReplaysKeyMap returns default key bindings.
func DefaultReplaysKeyMap() ReplaysKeyMap {
	return ReplaysKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Watch: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "watch"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReplaysModel is the Bubble Tea model for the replay browser.
type ReplaysModel struct {
	store     ReplayStore
	replays   []storage.Replay
	table     table.Model
	help      help.Model
	keys      ReplaysKeyMap
	width     int
	height    int
	err       error
	embedded  bool
	selected  string // Id of the replay picked for watching
	quitting  bool
	goingBack bool
}

// NewReplaysModel creates a new replay browser. An embedded browser
// reports its result through Selected/IsGoingBack instead of quitting.
func NewReplaysModel(store ReplayStore, width, height int, embedded bool) ReplaysModel {
	h := help.New()
	h.Width = width

	m := ReplaysModel{
		store:    store,
		keys:     DefaultReplaysKeyMap(),
		help:     h,
		width:    width,
		height:   height,
		embedded: embedded,
	}
	m.table = m.createTable()
	m.loadReplays()
	return m
}

// createTable creates a new table sized for the current window.
func (m *ReplaysModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: idPrefix},
		{Title: "Score", Width: 8},
		{Title: "Level", Width: 5},
		{Title: "Lines", Width: 5},
		{Title: "Outcome", Width: 9},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadReplays reads the newest replays from the store.
func (m *ReplaysModel) loadReplays() {
	m.replays, m.err = nil, nil
	if m.store != nil {
		m.replays, m.err = m.store.ListReplays(tetris.ID, maxReplays)
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded replays.
func (m *ReplaysModel) updateTableRows() {
	rows := make([]table.Row, len(m.replays))
	for i, r := range m.replays {
		rows[i] = table.Row{
			shortID(r.ID),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Level),
			fmt.Sprintf("%d", r.Lines),
			r.Outcome,
			r.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoBottom()
	}
}

// current returns the replay under the cursor.
func (m ReplaysModel) current() (storage.Replay, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.replays) {
		return storage.Replay{}, false
	}
	return m.replays[i], true
}

// Init initializes the browser.
func (m ReplaysModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the browser.
func (m ReplaysModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, m.exit()

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, m.exit()

		case key.Matches(msg, m.keys.Watch):
			if r, ok := m.current(); ok {
				m.selected = r.ID
				return m, m.exit()
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if r, ok := m.current(); ok && m.store != nil {
				if err := m.store.DeleteReplay(r.ID); err != nil {
					m.err = err
					return m, nil
				}
				m.loadReplays()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ReplaysModel) exit() tea.Cmd {
	if m.embedded {
		return nil
	}
	return tea.Quit
}

// View renders the browser.
func (m ReplaysModel) View() string {
	if !m.embedded && (m.quitting || m.goingBack || m.selected != "") {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	title := "REPLAYS"
	b.WriteString(centerText(titleStyle.Render(title), title, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ReplaysModel) renderTableContent() string {
	if len(m.replays) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No replays recorded yet.\nPlay a game to record one!")
	}

	return m.table.View()
}

// Selected returns the id of the replay chosen for watching, if any.
func (m ReplaysModel) Selected() string {
	return m.selected
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ReplaysModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ReplaysModel) IsQuitting() bool {
	return m.quitting
}

// RunReplays runs the replay browser. It returns the id picked for
// watching, or "" with goBack telling whether to return to the menu.
func RunReplays(store ReplayStore, width, height int) (selected string, goBack bool, err error) {
	p := tea.NewProgram(
		NewReplaysModel(store, width, height, false),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return "", false, err
	}

	m, ok := final.(ReplaysModel)
	if !ok {
		return "", false, nil
	}
	return m.Selected(), m.IsGoingBack(), nil
}
