package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MenuChoice is what the player picked on the title menu.
type MenuChoice int

const (
	MenuNone MenuChoice = iota
	MenuPlay
	MenuReplays
	MenuQuit
)

// MenuItem is one selectable line of the title menu.
type MenuItem struct {
	Title  string
	Choice MenuChoice
}

// MenuKeyMap defines the key bindings for the menu.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuFooterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the title menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	keys     MenuKeyMap
	embedded bool
	choice   MenuChoice
}

// NewMenuModel creates a new menu model. An embedded menu reports its
// choice through Choice instead of quitting the program.
func NewMenuModel(width, height int, embedded bool) MenuModel {
	return MenuModel{
		items: []MenuItem{
			{Title: "Play", Choice: MenuPlay},
			{Title: "Replays", Choice: MenuReplays},
			{Title: "Quit", Choice: MenuQuit},
		},
		width:    width,
		height:   height,
		keys:     DefaultMenuKeyMap(),
		embedded: embedded,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.choose(MenuQuit)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		return m.choose(m.items[m.cursor].Choice)
	}

	return m, nil
}

func (m MenuModel) choose(c MenuChoice) (tea.Model, tea.Cmd) {
	m.choice = c
	if m.embedded {
		return m, nil
	}
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.choice != MenuNone && !m.embedded {
		return ""
	}

	var b strings.Builder
	top := max((m.height-len(m.items)-6)/2, 0)
	b.WriteString(strings.Repeat("\n", top))

	b.WriteString(centerText(menuTitleStyle.Render("T E T R I S"), "T E T R I S", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		rendered := line
		if i == m.cursor {
			line = "> " + item.Title
			rendered = menuSelectedStyle.Render(line)
		}
		b.WriteString(centerText(rendered, line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Q: Quit"
	b.WriteString(centerText(menuFooterStyle.Render(controls), controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Choice returns the selected entry, or MenuNone.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// centerText pads a rendered string so its plain form is centered within
// width.
func centerText(rendered, plain string, width int) string {
	n := len([]rune(plain))
	if n >= width {
		return rendered
	}
	return strings.Repeat(" ", (width-n)/2) + rendered
}

// RunMenu runs the title menu and returns the choice.
func RunMenu(width, height int) (MenuChoice, error) {
	p := tea.NewProgram(
		NewMenuModel(width, height, false),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return MenuQuit, err
	}
	if m, ok := final.(MenuModel); ok && m.Choice() != MenuNone {
		return m.Choice(), nil
	}
	return MenuQuit, nil
}
