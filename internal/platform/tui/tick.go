// Package tui provides the Bubble Tea frontends: the game loop, the replay
// browser and playback, and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one fixed simulation step.
type TickMsg time.Time

// tickCmd schedules the next TickMsg one interval from now.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
