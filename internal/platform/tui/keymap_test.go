package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"vim left", runeKey('h'), core.ActionLeft, false},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"down arrow", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, false},
		{"up rotates", tea.KeyMsg{Type: tea.KeyUp}, core.ActionRotate, false},
		{"x rotates", runeKey('x'), core.ActionRotate, false},
		{"space drops", runeKey(' '), core.ActionHardDrop, false},
		{"c holds", runeKey('c'), core.ActionHold, false},
		{"p pauses", runeKey('p'), core.ActionPause, false},
		{"esc pauses", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{"r restarts", runeKey('r'), core.ActionRestart, false},
		{"q quits", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := keys.MapKey(tt.msg)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.quit, quit)
		})
	}
}

func TestMapKeyToFrameKeepsOrder(t *testing.T) {
	keys := DefaultKeyMap()
	var frame core.InputFrame

	assert.False(t, keys.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyLeft}, &frame))
	assert.False(t, keys.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyUp}, &frame))
	assert.False(t, keys.MapKeyToFrame(runeKey('z'), &frame))
	assert.True(t, keys.MapKeyToFrame(runeKey('q'), &frame))

	assert.Equal(t, []core.Action{core.ActionLeft, core.ActionRotate}, frame.Actions)
}
