package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	t.Parallel()
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		msg     tea.KeyMsg
	}{
		{name: "toggle file tree", binding: km.ToggleFileTree, msg: tea.KeyMsg{Type: tea.KeyCtrlB}},
		{name: "toggle terminal", binding: km.ToggleTerminal, msg: tea.KeyMsg{Type: tea.KeyCtrlJ}},
		{name: "toggle shell", binding: km.ToggleShell, msg: tea.KeyMsg{Type: tea.KeyCtrlK}},
		{name: "shrink", binding: km.Shrink, msg: runes("[")},
		{name: "grow", binding: km.Grow, msg: runes("]")},
		{name: "undo", binding: km.Undo, msg: runes("u")},
		{name: "redo", binding: km.Redo, msg: tea.KeyMsg{Type: tea.KeyCtrlR}},
		{name: "focus next", binding: km.FocusNext, msg: tea.KeyMsg{Type: tea.KeyTab}},
		{name: "focus prev", binding: km.FocusPrev, msg: tea.KeyMsg{Type: tea.KeyShiftTab}},
		{name: "help", binding: km.Help, msg: runes("?")},
		{name: "quit q", binding: km.Quit, msg: runes("q")},
		{name: "quit ctrl+c", binding: km.Quit, msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, key.Matches(tt.msg, tt.binding))
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestFocusCycling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		current, n int
		next, prev int
	}{
		{current: 0, n: 3, next: 1, prev: 2},
		{current: 2, n: 3, next: 0, prev: 1},
		{current: 0, n: 1, next: 0, prev: 0},
		{current: 5, n: 0, next: 0, prev: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.next, NextFocus(tt.current, tt.n), "NextFocus(%d, %d)", tt.current, tt.n)
		assert.Equal(t, tt.prev, PrevFocus(tt.current, tt.n), "PrevFocus(%d, %d)", tt.current, tt.n)
	}
}

func TestHelpOverlay(t *testing.T) {
	t.Parallel()
	h := NewHelpOverlay(DefaultTheme(), DefaultKeyMap(), "Harbor")

	assert.False(t, h.IsVisible())
	h.Toggle()
	assert.Empty(t, h.View(), "no dimensions yet")

	h.SetDimensions(100, 40)
	view := h.View()
	assert.Contains(t, view, "Harbor - Keyboard Shortcuts")
	for _, section := range []string{"Panels", "History", "Navigation", "General", "toggle file tree", "redo collapse"} {
		assert.Contains(t, view, section)
	}

	h, _ = h.Update(runes("x"))
	assert.True(t, h.IsVisible(), "other keys are consumed")

	h, _ = h.Update(runes("?"))
	assert.False(t, h.IsVisible())

	h.Toggle()
	h, _ = h.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.IsVisible())
}
