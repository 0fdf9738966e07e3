package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ---------------------------------------------------------------------------
// KeyMap
// ---------------------------------------------------------------------------

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Panels
	ToggleFileTree key.Binding
	ToggleTerminal key.Binding
	ToggleShell    key.Binding
	Shrink         key.Binding
	Grow           key.Binding

	// History
	Undo key.Binding
	Redo key.Binding

	// Navigation
	FocusNext key.Binding
	FocusPrev key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybinding configuration for the Dockyard TUI.
// Key names follow the Bubble Tea format ("ctrl+b", "shift+tab", etc.).
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// --- Panels ---
		ToggleFileTree: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle file tree"),
		),
		ToggleTerminal: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("ctrl+j", "toggle terminal"),
		),
		ToggleShell: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "toggle shell"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "shrink focused panel"),
		),
		Grow: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "grow focused panel"),
		),

		// --- History ---
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo collapse"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "redo collapse"),
		),

		// --- Navigation ---
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),

		// --- General ---
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
	}
}

// ---------------------------------------------------------------------------
// Focus cycling
// ---------------------------------------------------------------------------

// NextFocus returns the index after current in a cycle of n entries.
func NextFocus(current, n int) int {
	if n <= 0 {
		return 0
	}
	return (current + 1) % n
}

// PrevFocus returns the index before current in a cycle of n entries.
func PrevFocus(current, n int) int {
	if n <= 0 {
		return 0
	}
	return (current + n - 1) % n
}

// ---------------------------------------------------------------------------
// HelpOverlay
// ---------------------------------------------------------------------------

// HelpOverlay displays a centered keybinding reference over the TUI.
type HelpOverlay struct {
	theme   Theme
	keyMap  KeyMap
	title   string
	visible bool
	width   int
	height  int
}

// NewHelpOverlay creates a hidden HelpOverlay. title heads the box.
func NewHelpOverlay(theme Theme, keyMap KeyMap, title string) HelpOverlay {
	return HelpOverlay{
		theme:  theme,
		keyMap: keyMap,
		title:  title,
	}
}

// SetDimensions updates the terminal dimensions used to center the overlay.
func (h *HelpOverlay) SetDimensions(width, height int) {
	h.width = width
	h.height = height
}

// Toggle flips the visibility of the help overlay.
func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

// IsVisible reports whether the overlay is currently shown.
func (h HelpOverlay) IsVisible() bool {
	return h.visible
}

// Update processes key events when the overlay is visible. Pressing '?' or
// 'Esc' dismisses the overlay; all other keys are consumed without action.
func (h HelpOverlay) Update(msg tea.Msg) (HelpOverlay, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, h.keyMap.Help):
			h.visible = false
		case keyMsg.Type == tea.KeyEsc:
			h.visible = false
		}
	}
	return h, nil
}

// View renders the help overlay centered on the full terminal. Returns an
// empty string when not visible or when dimensions are not yet known.
func (h HelpOverlay) View() string {
	if !h.visible || h.width == 0 || h.height == 0 {
		return ""
	}

	boxed := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Render(h.buildContent())

	return lipgloss.Place(
		h.width, h.height,
		lipgloss.Center, lipgloss.Center,
		boxed,
	)
}

func (h HelpOverlay) buildContent() string {
	var sb strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)
	sb.WriteString(titleStyle.Render(h.title + " - Keyboard Shortcuts"))
	sb.WriteString("\n\n")

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent)

	sections := []struct {
		name     string
		bindings []key.Binding
	}{
		{"Panels", []key.Binding{h.keyMap.ToggleFileTree, h.keyMap.ToggleTerminal, h.keyMap.ToggleShell, h.keyMap.Shrink, h.keyMap.Grow}},
		{"History", []key.Binding{h.keyMap.Undo, h.keyMap.Redo}},
		{"Navigation", []key.Binding{h.keyMap.FocusNext, h.keyMap.FocusPrev}},
		{"General", []key.Binding{h.keyMap.Help, h.keyMap.Quit}},
	}
	for _, s := range sections {
		sb.WriteString(sectionStyle.Render(s.name))
		sb.WriteString("\n")
		for _, b := range s.bindings {
			sb.WriteString(h.bindingLine(b))
		}
		sb.WriteString("\n")
	}

	hintStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	sb.WriteString(hintStyle.Render("Press ? or Esc to close"))

	return sb.String()
}

// bindingLine formats a single key.Binding as "  KEY  description\n".
func (h HelpOverlay) bindingLine(b key.Binding) string {
	k := h.theme.HelpKey.Render(b.Help().Key)
	d := h.theme.HelpDesc.Render(b.Help().Desc)
	return "  " + k + "  " + d + "\n"
}
