package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Every colour adapts to light and dark terminals.
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#1D4E89", Dark: "#5FA8D3"} // harbour blue: title, keys
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"} // focused group
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#86EFAC"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FCD34D"} // reviews, collapsed slots
	ColorError     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FCA5A5"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"}
	ColorSubtle    = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#475569"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#334155"}
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#F1F5F9", Dark: "#0F172A"}

	colorText   = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#E2E8F0"}
	colorOnBlue = lipgloss.Color("#F8FAFC")
)

// Theme holds the lipgloss styles of the workspace. Styles never carry a
// width or height; the frame renderer sizes each group box itself.
type Theme struct {
	TitleBar     lipgloss.Style
	TitleText    lipgloss.Style
	TitleVersion lipgloss.Style
	TitleHint    lipgloss.Style

	Group        lipgloss.Style
	GroupFocused lipgloss.Style
	GroupCenter  lipgloss.Style
	Tab          lipgloss.Style
	TabActive    lipgloss.Style
	Body         lipgloss.Style
	BodyMuted    lipgloss.Style
	Collapsed    lipgloss.Style

	ReviewHeading lipgloss.Style
	ReviewField   lipgloss.Style

	EventTimestamp lipgloss.Style
	EventMessage   lipgloss.Style

	StatusBar       lipgloss.Style
	StatusKey       lipgloss.Style
	StatusValue     lipgloss.Style
	StatusSeparator lipgloss.Style

	HelpKey   lipgloss.Style
	HelpDesc  lipgloss.Style
	ErrorText lipgloss.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	box := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c)
	}

	return Theme{
		TitleBar:     lipgloss.NewStyle().Bold(true).Background(ColorPrimary).Foreground(colorOnBlue).Padding(0, 1),
		TitleText:    fg(colorOnBlue).Bold(true),
		TitleVersion: fg(lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#DBEAFE"}),
		TitleHint:    fg(lipgloss.AdaptiveColor{Light: "#BFDBFE", Dark: "#BAE6FD"}),

		Group:        box(ColorBorder),
		GroupFocused: box(ColorAccent),
		GroupCenter:  box(ColorWarning),
		Tab:          fg(ColorMuted),
		TabActive:    fg(ColorPrimary).Bold(true).Underline(true),
		Body:         fg(colorText),
		BodyMuted:    fg(ColorMuted).Italic(true),
		Collapsed:    fg(ColorSubtle),

		ReviewHeading: fg(ColorWarning).Bold(true),
		ReviewField:   fg(ColorMuted),

		EventTimestamp: fg(ColorSubtle),
		EventMessage:   fg(colorText),

		StatusBar:       lipgloss.NewStyle().Background(ColorHighlight).Foreground(ColorMuted).Padding(0, 1),
		StatusKey:       fg(ColorPrimary).Bold(true),
		StatusValue:     fg(colorText),
		StatusSeparator: fg(ColorSubtle),

		HelpKey:   fg(ColorAccent).Bold(true),
		HelpDesc:  fg(ColorMuted),
		ErrorText: fg(ColorError).Bold(true),
	}
}
