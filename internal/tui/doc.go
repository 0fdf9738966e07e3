// Package tui renders the dock layout as a Bubble Tea program: panel groups
// framed with lipgloss, an activity log, a status bar and a help overlay.
package tui
