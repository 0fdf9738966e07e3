package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
)

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

// MinTerminalWidth is the minimum terminal width (in columns) required for
// the dock to render. Below this threshold RenderTooSmall is used instead.
const MinTerminalWidth = 60

// MinTerminalHeight is the minimum terminal height (in rows) required for
// the dock to render.
const MinTerminalHeight = 20

// TitleBarHeight is the number of terminal rows consumed by the title bar.
const TitleBarHeight = 1

// StatusBarHeight is the number of terminal rows consumed by the status bar.
const StatusBarHeight = 1

// ---------------------------------------------------------------------------
// GroupView
// ---------------------------------------------------------------------------

// GroupView is one group ready to draw: its rectangle in content-area
// coordinates, the tab strip and the body of its active panel.
type GroupView struct {
	Rect    dock.Rect
	Tabs    string
	Body    string
	Focused bool
	// Center marks the group reviews open in.
	Center bool
}

// ---------------------------------------------------------------------------
// Frame
// ---------------------------------------------------------------------------

// Frame tracks the terminal size and assembles a full screen from the title
// bar, the arranged dock groups and the status bar.
//
//	+---------------------------------------------------+
//	| Title Bar (1 line)                                |
//	+---------------------------------------------------+
//	| groups tiled by dock.Layout.Arrange               |
//	+---------------------------------------------------+
//	| Status Bar (1 line)                               |
//	+---------------------------------------------------+
type Frame struct {
	termWidth  int
	termHeight int
}

// Resize records the terminal size. It returns false when the terminal is
// below MinTerminalWidth x MinTerminalHeight.
func (f *Frame) Resize(width, height int) bool {
	f.termWidth = width
	f.termHeight = height
	return !f.IsTooSmall()
}

// IsTooSmall reports whether the last known size is below the minimum.
func (f Frame) IsTooSmall() bool {
	return f.termWidth < MinTerminalWidth || f.termHeight < MinTerminalHeight
}

// TerminalSize returns the most recently recorded (width, height).
func (f Frame) TerminalSize() (int, int) {
	return f.termWidth, f.termHeight
}

// ContentSize is the area between the title bar and the status bar that the
// dock groups tile.
func (f Frame) ContentSize() (int, int) {
	return f.termWidth, max(f.termHeight-TitleBarHeight-StatusBarHeight, 0)
}

// Render draws the screen. Group rectangles must tile the content area.
func (f Frame) Render(theme Theme, titleBar string, groups []GroupView, statusBar string) string {
	width, height := f.ContentSize()

	boxes := make([][]string, len(groups))
	for i, g := range groups {
		boxes[i] = renderBox(theme, g)
	}
	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(groups[a].Rect.X, groups[b].Rect.X)
	})

	lines := make([]string, 0, height+TitleBarHeight+StatusBarHeight)
	lines = append(lines, fitLine(titleBar, f.termWidth))
	for y := 0; y < height; y++ {
		var row strings.Builder
		for _, i := range order {
			r := groups[i].Rect
			if y < r.Y || y >= r.Y+r.Height {
				continue
			}
			row.WriteString(boxes[i][y-r.Y])
		}
		lines = append(lines, fitLine(row.String(), width))
	}
	lines = append(lines, fitLine(statusBar, f.termWidth))
	return strings.Join(lines, "\n")
}

// RenderTooSmall returns a centered resize hint.
func (f Frame) RenderTooSmall(theme Theme) string {
	msg := fmt.Sprintf("Terminal too small.\nPlease resize to at least %dx%d.", MinTerminalWidth, MinTerminalHeight)
	styled := theme.ErrorText.Render(msg)
	if f.termWidth <= 0 || f.termHeight <= 0 {
		return styled
	}
	return lipgloss.Place(f.termWidth, f.termHeight, lipgloss.Center, lipgloss.Center, styled)
}

// renderBox draws a group as exactly Rect.Height lines of Rect.Width
// columns. Groups too small for a border show only their tab strip.
func renderBox(theme Theme, g GroupView) []string {
	w, h := g.Rect.Width, g.Rect.Height
	if w <= 0 || h <= 0 {
		return nil
	}

	if w < 3 || h < 3 {
		lines := make([]string, h)
		lines[0] = fitLine(theme.Collapsed.Render(g.Tabs), w)
		for i := 1; i < h; i++ {
			lines[i] = strings.Repeat(" ", w)
		}
		return lines
	}

	innerW, innerH := w-2, h-2
	content := make([]string, 0, innerH)
	content = append(content, fitLine(g.Tabs, innerW))
	for _, line := range strings.Split(g.Body, "\n") {
		if len(content) == innerH {
			break
		}
		content = append(content, fitLine(line, innerW))
	}

	style := theme.Group
	switch {
	case g.Focused:
		style = theme.GroupFocused
	case g.Center:
		style = theme.GroupCenter
	}
	rendered := style.
		Width(innerW).
		Height(innerH).
		MaxHeight(h).
		Render(strings.Join(content, "\n"))

	lines := strings.Split(rendered, "\n")
	for len(lines) < h {
		lines = append(lines, strings.Repeat(" ", w))
	}
	lines = lines[:h]
	for i := range lines {
		lines[i] = fitLine(lines[i], w)
	}
	return lines
}

// fitLine truncates or pads s to exactly width columns.
func fitLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		s = lipgloss.NewStyle().MaxWidth(width).Render(s)
	}
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
