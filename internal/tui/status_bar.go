package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is the state the status bar displays. The App rebuilds it after
// every update.
type StatusInfo struct {
	// Focused is the id of the panel slot holding focus, empty when there
	// are no slots.
	Focused   string
	Dimension string
	Size      float64
	MinSize   float64
	Collapsed bool
	Reviews   int
	CanUndo   bool
	CanRedo   bool
	// Err is the most recent operation error, shown until the next success.
	Err string
}

// StatusBarModel renders the single-line status bar at the bottom of the
// TUI. Optional segments are dropped from the right when the terminal is too
// narrow.
type StatusBarModel struct {
	theme Theme
	width int
	info  StatusInfo
}

// NewStatusBarModel creates a StatusBarModel with the given theme.
func NewStatusBarModel(theme Theme) StatusBarModel {
	return StatusBarModel{theme: theme}
}

// SetWidth updates the status bar width.
func (sb *StatusBarModel) SetWidth(width int) {
	sb.width = width
}

// SetInfo replaces the displayed state.
func (sb *StatusBarModel) SetInfo(info StatusInfo) {
	sb.info = info
}

// Info returns the displayed state.
func (sb StatusBarModel) Info() StatusInfo {
	return sb.info
}

// View renders the status bar as exactly one line of sb.width columns.
//
//	filetree | width 28/18 | collapsed | 2 reviews | undo redo | error ... | ? help
func (sb StatusBarModel) View() string {
	if sb.width <= 0 {
		return ""
	}

	sep := sb.theme.StatusSeparator.Render(" | ")
	helpStr := sep + sb.theme.HelpKey.Render("?") + " " + sb.theme.HelpDesc.Render("help")

	type segment struct {
		text     string
		optional bool
	}
	segments := []segment{{text: sb.focusSegment()}}
	if sb.info.Focused != "" {
		segments = append(segments, segment{text: sep + sb.sizeSegment(), optional: true})
	}
	segments = append(segments,
		segment{text: sep + sb.reviewSegment()},
		segment{text: sep + sb.historySegment(), optional: true},
	)
	if sb.info.Err != "" {
		segments = append(segments, segment{text: sep + sb.theme.ErrorText.Render(sb.info.Err), optional: true})
	}

	// StatusBar has Padding(0,1).
	const barPadding = 2
	innerWidth := max(sb.width-barPadding, 0)
	helpWidth := lipgloss.Width(helpStr)

	mandatoryWidth := 0
	for _, seg := range segments {
		if !seg.optional {
			mandatoryWidth += lipgloss.Width(seg.text)
		}
	}
	optionalBudget := max(innerWidth-mandatoryWidth-helpWidth, 0)

	var leftParts []string
	optionalUsed := 0
	for _, seg := range segments {
		w := lipgloss.Width(seg.text)
		switch {
		case !seg.optional:
			leftParts = append(leftParts, seg.text)
		case optionalUsed+w <= optionalBudget:
			leftParts = append(leftParts, seg.text)
			optionalUsed += w
		}
	}

	left := strings.Join(leftParts, "")
	gap := max(innerWidth-lipgloss.Width(left)-helpWidth, 0)

	return sb.theme.StatusBar.
		Width(sb.width).
		MaxWidth(sb.width).
		MaxHeight(1).
		Render(left + strings.Repeat(" ", gap) + helpStr)
}

func (sb StatusBarModel) focusSegment() string {
	if sb.info.Focused == "" {
		return sb.theme.StatusValue.Render("no panels")
	}
	return sb.theme.StatusKey.Render(sb.info.Focused)
}

func (sb StatusBarModel) sizeSegment() string {
	if sb.info.Collapsed {
		return lipgloss.NewStyle().Foreground(ColorWarning).Render("collapsed")
	}
	return sb.theme.StatusValue.Render(fmt.Sprintf("%s %s/%s",
		sb.info.Dimension, formatSize(sb.info.Size), formatSize(sb.info.MinSize)))
}

func (sb StatusBarModel) reviewSegment() string {
	switch sb.info.Reviews {
	case 0:
		return sb.theme.StatusValue.Render("no reviews")
	case 1:
		return lipgloss.NewStyle().Foreground(ColorWarning).Render("1 review")
	default:
		return lipgloss.NewStyle().Foreground(ColorWarning).Render(fmt.Sprintf("%d reviews", sb.info.Reviews))
	}
}

func (sb StatusBarModel) historySegment() string {
	undo := sb.theme.StatusSeparator.Render("undo")
	if sb.info.CanUndo {
		undo = sb.theme.StatusValue.Render("undo")
	}
	redo := sb.theme.StatusSeparator.Render("redo")
	if sb.info.CanRedo {
		redo = sb.theme.StatusValue.Render("redo")
	}
	return undo + " " + redo
}

// formatSize prints whole sizes without a fraction.
func formatSize(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
