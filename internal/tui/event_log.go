package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MaxEventLogEntries is the maximum number of entries retained in the
// activity log. When the buffer is full the oldest entry is evicted.
const MaxEventLogEntries = 500

// ---------------------------------------------------------------------------
// EventCategory
// ---------------------------------------------------------------------------

// EventCategory classifies an activity log entry for colour-coded display.
type EventCategory int

const (
	// EventInfo is the default category for informational messages.
	EventInfo EventCategory = iota
	// EventSuccess indicates a completed operation.
	EventSuccess
	// EventWarning indicates a cautionary condition such as a new review.
	EventWarning
	// EventError indicates a failure.
	EventError
)

// EventEntry is a single entry in the activity log ring buffer.
type EventEntry struct {
	Timestamp time.Time
	Category  EventCategory
	Message   string
}

// ---------------------------------------------------------------------------
// EventLogModel
// ---------------------------------------------------------------------------

// EventLogModel is the scrollable activity log shown in the body of the
// terminal group. It keeps a bounded ring buffer of entries and drives a
// bubbles/viewport for display. The surrounding frame draws its border.
type EventLogModel struct {
	theme      Theme
	width      int
	height     int
	focused    bool
	entries    []EventEntry
	viewport   viewport.Model
	autoScroll bool
	now        func() time.Time
}

// NewEventLogModel creates an empty EventLogModel with auto-scroll enabled.
func NewEventLogModel(theme Theme) EventLogModel {
	return EventLogModel{
		theme:      theme,
		autoScroll: true,
		viewport:   viewport.New(0, 0),
		now:        time.Now,
	}
}

// SetDimensions resizes the viewport to the body area of the group.
func (el *EventLogModel) SetDimensions(width, height int) {
	if width == el.width && height == el.height {
		return
	}
	el.width = max(width, 0)
	el.height = max(height, 0)
	el.viewport.Width = el.width
	el.viewport.Height = el.height
	el.rebuildContent()
}

// SetFocused sets whether key events scroll the log.
func (el *EventLogModel) SetFocused(focused bool) {
	el.focused = focused
}

// Entries returns a copy of the buffered entries, oldest first.
func (el EventLogModel) Entries() []EventEntry {
	return slices.Clone(el.entries)
}

// AddEntry appends an entry, evicting the oldest past MaxEventLogEntries.
func (el *EventLogModel) AddEntry(category EventCategory, message string) {
	el.entries = append(el.entries, EventEntry{
		Timestamp: el.now(),
		Category:  category,
		Message:   message,
	})
	if len(el.entries) > MaxEventLogEntries {
		el.entries = el.entries[len(el.entries)-MaxEventLogEntries:]
	}
	el.rebuildContent()
}

// Addf is AddEntry with a format string.
func (el *EventLogModel) Addf(category EventCategory, format string, args ...any) {
	el.AddEntry(category, fmt.Sprintf(format, args...))
}

func (el *EventLogModel) rebuildContent() {
	if len(el.entries) == 0 {
		el.viewport.SetContent("")
		return
	}

	lines := make([]string, len(el.entries))
	for i, e := range el.entries {
		lines[i] = el.formatEntry(e)
	}
	el.viewport.SetContent(strings.Join(lines, "\n"))

	if el.autoScroll {
		el.viewport.GotoBottom()
	}
}

// formatEntry renders an entry as "HH:MM:SS message".
func (el EventLogModel) formatEntry(entry EventEntry) string {
	ts := el.theme.EventTimestamp.Render(entry.Timestamp.Format("15:04:05"))
	return ts + " " + el.categoryStyle(entry.Category).Render(entry.Message)
}

func (el EventLogModel) categoryStyle(cat EventCategory) lipgloss.Style {
	switch cat {
	case EventSuccess:
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	case EventWarning:
		return lipgloss.NewStyle().Foreground(ColorWarning)
	case EventError:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	default:
		return el.theme.EventMessage
	}
}

// ---------------------------------------------------------------------------
// Update / View
// ---------------------------------------------------------------------------

// Update scrolls the viewport on navigation keys while focused. Everything
// else is ignored.
func (el EventLogModel) Update(msg tea.Msg) (EventLogModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !el.focused {
		return el, nil
	}

	switch keyMsg.Type {
	case tea.KeyUp:
		el.viewport.ScrollUp(1)
		el.autoScroll = false
	case tea.KeyDown:
		el.viewport.ScrollDown(1)
		el.autoScroll = el.viewport.AtBottom()
	case tea.KeyPgUp:
		el.viewport.PageUp()
		el.autoScroll = false
	case tea.KeyPgDown:
		el.viewport.PageDown()
		el.autoScroll = el.viewport.AtBottom()
	case tea.KeyHome:
		el.viewport.GotoTop()
		el.autoScroll = false
	case tea.KeyEnd:
		el.viewport.GotoBottom()
		el.autoScroll = true
	}
	return el, nil
}

// View renders the visible part of the log, or a placeholder when empty.
func (el EventLogModel) View() string {
	if el.width <= 0 || el.height <= 0 {
		return ""
	}
	if len(el.entries) == 0 {
		return el.theme.BodyMuted.Render("No activity yet")
	}
	return el.viewport.View()
}

// ---------------------------------------------------------------------------
// Classify helpers
// ---------------------------------------------------------------------------

// diffReviews compares two sets of review panel ids and returns the ids that
// were opened and closed, each sorted.
func diffReviews(before, after []string) (opened, closed []string) {
	prev := make(map[string]bool, len(before))
	for _, id := range before {
		prev[id] = true
	}
	next := make(map[string]bool, len(after))
	for _, id := range after {
		next[id] = true
		if !prev[id] {
			opened = append(opened, id)
		}
	}
	for _, id := range before {
		if !next[id] {
			closed = append(closed, id)
		}
	}
	slices.Sort(opened)
	slices.Sort(closed)
	return opened, closed
}
