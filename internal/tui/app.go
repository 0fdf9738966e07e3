package tui

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/approval"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/history"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/logging"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/workspace"
)

// HistoryLimit caps the number of collapsed-state snapshots kept for undo.
const HistoryLimit = 100

// Resize steps applied by the Shrink and Grow keys.
const (
	widthStep  = 2
	heightStep = 1
)

// AppConfig holds configuration for the TUI application.
type AppConfig struct {
	// Version is the Dockyard semantic version string (e.g. "1.0.0").
	Version string
	// Title is the branding name shown in the title bar.
	Title string
	// Workspace is the mounted dock the TUI drives. It must not be nil.
	Workspace *workspace.Workspace
	// BaseDir is listed in the file tree panel.
	BaseDir string
	// Context bounds the approval feed bridge. Defaults to Background.
	Context context.Context
}

// App is the top-level Bubble Tea model. It owns no layout state of its own:
// every toggle, resize and review change goes through the workspace, and
// View renders whatever dock.Layout.Arrange reports.
type App struct {
	config   AppConfig
	ws       *workspace.Workspace
	theme    Theme
	keys     KeyMap
	help     HelpOverlay
	status   StatusBarModel
	eventLog EventLogModel
	frame    Frame
	history  *history.History[map[string]bool]
	logger   *log.Logger

	// reconcile applies an approval snapshot to the layout.
	reconcile func(approval.Snapshot) error

	files    []string
	focus    int
	width    int
	height   int
	ready    bool
	quitting bool
	lastErr  string
}

// NewApp constructs an App focused on the first panel slot. The undo history
// starts from the workspace's current collapsed state.
func NewApp(cfg AppConfig) App {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Title == "" {
		cfg.Title = "Dockyard"
	}
	theme := DefaultTheme()
	keys := DefaultKeyMap()

	a := App{
		config:   cfg,
		ws:       cfg.Workspace,
		theme:    theme,
		keys:     keys,
		help:     NewHelpOverlay(theme, keys, cfg.Title),
		status:   NewStatusBarModel(theme),
		eventLog: NewEventLogModel(theme),
		history:  history.New(cfg.Workspace.Engine.CollapsedState(), history.WithLimit(HistoryLimit)),
		logger:   logging.New("tui"),
		files:    listDir(cfg.BaseDir),

		reconcile: cfg.Workspace.Apply,
	}
	a.eventLog.Addf(EventInfo, "Workspace ready: %d panels, %d reviews", len(a.slotIDs()), len(a.reviewIDs()))
	a.syncFocus()
	a.refreshStatus()
	return a
}

// Init starts listening on the approval feed when one is configured.
// bubbletea sends a WindowSizeMsg on startup, so nothing else is needed.
func (a App) Init() tea.Cmd {
	if a.ws.Feed == nil {
		return nil
	}
	return ApprovalCmd(a.config.Context, a.ws.Feed.Updates())
}

// Update dispatches incoming messages and returns the updated model plus any
// follow-up command.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
		a.height = m.Height
		a.ready = true
		a.frame.Resize(m.Width, m.Height)
		a.help.SetDimensions(m.Width, m.Height)
		a.status.SetWidth(m.Width)

	case ApprovalSnapshotMsg:
		a.applySnapshot(m)
		if a.ws.Feed != nil {
			cmd = ApprovalCmd(a.config.Context, a.ws.Feed.Updates())
		}

	case FeedClosedMsg:
		a.logger.Debug("approval feed closed")

	case tea.KeyMsg:
		if a.help.IsVisible() {
			a.help, cmd = a.help.Update(m)
			return a, cmd
		}
		var quit bool
		a, cmd, quit = a.handleKey(m)
		if quit {
			return a, cmd
		}
	}

	a.refreshStatus()
	return a, cmd
}

func (a App) handleKey(m tea.KeyMsg) (App, tea.Cmd, bool) {
	switch {
	case key.Matches(m, a.keys.Quit):
		a.quitting = true
		if err := a.ws.Engine.Flush(); err != nil {
			a.logger.Error("flushing panel sizes", "error", err)
		}
		return a, tea.Quit, true

	case key.Matches(m, a.keys.Help):
		a.help.Toggle()

	case key.Matches(m, a.keys.ToggleFileTree):
		a.toggle(dock.ComponentFileTree)
	case key.Matches(m, a.keys.ToggleTerminal):
		a.toggle(dock.ComponentTerminal)
	case key.Matches(m, a.keys.ToggleShell):
		a.toggle(dock.ComponentShell)

	case key.Matches(m, a.keys.Shrink):
		a.resizeFocused(-1)
	case key.Matches(m, a.keys.Grow):
		a.resizeFocused(1)

	case key.Matches(m, a.keys.Undo):
		if a.history.CanUndo() {
			a.applyCollapsed(a.history.Undo(), "Undo")
		}
	case key.Matches(m, a.keys.Redo):
		if a.history.CanRedo() {
			a.applyCollapsed(a.history.Redo(), "Redo")
		}

	case key.Matches(m, a.keys.FocusNext):
		a.focus = NextFocus(a.focus, len(a.slotIDs()))
		a.syncFocus()
	case key.Matches(m, a.keys.FocusPrev):
		a.focus = PrevFocus(a.focus, len(a.slotIDs()))
		a.syncFocus()

	default:
		a.eventLog, _ = a.eventLog.Update(m)
	}
	return a, nil, false
}

// toggle flips a slot and records the resulting collapsed state for undo.
// A persistence error is reported but the toggle stands.
func (a *App) toggle(id string) {
	if _, ok := a.ws.Engine.Store().Slot(id); !ok {
		a.fail(fmt.Errorf("no %s panel configured", id))
		return
	}
	err := a.ws.Engine.Toggle(id)
	a.history.Push(a.ws.Engine.CollapsedState())

	state := "expanded"
	if a.ws.Engine.CollapsedState()[id] {
		state = "collapsed"
	}
	a.eventLog.Addf(EventInfo, "%s %s", id, state)
	if err != nil {
		a.fail(err)
		return
	}
	a.lastErr = ""
}

func (a *App) applyCollapsed(state map[string]bool, verb string) {
	if err := a.ws.Engine.SetCollapsed(state); err != nil {
		a.fail(err)
		return
	}
	a.lastErr = ""
	a.eventLog.Addf(EventInfo, "%s: %s", verb, describeCollapsed(state))
}

func (a *App) resizeFocused(sign int) {
	id := a.focusedID()
	if id == "" {
		return
	}
	slot, _ := a.ws.Engine.Store().Slot(id)
	step := float64(heightStep)
	if slot.Dimension == dock.Width {
		step = widthStep
	}
	if err := a.ws.Engine.ResizeBy(id, step*float64(sign)); err != nil {
		a.fail(err)
	}
}

// applySnapshot reconciles reviews and logs every panel that opened or
// closed, including the ones a failed pass changed before it stopped.
func (a *App) applySnapshot(m ApprovalSnapshotMsg) {
	before := a.reviewIDs()
	err := a.reconcile(m.Snapshot)

	opened, closed := diffReviews(before, a.reviewIDs())
	for _, id := range opened {
		a.eventLog.Addf(EventWarning, "Review opened: %s", a.ws.Layout.Panel(id).Title())
	}
	for _, id := range closed {
		a.eventLog.Addf(EventSuccess, "Review closed: %s", id)
	}
	if err != nil {
		a.fail(fmt.Errorf("reconciling reviews: %w", err))
	}
}

func (a *App) fail(err error) {
	a.lastErr = err.Error()
	a.eventLog.AddEntry(EventError, a.lastErr)
	a.logger.Warn("operation failed", "error", err)
}

// ---------------------------------------------------------------------------
// Focus and status
// ---------------------------------------------------------------------------

func (a App) slotIDs() []string {
	return a.ws.Engine.Store().IDs()
}

func (a App) focusedID() string {
	ids := a.slotIDs()
	if len(ids) == 0 {
		return ""
	}
	return ids[a.focus%len(ids)]
}

// syncFocus lets the activity log scroll only while the terminal holds focus.
func (a *App) syncFocus() {
	a.eventLog.SetFocused(a.focusedID() == dock.ComponentTerminal)
}

func (a App) focusedGroup() string {
	p := a.ws.Layout.Panel(a.focusedID())
	if p == nil || p.Group() == nil {
		return ""
	}
	return p.Group().ID()
}

func (a App) reviewIDs() []string {
	var ids []string
	for _, p := range a.ws.Layout.Panels() {
		if p.Component() == a.ws.Reviews.Kind() {
			ids = append(ids, p.ID())
		}
	}
	return ids
}

func (a *App) refreshStatus() {
	info := StatusInfo{
		Focused: a.focusedID(),
		Reviews: len(a.reviewIDs()),
		CanUndo: a.history.CanUndo(),
		CanRedo: a.history.CanRedo(),
		Err:     a.lastErr,
	}
	if slot, ok := a.ws.Engine.Store().Slot(info.Focused); ok {
		info.Dimension = slot.Dimension.String()
		info.Size = slot.Size
		info.MinSize = slot.MinSize
		info.Collapsed = slot.Collapsed
		if p := a.ws.Layout.Panel(slot.ID); p != nil && p.Group() != nil && !slot.Collapsed {
			info.Size = p.Group().Size(slot.Dimension)
		}
	}
	a.status.SetInfo(info)
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the complete UI as a string.
func (a App) View() string {
	if a.quitting {
		return ""
	}
	if !a.ready {
		return "Initializing " + a.config.Title + "..."
	}
	if a.frame.IsTooSmall() {
		return a.frame.RenderTooSmall(a.theme)
	}
	if a.help.IsVisible() {
		return a.help.View()
	}

	width, height := a.frame.ContentSize()
	return a.frame.Render(a.theme, a.renderTitleBar(), a.groupViews(width, height), a.status.View())
}

// groupViews arranges the layout into the content area and renders each
// group's tabs and body.
func (a App) groupViews(width, height int) []GroupView {
	focused := a.focusedGroup()
	center := a.ws.Reviews.CenterGroup()
	rects := a.ws.Layout.Arrange(width, height)

	groups := make([]GroupView, 0, len(rects))
	for _, r := range rects {
		id := r.Group.ID()
		gv := GroupView{Rect: r, Focused: id == focused, Center: center != "" && id == center}
		gv.Tabs = a.renderTabs(r.Group)
		gv.Body = a.renderBody(r)
		groups = append(groups, gv)
	}
	return groups
}

func (a App) renderTitleBar() string {
	title := a.theme.TitleText.Render(a.config.Title)
	if a.config.Version != "" {
		title += " " + a.theme.TitleVersion.Render("v"+a.config.Version)
	}
	if a.config.BaseDir != "" {
		title += a.theme.TitleHint.Render("  " + a.config.BaseDir)
	}
	return a.theme.TitleBar.Width(a.width).MaxHeight(1).Render(title)
}

func (a App) renderTabs(g dock.Group) string {
	active := dock.ActivePanel(g)
	tabs := make([]string, 0, len(g.Panels()))
	for _, p := range g.Panels() {
		if active != nil && p.ID() == active.ID() {
			tabs = append(tabs, a.theme.TabActive.Render(p.Title()))
			continue
		}
		tabs = append(tabs, a.theme.Tab.Render(p.Title()))
	}
	return strings.Join(tabs, " ")
}

// renderBody draws the active panel of a group. It also sizes the activity
// log, which lives in the terminal group.
func (a App) renderBody(r dock.Rect) string {
	p := dock.ActivePanel(r.Group)
	if p == nil {
		return ""
	}
	if slot, ok := a.ws.Engine.Store().Slot(p.ID()); ok && slot.Collapsed {
		return a.theme.Collapsed.Render("collapsed")
	}

	innerW, innerH := max(r.Width-2, 0), max(r.Height-3, 0)
	switch p.Component() {
	case dock.ComponentFileTree:
		return a.renderFileTree(innerH)
	case dock.ComponentTerminal:
		el := a.eventLog
		el.SetDimensions(innerW, innerH)
		return el.View()
	case dock.ComponentShell:
		return a.theme.BodyMuted.Render("$ ")
	case dock.ComponentEmpty:
		return a.theme.BodyMuted.Render("No open reviews")
	case a.ws.Reviews.Kind():
		return a.renderReview(p)
	default:
		return a.theme.BodyMuted.Render(p.Component())
	}
}

func (a App) renderFileTree(height int) string {
	if len(a.files) == 0 {
		return a.theme.BodyMuted.Render("(empty)")
	}
	lines := make([]string, 0, min(len(a.files), height))
	for _, name := range a.files {
		if len(lines) == height {
			break
		}
		lines = append(lines, a.theme.Body.Render(name))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderReview(p dock.Panel) string {
	params := p.Params()
	lines := []string{a.theme.ReviewHeading.Render(p.Title())}
	for _, k := range []string{"path", "tool", "summary"} {
		if v := params.String(k); v != "" {
			lines = append(lines, a.theme.ReviewField.Render(k+": ")+a.theme.Body.Render(v))
		}
	}
	if extra, ok := params["params"].(map[string]any); ok && len(extra) > 0 {
		keys := make([]string, 0, len(extra))
		for k := range extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, a.theme.ReviewField.Render("  "+k+" = ")+a.theme.Body.Render(fmt.Sprint(extra[k])))
		}
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// listDir returns the entries of dir, directories first with a trailing
// slash. Errors yield an empty listing.
func listDir(dir string) []string {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var dirs, files []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name()+"/")
			continue
		}
		files = append(files, e.Name())
	}
	return append(dirs, files...)
}

// describeCollapsed lists the collapsed ids of a state, or "all expanded".
func describeCollapsed(state map[string]bool) string {
	var ids []string
	for id, c := range state {
		if c {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return "all expanded"
	}
	slices.Sort(ids)
	return strings.Join(ids, ", ") + " collapsed"
}

// RunTUI runs the program full-screen against cfg.Workspace, starting the
// approval feed watcher first. The caller owns the workspace and closes it.
// Logs go to logFile while the alternate screen is active.
func RunTUI(ctx context.Context, cfg AppConfig, logFile string) error {
	logger := logging.New("tui")
	if cfg.Workspace == nil {
		return fmt.Errorf("running TUI: no workspace")
	}

	if logFile != "" {
		restore, err := logging.RedirectToFile(logFile)
		if err != nil {
			return fmt.Errorf("redirecting logs: %w", err)
		}
		defer func() { _ = restore() }()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cfg.Context = ctx

	if feed := cfg.Workspace.Feed; feed != nil {
		if err := feed.Start(ctx); err != nil {
			logger.Warn("approval watcher not started", "path", feed.Path(), "error", err)
		}
	}

	logger.Info("starting TUI", "version", cfg.Version, "dir", cfg.BaseDir)
	p := tea.NewProgram(
		NewApp(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
