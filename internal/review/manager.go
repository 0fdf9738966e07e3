// Package review keeps ephemeral review panels in step with the approval
// feed. One panel exists per pending request; it is created when the request
// appears, updated in place while it persists and closed when it goes away.
package review

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/approval"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/logging"
)

// DefaultKind is the component name and id prefix of review panels.
const DefaultKind = dock.ComponentReview

// DefaultMinHeight is the height floor applied to the center group.
const DefaultMinHeight = 8

// PanelID returns the panel id of the request id under kind.
func PanelID(kind, requestID string) string {
	return kind + "-" + requestID
}

// Title returns the display title of a review panel.
func Title(req approval.Request) string {
	switch {
	case req.Path != "":
		return "Review: " + filepath.Base(req.Path)
	case req.Tool != "":
		return "Review: " + req.Tool
	default:
		return "Review"
	}
}

// Params returns the parameters a review panel is rendered from.
func Params(req approval.Request) dock.Params {
	p := dock.Params{
		"requestId": req.ID,
	}
	if req.Path != "" {
		p["path"] = req.Path
	}
	if req.Tool != "" {
		p["tool"] = req.Tool
	}
	if req.Summary != "" {
		p["summary"] = req.Summary
	}
	if len(req.Params) > 0 {
		p["params"] = req.Params
	}
	return p
}

// Manager reconciles review panels against approval snapshots. It must be
// used from the goroutine that owns the host.
type Manager struct {
	kind      string
	minHeight float64
	center    string
	logger    *log.Logger
}

// NewManager returns a manager for panels of kind. An empty kind uses
// DefaultKind; a non-positive minHeight uses DefaultMinHeight.
func NewManager(kind string, minHeight float64) *Manager {
	if kind == "" {
		kind = DefaultKind
	}
	if minHeight <= 0 {
		minHeight = DefaultMinHeight
	}
	return &Manager{
		kind:      kind,
		minHeight: minHeight,
		logger:    logging.New("review"),
	}
}

// Kind returns the component name of managed panels.
func (m *Manager) Kind() string { return m.kind }

// CenterGroup returns the id of the group the last review panel was
// created in, or "". The workspace UI draws that group with the review
// border. The id goes stale once every review in it closes.
func (m *Manager) CenterGroup() string { return m.center }

// Reconcile brings the host's review panels in line with snap. Nothing
// happens until the snapshot is loaded. Stale panels are closed before any
// new panel is created.
func (m *Manager) Reconcile(host dock.Host, snap approval.Snapshot) error {
	if host == nil || !snap.Loaded {
		return nil
	}

	expected := make(map[string]struct{}, len(snap.Requests))
	live := make([]approval.Request, 0, len(snap.Requests))
	for _, req := range snap.Requests {
		if req.ID == "" {
			m.logger.Warn("skipping approval request without id", "path", req.Path, "tool", req.Tool)
			continue
		}
		id := PanelID(m.kind, req.ID)
		if _, dup := expected[id]; dup {
			continue
		}
		expected[id] = struct{}{}
		live = append(live, req)
	}

	for _, p := range host.Panels() {
		if p.Component() != m.kind {
			continue
		}
		if _, ok := expected[p.ID()]; ok {
			continue
		}
		m.logger.Debug("closing review panel", "panel", p.ID())
		p.Close()
	}

	for _, req := range live {
		id := PanelID(m.kind, req.ID)
		if p := host.Panel(id); p != nil {
			p.UpdateParameters(Params(req))
			p.SetTitle(Title(req))
			continue
		}
		if err := m.create(host, id, req); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) create(host dock.Host, id string, req approval.Request) error {
	p, err := host.AddPanel(dock.AddPanelOptions{
		ID:        id,
		Component: m.kind,
		Title:     Title(req),
		Params:    Params(req),
		Position:  m.position(host, req),
	})
	if err != nil {
		return fmt.Errorf("adding review panel %q: %w", id, err)
	}
	m.logger.Debug("created review panel", "panel", id)

	m.closePlaceholders(host, id)

	g := p.Group()
	if g == nil {
		return nil
	}
	m.center = g.ID()
	g.SetConstraints(dock.Bounds{
		Dimension: dock.Height,
		Minimum:   m.minHeight,
		Maximum:   dock.Unbounded,
	})
	return nil
}

// closePlaceholders closes every empty placeholder once a review exists.
// The placeholder usually sits in a group of its own, beside the split the
// review opened in.
func (m *Manager) closePlaceholders(host dock.Host, keep string) {
	for _, p := range host.Panels() {
		if p.Component() == dock.ComponentEmpty && p.ID() != keep {
			m.logger.Debug("closing placeholder", "panel", p.ID())
			p.Close()
		}
	}
}

// position picks where a new review panel goes: beside the editor showing
// the same file, above the shell, or right of the file tree.
func (m *Manager) position(host dock.Host, req approval.Request) dock.Position {
	panels := host.Panels()

	if req.Path != "" {
		for _, p := range panels {
			if p.Component() != dock.ComponentEditor || p.Group() == nil {
				continue
			}
			if dock.SamePath(p.Params().String("path"), req.Path) {
				return dock.Position{Direction: dock.Right, ReferenceGroup: p.Group().ID()}
			}
		}
	}

	for _, p := range panels {
		if p.Component() == dock.ComponentShell && p.Group() != nil {
			return dock.Position{Direction: dock.Above, ReferenceGroup: p.Group().ID()}
		}
	}

	if p := host.Panel(dock.ComponentFileTree); p != nil {
		return dock.Position{Direction: dock.Right, ReferencePanel: p.ID()}
	}
	return dock.Position{Direction: dock.Right}
}
