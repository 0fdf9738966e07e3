package review

import (
	"errors"
	"fmt"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
)

// recHost is a recording dock.Host. AddPanel places the new panel in a group
// of its own unless the position is Within an existing group.
type recHost struct {
	order   []*recPanel
	groups  map[string]*recGroup
	calls   []string
	addErr  error
	nextGrp int
}

func newRecHost() *recHost {
	return &recHost{groups: make(map[string]*recGroup)}
}

// open adds a pre-existing panel in its own group, or in group when set.
func (h *recHost) open(id, component string, params dock.Params, group string) *recPanel {
	g := h.groups[group]
	if g == nil {
		if group == "" {
			group = "g-" + id
		}
		g = &recGroup{id: group, host: h}
		h.groups[group] = g
	}
	p := &recPanel{id: id, component: component, params: params, group: g, host: h}
	g.panels = append(g.panels, p)
	h.order = append(h.order, p)
	return p
}

func (h *recHost) Panel(id string) dock.Panel {
	for _, p := range h.order {
		if p.id == id {
			return p
		}
	}
	return nil
}

func (h *recHost) Panels() []dock.Panel {
	out := make([]dock.Panel, 0, len(h.order))
	for _, p := range h.order {
		out = append(out, p)
	}
	return out
}

func (h *recHost) AddPanel(opts dock.AddPanelOptions) (dock.Panel, error) {
	ref := opts.Position.ReferenceGroup
	if ref == "" {
		ref = opts.Position.ReferencePanel
	}
	h.calls = append(h.calls, fmt.Sprintf("add %s %s %s", opts.ID, opts.Position.Direction, ref))
	if h.addErr != nil {
		return nil, h.addErr
	}
	if h.Panel(opts.ID) != nil {
		return nil, dock.ErrDuplicatePanel
	}
	group := ""
	if opts.Position.Direction == dock.Within {
		group = opts.Position.ReferenceGroup
	} else {
		h.nextGrp++
		group = fmt.Sprintf("new-%d", h.nextGrp)
	}
	p := h.open(opts.ID, opts.Component, opts.Params, group)
	p.title = opts.Title
	return p, nil
}

func (h *recHost) remove(p *recPanel) {
	for i, q := range h.order {
		if q == p {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	g := p.group
	for i, q := range g.panels {
		if q == p {
			g.panels = append(g.panels[:i], g.panels[i+1:]...)
			break
		}
	}
	p.group = nil
}

type recPanel struct {
	id        string
	component string
	title     string
	params    dock.Params
	group     *recGroup
	host      *recHost
}

func (p *recPanel) ID() string          { return p.id }
func (p *recPanel) Component() string   { return p.component }
func (p *recPanel) Title() string       { return p.title }
func (p *recPanel) Params() dock.Params { return p.params }

func (p *recPanel) Group() dock.Group {
	if p.group == nil {
		return nil
	}
	return p.group
}

func (p *recPanel) UpdateParameters(params dock.Params) {
	p.params = params
	p.host.calls = append(p.host.calls, "update "+p.id)
}

func (p *recPanel) SetTitle(title string) {
	p.title = title
	p.host.calls = append(p.host.calls, fmt.Sprintf("title %s %q", p.id, title))
}

func (p *recPanel) Close() {
	p.host.calls = append(p.host.calls, "close "+p.id)
	p.host.remove(p)
}

type recGroup struct {
	id     string
	host   *recHost
	panels []*recPanel
	bounds map[dock.Dimension]dock.Bounds
}

func (g *recGroup) ID() string { return g.id }

func (g *recGroup) SetConstraints(b dock.Bounds) {
	if g.bounds == nil {
		g.bounds = make(map[dock.Dimension]dock.Bounds)
	}
	g.bounds[b.Dimension] = b
	g.host.calls = append(g.host.calls, fmt.Sprintf("constraints %s %s=[%g,%g]", g.id, b.Dimension, b.Minimum, b.Maximum))
}

func (g *recGroup) Constraints(dim dock.Dimension) dock.Bounds { return g.bounds[dim] }
func (g *recGroup) SetSize(dock.Size)                          {}
func (g *recGroup) Size(dock.Dimension) float64                { return 0 }

func (g *recGroup) Panels() []dock.Panel {
	out := make([]dock.Panel, 0, len(g.panels))
	for _, p := range g.panels {
		out = append(out, p)
	}
	return out
}

var errHostDown = errors.New("host down")
