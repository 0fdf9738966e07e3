package panel

import (
	"fmt"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
)

// fakeHost is a recording dock.Host. Every group mutation is appended to
// calls so tests can assert on both the set of calls and their order.
type fakeHost struct {
	panels map[string]*fakePanel
	calls  []string
}

func newFakeHost(ids ...string) *fakeHost {
	h := &fakeHost{panels: make(map[string]*fakePanel)}
	for _, id := range ids {
		p := &fakePanel{id: id}
		p.group = &fakeGroup{id: "g-" + id, host: h}
		h.panels[id] = p
	}
	return h
}

func (h *fakeHost) Panel(id string) dock.Panel {
	p, ok := h.panels[id]
	if !ok {
		return nil
	}
	return p
}

func (h *fakeHost) Panels() []dock.Panel {
	out := make([]dock.Panel, 0, len(h.panels))
	for _, p := range h.panels {
		out = append(out, p)
	}
	return out
}

func (h *fakeHost) AddPanel(opts dock.AddPanelOptions) (dock.Panel, error) {
	return nil, fmt.Errorf("fakeHost: AddPanel not supported")
}

func (h *fakeHost) group(id string) *fakeGroup {
	return h.panels[id].group
}

// sizeCalls returns only the recorded SetSize calls.
func (h *fakeHost) sizeCalls() []string {
	var out []string
	for _, c := range h.calls {
		if len(c) > 7 && c[:7] == "setSize" {
			out = append(out, c)
		}
	}
	return out
}

type fakePanel struct {
	id    string
	group *fakeGroup
}

func (p *fakePanel) ID() string                  { return p.id }
func (p *fakePanel) Component() string           { return p.id }
func (p *fakePanel) Title() string               { return p.id }
func (p *fakePanel) Params() dock.Params         { return nil }
func (p *fakePanel) UpdateParameters(dock.Params) {}
func (p *fakePanel) SetTitle(string)             {}
func (p *fakePanel) Close()                      {}

func (p *fakePanel) Group() dock.Group {
	if p.group == nil {
		return nil
	}
	return p.group
}

type fakeGroup struct {
	id     string
	host   *fakeHost
	bounds map[dock.Dimension]dock.Bounds
	sizes  map[dock.Dimension]float64
}

func (g *fakeGroup) ID() string { return g.id }

func (g *fakeGroup) SetConstraints(b dock.Bounds) {
	if g.bounds == nil {
		g.bounds = make(map[dock.Dimension]dock.Bounds)
	}
	g.bounds[b.Dimension] = b
	g.host.calls = append(g.host.calls, fmt.Sprintf("setConstraints %s %s=[%g,%g]", g.id, b.Dimension, b.Minimum, b.Maximum))
}

func (g *fakeGroup) Constraints(dim dock.Dimension) dock.Bounds {
	return g.bounds[dim]
}

func (g *fakeGroup) SetSize(s dock.Size) {
	if g.sizes == nil {
		g.sizes = make(map[dock.Dimension]float64)
	}
	g.sizes[s.Dimension] = s.Value
	g.host.calls = append(g.host.calls, fmt.Sprintf("setSize %s %s=%g", g.id, s.Dimension, s.Value))
}

func (g *fakeGroup) Size(dim dock.Dimension) float64 {
	return g.sizes[dim]
}

func (g *fakeGroup) Panels() []dock.Panel { return nil }
