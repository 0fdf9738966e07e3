package dock

import (
	"errors"
	"fmt"
	"math"
)

// ErrDuplicatePanel is returned by AddPanel when the id is already open.
var ErrDuplicatePanel = errors.New("panel already exists")

// ErrUnknownReference is returned by AddPanel when the position refers to a
// panel or group that is not part of the layout.
var ErrUnknownReference = errors.New("unknown position reference")

type splitKind int

const (
	splitNone splitKind = iota
	// splitRow lays children out left to right.
	splitRow
	// splitColumn lays children out top to bottom.
	splitColumn
)

type node struct {
	parent   *node
	split    splitKind
	children []*node
	group    *group
}

// Layout is an in-memory Host. Groups are the leaves of a binary split tree;
// each group holds one or more panels as tabs, one of which is active.
//
// Layout enforces width bounds on every SetSize and SetConstraints call, the
// way an interactive dock re-validates widths while the user drags a sash.
// Heights are stored as requested and only clamped by Arrange.
//
// Layout is not safe for concurrent use.
type Layout struct {
	root      *node
	panels    []*dockPanel
	byID      map[string]*dockPanel
	nextGroup int
}

// NewLayout returns an empty layout.
func NewLayout() *Layout {
	return &Layout{byID: make(map[string]*dockPanel)}
}

// Panel implements Host.
func (l *Layout) Panel(id string) Panel {
	p, ok := l.byID[id]
	if !ok {
		return nil
	}
	return p
}

// Panels implements Host.
func (l *Layout) Panels() []Panel {
	out := make([]Panel, 0, len(l.panels))
	for _, p := range l.panels {
		out = append(out, p)
	}
	return out
}

// Groups returns every group in tree order (left to right, top to bottom).
func (l *Layout) Groups() []Group {
	var out []Group
	walkLeaves(l.root, func(n *node) {
		out = append(out, n.group)
	})
	return out
}

// Group returns the group with the given id, or nil.
func (l *Layout) Group(id string) Group {
	if g := l.findGroup(id); g != nil {
		return g
	}
	return nil
}

// AddPanel implements Host.
func (l *Layout) AddPanel(opts AddPanelOptions) (Panel, error) {
	if opts.ID == "" {
		return nil, errors.New("adding panel: id is required")
	}
	if _, exists := l.byID[opts.ID]; exists {
		return nil, fmt.Errorf("adding panel %q: %w", opts.ID, ErrDuplicatePanel)
	}

	p := &dockPanel{
		id:        opts.ID,
		component: opts.Component,
		title:     opts.Title,
		params:    opts.Params.Clone(),
		layout:    l,
	}

	if l.root == nil {
		g := l.newGroup()
		l.root = &node{group: g}
		g.node = l.root
		g.add(p)
		l.register(p)
		return p, nil
	}

	ref, err := l.reference(opts.Position)
	if err != nil {
		return nil, fmt.Errorf("adding panel %q: %w", opts.ID, err)
	}

	if opts.Position.Direction == Within {
		target := firstLeaf(ref)
		target.group.add(p)
		l.register(p)
		return p, nil
	}

	g := l.newGroup()
	leaf := &node{group: g}
	g.node = leaf
	l.splitAt(ref, leaf, opts.Position.Direction)
	g.add(p)
	l.register(p)
	return p, nil
}

func (l *Layout) register(p *dockPanel) {
	l.panels = append(l.panels, p)
	l.byID[p.id] = p
}

func (l *Layout) newGroup() *group {
	l.nextGroup++
	return &group{
		id:     fmt.Sprintf("group-%d", l.nextGroup),
		layout: l,
		bounds: [2]Bounds{
			{Dimension: Width, Minimum: 0, Maximum: Unbounded},
			{Dimension: Height, Minimum: 0, Maximum: Unbounded},
		},
	}
}

func (l *Layout) reference(pos Position) (*node, error) {
	switch {
	case pos.ReferencePanel != "":
		p, ok := l.byID[pos.ReferencePanel]
		if !ok || p.group == nil {
			return nil, fmt.Errorf("panel %q: %w", pos.ReferencePanel, ErrUnknownReference)
		}
		return p.group.node, nil
	case pos.ReferenceGroup != "":
		g := l.findGroup(pos.ReferenceGroup)
		if g == nil {
			return nil, fmt.Errorf("group %q: %w", pos.ReferenceGroup, ErrUnknownReference)
		}
		return g.node, nil
	default:
		return l.root, nil
	}
}

func (l *Layout) findGroup(id string) *group {
	var found *group
	walkLeaves(l.root, func(n *node) {
		if n.group.id == id {
			found = n.group
		}
	})
	return found
}

// splitAt replaces ref with a split node holding ref and leaf in the order
// implied by dir.
func (l *Layout) splitAt(ref, leaf *node, dir Direction) {
	kind := splitRow
	if dir == Above || dir == Below {
		kind = splitColumn
	}
	split := &node{parent: ref.parent, split: kind}
	if dir == Left || dir == Above {
		split.children = []*node{leaf, ref}
	} else {
		split.children = []*node{ref, leaf}
	}

	if ref.parent == nil {
		l.root = split
	} else {
		for i, c := range ref.parent.children {
			if c == ref {
				ref.parent.children[i] = split
			}
		}
	}
	ref.parent = split
	leaf.parent = split
}

// removePanel detaches p from its group and drops empty groups from the tree.
func (l *Layout) removePanel(p *dockPanel) {
	if l.byID[p.id] != p {
		return
	}
	delete(l.byID, p.id)
	for i, q := range l.panels {
		if q == p {
			l.panels = append(l.panels[:i], l.panels[i+1:]...)
			break
		}
	}

	g := p.group
	p.group = nil
	if g == nil {
		return
	}
	g.remove(p)
	if len(g.panels) > 0 {
		return
	}
	l.removeLeaf(g.node)
}

func (l *Layout) removeLeaf(n *node) {
	parent := n.parent
	if parent == nil {
		l.root = nil
		return
	}
	var sibling *node
	for _, c := range parent.children {
		if c != n {
			sibling = c
		}
	}
	sibling.parent = parent.parent
	if parent.parent == nil {
		l.root = sibling
		return
	}
	for i, c := range parent.parent.children {
		if c == parent {
			parent.parent.children[i] = sibling
		}
	}
}

func walkLeaves(n *node, fn func(*node)) {
	if n == nil {
		return
	}
	if n.split == splitNone {
		fn(n)
		return
	}
	for _, c := range n.children {
		walkLeaves(c, fn)
	}
}

func firstLeaf(n *node) *node {
	for n.split != splitNone {
		n = n.children[0]
	}
	return n
}

// ---------------------------------------------------------------------------
// group
// ---------------------------------------------------------------------------

type group struct {
	id     string
	layout *Layout
	node   *node
	panels []*dockPanel
	active int
	sizes  [2]float64
	bounds [2]Bounds
}

func (g *group) ID() string { return g.id }

func (g *group) SetConstraints(b Bounds) {
	g.bounds[b.Dimension] = b
	if b.Dimension == Width && g.sizes[Width] > 0 {
		g.sizes[Width] = b.Clamp(g.sizes[Width])
	}
}

func (g *group) Constraints(dim Dimension) Bounds {
	return g.bounds[dim]
}

func (g *group) SetSize(s Size) {
	if s.Dimension == Width {
		g.sizes[Width] = g.bounds[Width].Clamp(s.Value)
		return
	}
	g.sizes[s.Dimension] = s.Value
}

func (g *group) Size(dim Dimension) float64 {
	return g.sizes[dim]
}

func (g *group) Panels() []Panel {
	out := make([]Panel, 0, len(g.panels))
	for _, p := range g.panels {
		out = append(out, p)
	}
	return out
}

// ActivePanel returns the panel shown in the group, or nil when empty.
func (g *group) ActivePanel() Panel {
	if len(g.panels) == 0 {
		return nil
	}
	return g.panels[g.active]
}

func (g *group) add(p *dockPanel) {
	p.group = g
	g.panels = append(g.panels, p)
	g.active = len(g.panels) - 1
}

func (g *group) remove(p *dockPanel) {
	for i, q := range g.panels {
		if q == p {
			g.panels = append(g.panels[:i], g.panels[i+1:]...)
			break
		}
	}
	if g.active >= len(g.panels) {
		g.active = max(len(g.panels)-1, 0)
	}
}

// ActivePanel returns the active panel of a group created by a Layout, or
// nil for empty or foreign groups.
func ActivePanel(g Group) Panel {
	if lg, ok := g.(*group); ok {
		return lg.ActivePanel()
	}
	return nil
}

// ---------------------------------------------------------------------------
// dockPanel
// ---------------------------------------------------------------------------

type dockPanel struct {
	id        string
	component string
	title     string
	params    Params
	group     *group
	layout    *Layout
}

func (p *dockPanel) ID() string        { return p.id }
func (p *dockPanel) Component() string { return p.component }
func (p *dockPanel) Title() string     { return p.title }
func (p *dockPanel) Params() Params    { return p.params }

func (p *dockPanel) Group() Group {
	if p.group == nil {
		return nil
	}
	return p.group
}

func (p *dockPanel) UpdateParameters(params Params) {
	p.params = params.Clone()
}

func (p *dockPanel) SetTitle(title string) {
	p.title = title
}

func (p *dockPanel) Close() {
	p.layout.removePanel(p)
}

// ---------------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------------

// Rect is the cell rectangle assigned to a group by Arrange.
type Rect struct {
	Group  Group
	X      int
	Y      int
	Width  int
	Height int
}

// Arrange assigns a rectangle to every group so that the groups tile a
// width x height area. Each split gives its first child the child's
// requested size, clamped to the child's bounds and to what the second
// child needs; the second child takes the remainder.
func (l *Layout) Arrange(width, height int) []Rect {
	var rects []Rect
	arrangeNode(l.root, 0, 0, width, height, &rects)
	return rects
}

func arrangeNode(n *node, x, y, w, h int, out *[]Rect) {
	if n == nil {
		return
	}
	if n.split == splitNone {
		*out = append(*out, Rect{Group: n.group, X: x, Y: y, Width: w, Height: h})
		return
	}

	dim, total := Width, w
	if n.split == splitColumn {
		dim, total = Height, h
	}
	first := splitPoint(n.children[0], n.children[1], dim, total)

	if n.split == splitRow {
		arrangeNode(n.children[0], x, y, first, h, out)
		arrangeNode(n.children[1], x+first, y, w-first, h, out)
		return
	}
	arrangeNode(n.children[0], x, y, w, first, out)
	arrangeNode(n.children[1], x, y+first, w, h-first, out)
}

func splitPoint(a, b *node, dim Dimension, total int) int {
	t := float64(total)
	hintA, hintB := sizeHint(a, dim), sizeHint(b, dim)

	var first float64
	switch {
	case hintA > 0:
		first = hintA
	case hintB > 0:
		first = t - hintB
	default:
		first = t / 2
	}

	minA, maxA := extent(a, dim)
	minB, maxB := extent(b, dim)
	first = math.Min(math.Max(first, minA), maxA)
	first = math.Max(first, t-maxB)
	first = math.Min(first, t-minB)
	first = math.Min(math.Max(first, 0), t)
	return int(math.Round(first))
}

// sizeHint is the size a subtree asks for along dim, or 0 when it has no
// preference.
func sizeHint(n *node, dim Dimension) float64 {
	if n.split == splitNone {
		g := n.group
		if g.bounds[dim].Fixed() {
			return g.bounds[dim].Minimum
		}
		return g.sizes[dim]
	}
	a, b := sizeHint(n.children[0], dim), sizeHint(n.children[1], dim)
	if alongAxis(n, dim) {
		if a > 0 && b > 0 {
			return a + b
		}
		return 0
	}
	return math.Max(a, b)
}

// extent returns the minimum and maximum a subtree accepts along dim.
func extent(n *node, dim Dimension) (float64, float64) {
	if n.split == splitNone {
		b := n.group.bounds[dim]
		return b.Minimum, b.Maximum
	}
	minA, maxA := extent(n.children[0], dim)
	minB, maxB := extent(n.children[1], dim)
	if alongAxis(n, dim) {
		return minA + minB, maxA + maxB
	}
	return math.Max(minA, minB), math.Min(maxA, maxB)
}

func alongAxis(n *node, dim Dimension) bool {
	return (n.split == splitRow && dim == Width) || (n.split == splitColumn && dim == Height)
}
