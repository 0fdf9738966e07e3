// Package dock defines the vocabulary and interfaces of a dock layout host
// (panels grouped into resizable, constrained groups) together with Layout,
// an in-memory host arranged as a split tree.
//
// Consumers mutate the layout only through Host, Panel and Group. They never
// compute cell positions themselves; Layout.Arrange does that when the TUI
// renders a frame.
package dock

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Dimension is the axis a size or constraint applies to.
type Dimension int

const (
	// Width constrains the horizontal extent of a group.
	Width Dimension = iota
	// Height constrains the vertical extent of a group.
	Height
)

// String returns "width" or "height".
func (d Dimension) String() string {
	switch d {
	case Width:
		return "width"
	case Height:
		return "height"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// ParseDimension parses "width" or "height" (case-insensitive).
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "width":
		return Width, nil
	case "height":
		return Height, nil
	default:
		return 0, fmt.Errorf("unknown dimension %q: must be width or height", s)
	}
}

// Unbounded is the maximum of a constraint that has no upper limit.
var Unbounded = math.Inf(1)

// Bounds is a minimum/maximum pair for one dimension of a group.
type Bounds struct {
	Dimension Dimension
	Minimum   float64
	Maximum   float64
}

// Clamp returns v limited to [Minimum, Maximum].
func (b Bounds) Clamp(v float64) float64 {
	if v < b.Minimum {
		return b.Minimum
	}
	if v > b.Maximum {
		return b.Maximum
	}
	return v
}

// Contains reports whether v satisfies the bounds.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Minimum && v <= b.Maximum
}

// Fixed reports whether the bounds pin the dimension to a single value.
func (b Bounds) Fixed() bool {
	return b.Minimum == b.Maximum
}

// Size is a concrete size request for one dimension of a group.
type Size struct {
	Dimension Dimension
	Value     float64
}

// Direction places a new panel relative to a reference.
type Direction int

const (
	// Within adds the panel as a tab of the reference group.
	Within Direction = iota
	// Left splits the reference and places the panel on its left.
	Left
	// Right splits the reference and places the panel on its right.
	Right
	// Above splits the reference and places the panel above it.
	Above
	// Below splits the reference and places the panel below it.
	Below
)

// String returns the lower-case direction name.
func (d Direction) String() string {
	switch d {
	case Within:
		return "within"
	case Left:
		return "left"
	case Right:
		return "right"
	case Above:
		return "above"
	case Below:
		return "below"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Position describes where AddPanel places a new panel. At most one of
// ReferenceGroup and ReferencePanel should be set; when neither is set the
// direction is applied to the root of the layout.
type Position struct {
	Direction      Direction
	ReferenceGroup string
	ReferencePanel string
}

// Params are the parameters a panel is rendered from.
type Params map[string]any

// String returns the string value stored under key, or "".
func (p Params) String(key string) string {
	if p == nil {
		return ""
	}
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// SamePath reports whether two file paths refer to the same file after
// cleaning. Empty paths never match.
func SamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

// Well-known panel components.
const (
	ComponentFileTree = "filetree"
	ComponentTerminal = "terminal"
	ComponentShell    = "shell"
	ComponentEditor   = "editor"
	ComponentReview   = "review"
	ComponentEmpty    = "empty"
)

// AddPanelOptions describes a panel to create.
type AddPanelOptions struct {
	ID        string
	Component string
	Title     string
	Params    Params
	Position  Position
}

// Host is the mutation surface of a dock layout.
type Host interface {
	// Panel returns the panel with the given id, or nil.
	Panel(id string) Panel
	// Panels returns all open panels in layout order.
	Panels() []Panel
	// AddPanel creates a panel at the requested position.
	AddPanel(opts AddPanelOptions) (Panel, error)
}

// Panel is a single view hosted inside a group.
type Panel interface {
	ID() string
	Component() string
	Title() string
	Params() Params
	// Group returns the group currently hosting the panel, or nil once closed.
	Group() Group
	UpdateParameters(params Params)
	SetTitle(title string)
	Close()
}

// Group is a resizable, constrained container of panels.
type Group interface {
	ID() string
	SetConstraints(b Bounds)
	Constraints(dim Dimension) Bounds
	SetSize(s Size)
	// Size returns the last requested size for dim (0 when never set).
	Size(dim Dimension) float64
	Panels() []Panel
}
