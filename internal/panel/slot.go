// Package panel tracks the size and collapsed state of the workspace's
// fixed panel slots (file tree, shell, terminal) and reconciles that state
// against a live dock layout.
//
// The package has three layers:
//
//   - Store holds one Slot record per panel id.
//   - Synchronizer applies constraints and sizes from the store to a
//     dock.Host, distinguishing the initial pass from steady passes.
//   - Engine ties the store and synchronizer to durable storage and exposes
//     the user-facing actions (toggle, resize, undo/redo application).
package panel

import (
	"errors"
	"fmt"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
)

// ErrUnknownPanel is returned when an operation names a panel id that is
// not registered in the store.
var ErrUnknownPanel = errors.New("unknown panel")

// Slot is the complete state of one panel slot. Keeping size, thresholds
// and the collapsed flag in one record means they cannot drift apart.
type Slot struct {
	ID        string
	Dimension dock.Dimension
	// Size is the last known expanded size.
	Size float64
	// CollapsedSize is the fixed size while collapsed.
	CollapsedSize float64
	// MinSize is the floor while expanded.
	MinSize   float64
	Collapsed bool
}

// Constraint resolves the slot's current bounds.
func (s Slot) Constraint() dock.Bounds {
	return ResolveConstraint(s.Dimension, s.Collapsed, s.MinSize, s.CollapsedSize)
}

// ResolveConstraint returns the bounds for a slot. A collapsed slot is
// pinned to collapsedSize; an expanded slot has minSize as floor and no
// ceiling. collapsedSize may be smaller than minSize.
func ResolveConstraint(dim dock.Dimension, collapsed bool, minSize, collapsedSize float64) dock.Bounds {
	if collapsed {
		return dock.Bounds{Dimension: dim, Minimum: collapsedSize, Maximum: collapsedSize}
	}
	return dock.Bounds{Dimension: dim, Minimum: minSize, Maximum: dock.Unbounded}
}

// Store is the layout store: slots keyed by id, kept in registration order.
// It is not safe for concurrent use.
type Store struct {
	order []string
	slots map[string]*Slot
}

// NewStore returns a store holding copies of slots. Later duplicates of an
// id replace earlier ones but keep the first position.
func NewStore(slots ...Slot) *Store {
	s := &Store{slots: make(map[string]*Slot, len(slots))}
	for _, slot := range slots {
		s.Add(slot)
	}
	return s
}

// Add registers or replaces a slot.
func (s *Store) Add(slot Slot) {
	if _, exists := s.slots[slot.ID]; !exists {
		s.order = append(s.order, slot.ID)
	}
	cp := slot
	s.slots[slot.ID] = &cp
}

// Slot returns a copy of the slot with the given id.
func (s *Store) Slot(id string) (Slot, bool) {
	slot, ok := s.slots[id]
	if !ok {
		return Slot{}, false
	}
	return *slot, true
}

// Slots returns copies of all slots in registration order.
func (s *Store) Slots() []Slot {
	out := make([]Slot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.slots[id])
	}
	return out
}

// IDs returns the registered ids in order.
func (s *Store) IDs() []string {
	return append([]string(nil), s.order...)
}

// SetSize records a new expanded size for id.
func (s *Store) SetSize(id string, size float64) error {
	slot, ok := s.slots[id]
	if !ok {
		return fmt.Errorf("setting size of %q: %w", id, ErrUnknownPanel)
	}
	slot.Size = size
	return nil
}

// SetCollapsed records the collapsed flag for id.
func (s *Store) SetCollapsed(id string, collapsed bool) error {
	slot, ok := s.slots[id]
	if !ok {
		return fmt.Errorf("setting collapsed state of %q: %w", id, ErrUnknownPanel)
	}
	slot.Collapsed = collapsed
	return nil
}

// CollapsedState returns the collapsed flag of every slot.
func (s *Store) CollapsedState() map[string]bool {
	out := make(map[string]bool, len(s.slots))
	for id, slot := range s.slots {
		out[id] = slot.Collapsed
	}
	return out
}
