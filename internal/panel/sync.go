package panel

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/logging"
)

// SyncPhase tells the synchronizer whether it has already reconciled once.
type SyncPhase int

const (
	// PhaseInitial is the mount pass: expanded slots keep whatever size the
	// host restored.
	PhaseInitial SyncPhase = iota
	// PhaseSteady covers every later pass: each slot's size is forced.
	PhaseSteady
)

// String returns "initial" or "steady".
func (p SyncPhase) String() string {
	if p == PhaseSteady {
		return "steady"
	}
	return "initial"
}

// Synchronizer reconciles slots against a live dock host. The zero value is
// ready to use and starts in PhaseInitial.
type Synchronizer struct {
	phase  SyncPhase
	logger *log.Logger
}

// NewSynchronizer returns a synchronizer in PhaseInitial.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{logger: logging.New("panel")}
}

// Phase returns the current phase.
func (s *Synchronizer) Phase() SyncPhase {
	return s.phase
}

// Reset returns the synchronizer to PhaseInitial, e.g. after the host has
// been rebuilt from scratch.
func (s *Synchronizer) Reset() {
	s.phase = PhaseInitial
}

// Synchronize applies every slot to host. It is a no-op when host is nil.
//
// For each mounted slot the resolved constraint is applied first. A
// collapsed slot is then always forced to its collapsed size. An expanded
// slot is left alone on the initial pass; on steady passes heights are
// forced to max(size, min) while widths are forced to the stored size
// as-is, since the host already enforces width bounds itself and a second
// clamp here fights sub-cell drag rounding.
//
// Unmounted slots are skipped. The pass is idempotent.
func (s *Synchronizer) Synchronize(host dock.Host, slots []Slot) {
	if host == nil {
		return
	}
	initial := s.phase == PhaseInitial

	for _, slot := range slots {
		group := liveGroup(host, slot.ID)
		if group == nil {
			s.debug("skipping unmounted slot", "panel", slot.ID)
			continue
		}

		group.SetConstraints(slot.Constraint())

		switch {
		case slot.Collapsed:
			group.SetSize(dock.Size{Dimension: slot.Dimension, Value: slot.CollapsedSize})
		case initial:
			// Keep the size the host restored.
		case slot.Dimension == dock.Height:
			group.SetSize(dock.Size{Dimension: dock.Height, Value: math.Max(slot.Size, slot.MinSize)})
		default:
			group.SetSize(dock.Size{Dimension: slot.Dimension, Value: slot.Size})
		}
	}

	s.phase = PhaseSteady
}

func (s *Synchronizer) debug(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, kv...)
	}
}

// liveGroup returns the group hosting panel id, or nil when the panel is
// not mounted.
func liveGroup(host dock.Host, id string) dock.Group {
	p := host.Panel(id)
	if p == nil {
		return nil
	}
	return p.Group()
}
