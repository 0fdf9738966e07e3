package panel

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/logging"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/storage"
)

// Engine owns the slot store, the synchronizer and the durable size store.
// All methods must be called from the goroutine that owns the dock host.
type Engine struct {
	store  *Store
	sync   *Synchronizer
	kv     storage.KV
	prefix string
	host   dock.Host
	logger *log.Logger
}

// NewEngine returns an engine over store. kv may be nil, in which case
// sizes are kept in memory only. prefix namespaces the storage keys.
func NewEngine(store *Store, kv storage.KV, prefix string) *Engine {
	return &Engine{
		store:  store,
		sync:   NewSynchronizer(),
		kv:     kv,
		prefix: prefix,
		logger: logging.New("panel"),
	}
}

// Store returns the underlying slot store.
func (e *Engine) Store() *Store { return e.store }

// Phase returns the synchronizer phase.
func (e *Engine) Phase() SyncPhase { return e.sync.Phase() }

// Host returns the mounted host, or nil.
func (e *Engine) Host() dock.Host { return e.host }

// Restore loads persisted sizes into the store. Missing keys and values
// that do not parse as a positive number keep the configured size.
func (e *Engine) Restore() error {
	if e.kv == nil {
		return nil
	}
	var errs []error
	for _, slot := range e.store.Slots() {
		key := storage.Key(e.prefix, slot.ID)
		raw, ok, err := e.kv.Get(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("restoring %q: %w", slot.ID, err))
			continue
		}
		if !ok {
			continue
		}
		size, err := strconv.ParseFloat(raw, 64)
		if err != nil || size <= 0 {
			e.logger.Warn("ignoring persisted size", "panel", slot.ID, "value", raw)
			continue
		}
		_ = e.store.SetSize(slot.ID, size)
		e.logger.Debug("restored size", "panel", slot.ID, "size", size)
	}
	return errors.Join(errs...)
}

// Mount attaches host and runs the initial synchronization pass.
func (e *Engine) Mount(host dock.Host) {
	e.host = host
	e.sync.Synchronize(host, e.store.Slots())
}

// Sync runs a synchronization pass against the mounted host.
func (e *Engine) Sync() {
	e.sync.Synchronize(e.host, e.store.Slots())
}

// Toggle flips the collapsed state of id. When the slot is expanded its
// current size is captured and persisted first. The layout is updated
// before Toggle returns; a storage failure is reported afterwards and does
// not undo the toggle.
func (e *Engine) Toggle(id string) error {
	slot, ok := e.store.Slot(id)
	if !ok {
		return fmt.Errorf("toggling %q: %w", id, ErrUnknownPanel)
	}

	var persistErr error
	if !slot.Collapsed {
		persistErr = e.capture(slot)
	}
	_ = e.store.SetCollapsed(id, !slot.Collapsed)
	e.Sync()

	e.logger.Info("toggled panel", "panel", id, "collapsed", !slot.Collapsed)
	return persistErr
}

// SetCollapsed applies a complete collapsed-state snapshot, as produced by
// CollapsedState. Slots whose flag changes follow the same persistence rule
// as Toggle; one synchronization pass runs at the end.
func (e *Engine) SetCollapsed(state map[string]bool) error {
	var errs []error
	for id := range state {
		if _, ok := e.store.Slot(id); !ok {
			errs = append(errs, fmt.Errorf("applying collapsed state of %q: %w", id, ErrUnknownPanel))
		}
	}

	for _, slot := range e.store.Slots() {
		want, ok := state[slot.ID]
		if !ok || want == slot.Collapsed {
			continue
		}
		if !slot.Collapsed {
			if err := e.capture(slot); err != nil {
				errs = append(errs, err)
			}
		}
		_ = e.store.SetCollapsed(slot.ID, want)
	}
	e.Sync()
	return errors.Join(errs...)
}

// CollapsedState returns a snapshot of every slot's collapsed flag.
func (e *Engine) CollapsedState() map[string]bool {
	return e.store.CollapsedState()
}

// Resize sets the expanded size of id, clamped to its floor, and applies it
// to the live group. Resizing a collapsed slot is ignored.
func (e *Engine) Resize(id string, size float64) error {
	slot, ok := e.store.Slot(id)
	if !ok {
		return fmt.Errorf("resizing %q: %w", id, ErrUnknownPanel)
	}
	if slot.Collapsed {
		return nil
	}
	size = slot.Constraint().Clamp(size)
	_ = e.store.SetSize(id, size)
	if e.host != nil {
		if g := liveGroup(e.host, id); g != nil {
			g.SetSize(dock.Size{Dimension: slot.Dimension, Value: size})
		}
	}
	return nil
}

// ResizeBy grows (delta > 0) or shrinks the current size of id.
func (e *Engine) ResizeBy(id string, delta float64) error {
	slot, ok := e.store.Slot(id)
	if !ok {
		return fmt.Errorf("resizing %q: %w", id, ErrUnknownPanel)
	}
	return e.Resize(id, e.currentSize(slot)+delta)
}

// Flush persists the current size of every expanded slot.
func (e *Engine) Flush() error {
	var errs []error
	for _, slot := range e.store.Slots() {
		if slot.Collapsed {
			continue
		}
		if err := e.capture(slot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// capture reads the slot's live size into the store and persists it.
func (e *Engine) capture(slot Slot) error {
	size := e.currentSize(slot)
	_ = e.store.SetSize(slot.ID, size)

	if e.kv == nil {
		return nil
	}
	key := storage.Key(e.prefix, slot.ID)
	if err := e.kv.Set(key, strconv.FormatFloat(size, 'f', -1, 64)); err != nil {
		return fmt.Errorf("persisting size of %q: %w", slot.ID, err)
	}
	return nil
}

// currentSize prefers the live group size and falls back to the stored one.
func (e *Engine) currentSize(slot Slot) float64 {
	if e.host != nil {
		if g := liveGroup(e.host, slot.ID); g != nil {
			if live := g.Size(slot.Dimension); live > 0 {
				return live
			}
		}
	}
	return slot.Size
}
