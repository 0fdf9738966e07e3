// Package workspace wires configuration, storage, the approval feed and the
// panel engine into a mounted dock layout.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/approval"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/config"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/logging"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/panel"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/review"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/storage"
)

// Workspace is a mounted dock layout together with everything that drives
// it. Layout mutations must happen on one goroutine.
type Workspace struct {
	Config  *config.Config
	Layout  *dock.Layout
	Engine  *panel.Engine
	Reviews *review.Manager
	// Feed is nil when no approvals file is configured.
	Feed *approval.Feed
	KV   storage.KV

	logger *log.Logger
}

// Open builds a workspace from cfg. Relative storage and approvals paths are
// resolved against baseDir. Storage and the first approval snapshot are
// loaded concurrently.
func Open(ctx context.Context, cfg *config.Config, baseDir string) (*Workspace, error) {
	logger := logging.New("workspace")

	slots, err := cfg.Slots()
	if err != nil {
		return nil, err
	}
	debounce, err := cfg.Approvals.DebounceDuration()
	if err != nil {
		return nil, err
	}
	filter := approval.Filter{Include: cfg.Approvals.Include, Exclude: cfg.Approvals.Exclude}
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("approvals filter: %w", err)
	}

	var (
		kv   storage.KV
		feed *approval.Feed
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		kv, err = storage.Open(cfg.Storage.Backend, ResolvePath(baseDir, cfg.Storage.Path))
		return err
	})
	if cfg.Approvals.File != "" {
		feed = approval.NewFeed(ResolvePath(baseDir, cfg.Approvals.File), filter, debounce)
		g.Go(func() error {
			if _, _, err := feed.Reload(); err != nil {
				logger.Warn("initial approvals read failed", "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := panel.NewStore(slots...)
	engine := panel.NewEngine(store, kv, cfg.Branding.StoragePrefix)
	if err := engine.Restore(); err != nil {
		logger.Warn("restoring panel sizes", "error", err)
	}

	layout, err := BuildLayout(store)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	engine.Mount(layout)

	ws := &Workspace{
		Config:  cfg,
		Layout:  layout,
		Engine:  engine,
		Reviews: review.NewManager(cfg.Review.Kind, cfg.Review.MinHeight),
		Feed:    feed,
		KV:      kv,
		logger:  logger,
	}
	if feed != nil {
		if err := ws.Apply(feed.Current()); err != nil {
			_ = ws.Close()
			return nil, err
		}
	}
	logger.Debug("workspace opened", "slots", len(slots), "backend", cfg.Storage.Backend)
	return ws, nil
}

// Apply reconciles review panels against snap.
func (w *Workspace) Apply(snap approval.Snapshot) error {
	return w.Reviews.Reconcile(w.Layout, snap)
}

// Close flushes panel sizes, stops the feed and closes storage.
func (w *Workspace) Close() error {
	var errs []error
	if w.Feed != nil {
		errs = append(errs, w.Feed.Close())
	}
	if err := w.Engine.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flushing panel sizes: %w", err))
	}
	if w.KV != nil {
		errs = append(errs, w.KV.Close())
	}
	return errors.Join(errs...)
}

// ResolvePath joins a relative path onto base. Absolute and empty paths are
// returned unchanged.
func ResolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" {
		return path
	}
	return filepath.Join(base, path)
}

// BuildLayout creates the default arrangement for the slots in store: the
// file tree on the left of a center group holding an empty placeholder, the
// shell under the center and the terminal along the bottom. Other width
// slots open on the right and other height slots along the bottom. Each
// group starts at its slot's stored size.
func BuildLayout(store *panel.Store) (*dock.Layout, error) {
	l := dock.NewLayout()
	add := func(id, component string, pos dock.Position) error {
		_, err := l.AddPanel(dock.AddPanelOptions{ID: id, Component: component, Title: id, Position: pos})
		return err
	}

	if err := add(dock.ComponentEmpty, dock.ComponentEmpty, dock.Position{}); err != nil {
		return nil, err
	}

	placed := map[string]dock.Position{
		dock.ComponentTerminal: {Direction: dock.Below},
		dock.ComponentFileTree: {Direction: dock.Left, ReferencePanel: dock.ComponentEmpty},
		dock.ComponentShell:    {Direction: dock.Below, ReferencePanel: dock.ComponentEmpty},
	}
	for _, id := range []string{dock.ComponentTerminal, dock.ComponentFileTree, dock.ComponentShell} {
		if _, ok := store.Slot(id); !ok {
			continue
		}
		if err := add(id, id, placed[id]); err != nil {
			return nil, fmt.Errorf("building layout: %w", err)
		}
	}

	for _, slot := range store.Slots() {
		if _, known := placed[slot.ID]; known {
			continue
		}
		pos := dock.Position{Direction: dock.Below}
		if slot.Dimension == dock.Width {
			pos.Direction = dock.Right
		}
		if err := add(slot.ID, slot.ID, pos); err != nil {
			return nil, fmt.Errorf("building layout: %w", err)
		}
	}

	for _, slot := range store.Slots() {
		p := l.Panel(slot.ID)
		if p == nil || p.Group() == nil || slot.Size <= 0 {
			continue
		}
		p.Group().SetSize(dock.Size{Dimension: slot.Dimension, Value: slot.Size})
	}
	return l, nil
}
