package approval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/logging"
)

// Feed watches an approvals file and publishes filtered snapshots when its
// content changes. Updates are latest-wins: a slow consumer only ever sees
// the newest snapshot.
type Feed struct {
	path     string
	filter   Filter
	debounce time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	current Snapshot

	updates   chan Snapshot
	watcher   *fsnotify.Watcher
	deb       *debouncer
	done      chan struct{}
	closeOnce sync.Once
}

// NewFeed returns a feed for path. A non-positive debounce uses
// DefaultDebounce.
func NewFeed(path string, filter Filter, debounce time.Duration) *Feed {
	return &Feed{
		path:     filepath.Clean(path),
		filter:   filter,
		debounce: debounce,
		logger:   logging.New("approval"),
		updates:  make(chan Snapshot, 1),
		done:     make(chan struct{}),
	}
}

// Path returns the watched file.
func (f *Feed) Path() string { return f.path }

// Current returns the most recent snapshot. It is not loaded until the
// first successful read.
func (f *Feed) Current() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Updates delivers a snapshot each time the filtered content changes.
func (f *Feed) Updates() <-chan Snapshot { return f.updates }

// Reload reads the file now. It reports whether the snapshot changed; an
// unchanged fingerprint is not republished. On error the previous snapshot
// is kept.
func (f *Feed) Reload() (Snapshot, bool, error) {
	snap, err := Load(f.path)
	if err != nil {
		return f.Current(), false, err
	}
	snap = f.filter.Apply(snap)

	f.mu.Lock()
	if f.current.Loaded && f.current.Fingerprint == snap.Fingerprint {
		f.mu.Unlock()
		return snap, false, nil
	}
	f.current = snap
	f.mu.Unlock()

	f.publish(snap)
	return snap, true, nil
}

func (f *Feed) publish(snap Snapshot) {
	select {
	case f.updates <- snap:
		return
	default:
	}
	// Drop the stale pending snapshot.
	select {
	case <-f.updates:
	default:
	}
	select {
	case f.updates <- snap:
	default:
	}
}

// Start performs the initial read and begins watching the file's directory.
// The directory is created if missing. Watching stops when ctx is done or
// Close is called.
func (f *Feed) Start(ctx context.Context) error {
	if _, _, err := f.Reload(); err != nil {
		f.logger.Warn("initial approvals read failed", "path", f.path, "error", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating approvals dir: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	f.watcher = w
	f.deb = newDebouncer(f.debounce)

	go f.loop(ctx)
	return nil
}

func (f *Feed) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = f.Close()
			return
		case <-f.done:
			return
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != f.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			f.deb.Trigger(f.reloadAndLog)
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("watcher error", "error", err)
		}
	}
}

func (f *Feed) reloadAndLog() {
	snap, changed, err := f.Reload()
	if err != nil {
		f.logger.Warn("approvals reload failed", "path", f.path, "error", err)
		return
	}
	if changed {
		f.logger.Debug("approvals changed", "requests", len(snap.Requests))
	}
}

// Close stops watching. It is safe to call more than once.
func (f *Feed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		if f.deb != nil {
			f.deb.Cancel()
		}
		if f.watcher != nil {
			err = f.watcher.Close()
		}
	})
	return err
}
