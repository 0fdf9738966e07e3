// Package storage provides the durable key-value stores used to remember
// panel sizes across restarts.
//
// Three backends are available:
//
//   - memory: process-local map, used in tests and with --storage memory
//   - file:   a single JSON object written atomically (temp file + rename)
//   - sqlite: a kv table in a SQLite database (modernc.org/sqlite, no cgo)
//
// Keys are namespaced by a deployment prefix via Key so several branded
// builds can share one store without colliding.
package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/logging"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// KV is a string key-value store.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Keys returns all keys with the given prefix, sorted.
	Keys(prefix string) ([]string, error)
	Close() error
}

// Key builds the storage key for a panel: "<prefix>:panel:<id>".
func Key(prefix, panelID string) string {
	return PanelPrefix(prefix) + panelID
}

// PanelPrefix returns the key prefix shared by every panel key of a
// deployment.
func PanelPrefix(prefix string) string {
	return prefix + ":panel:"
}

// Open returns the backend named by backend. path is ignored by the memory
// backend.
func Open(backend, path string) (KV, error) {
	logger := logging.New("storage")
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		logger.Debug("opening file store", "path", path)
		return OpenFile(path)
	case BackendSQLite:
		logger.Debug("opening sqlite store", "path", path)
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("opening storage %q: %w", backend, ErrUnknownBackend)
	}
}

// Memory is an in-process KV.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return matchingKeys(m.values, prefix), nil
}

func (m *Memory) Close() error { return nil }

func matchingKeys(values map[string]string, prefix string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
