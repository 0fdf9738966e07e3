// Package approval reads the list of pending approval requests that drive
// the workspace's review panels.
//
// Requests live in a JSON file written by whatever tool is asking for
// approval:
//
//	{
//	  "requests": [
//	    {"id": "req1", "path": "internal/dock/layout.go", "summary": "rename group"},
//	    {"id": "req2", "tool": "bash", "params": {"command": "go test ./..."}}
//	  ]
//	}
//
// Load reads the file once. Feed watches it and publishes a fresh Snapshot
// whenever its content changes.
package approval

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Request is one pending approval.
type Request struct {
	ID      string         `json:"id"`
	Path    string         `json:"path,omitempty"`
	Tool    string         `json:"tool,omitempty"`
	Summary string         `json:"summary,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

// Snapshot is the state of the feed at one point in time. Loaded is false
// until the source has been read successfully; consumers must not act on
// the request list of an unloaded snapshot.
type Snapshot struct {
	Loaded      bool
	Requests    []Request
	Fingerprint uint64
}

type fileFormat struct {
	Requests []Request `json:"requests"`
}

// Load reads the approvals file at path. A missing file is a loaded
// snapshot with no requests.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{Loaded: true, Fingerprint: xxhash.Sum64(nil)}, nil
		}
		return Snapshot{}, fmt.Errorf("reading approvals %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes an approvals document. Empty input has no requests.
func Parse(data []byte) (Snapshot, error) {
	snap := Snapshot{Loaded: true, Fingerprint: xxhash.Sum64(data)}
	if len(data) == 0 {
		return snap, nil
	}
	var doc fileFormat
	if err := json.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, fmt.Errorf("parsing approvals: %w", err)
	}
	snap.Requests = doc.Requests
	return snap, nil
}
