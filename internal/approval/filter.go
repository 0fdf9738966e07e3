package approval

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter selects which file-backed requests are surfaced. Requests without
// a path (tool invocations) always pass.
type Filter struct {
	// Include patterns; an empty list includes everything.
	Include []string
	// Exclude patterns win over Include.
	Exclude []string
}

// Validate reports the first malformed pattern.
func (f Filter) Validate() error {
	for _, p := range append(append([]string(nil), f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// Match reports whether req passes the filter.
func (f Filter) Match(req Request) bool {
	if req.Path == "" {
		return true
	}
	path := filepath.ToSlash(filepath.Clean(req.Path))
	for _, p := range f.Exclude {
		if ok, _ := doublestar.Match(p, path); ok {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, p := range f.Include {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

// Apply returns the requests of snap that pass the filter, preserving order.
func (f Filter) Apply(snap Snapshot) Snapshot {
	if len(f.Include) == 0 && len(f.Exclude) == 0 {
		return snap
	}
	out := snap
	out.Requests = make([]Request, 0, len(snap.Requests))
	for _, r := range snap.Requests {
		if f.Match(r) {
			out.Requests = append(out.Requests, r)
		}
	}
	return out
}
