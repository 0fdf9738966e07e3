package buildinfo

import "fmt"

// Info is the build stamp in a form the version command can encode as JSON.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// GetInfo snapshots the package variables.
func GetInfo() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String formats the stamp as "dockyard v1.2.0 (commit: a1b2c3d, built: 2026-02-17T10:00:00Z)".
func (i Info) String() string {
	return fmt.Sprintf("%s v%s (commit: %s, built: %s)", Program, i.Version, i.Commit, i.Date)
}

// IsRelease reports whether the binary carries a real version instead of
// the development default.
func (i Info) IsRelease() bool {
	return i.Version != "" && i.Version != "dev"
}
