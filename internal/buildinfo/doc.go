// Package buildinfo carries the version stamp of the dockyard binary.
//
// Release builds set the variables with
//
//	-ldflags "-X github.com/AbdelazizMoustafa10m/dockyard/internal/buildinfo.Version=..."
package buildinfo

// Program is the binary name printed by the version command.
const Program = "dockyard"

var (
	// Version is the release tag or git describe output.
	Version = "dev"

	// Commit is the short commit SHA the binary was built from.
	Commit = "unknown"

	// Date is the UTC build time in RFC3339 form.
	Date = "unknown"
)
