// Package cli implements the dockyard command tree: the workspace TUI as the
// root command plus the init, config, layout, approvals, version and
// completion subcommands.
package cli
