// Package config loads dockyard.toml, merges it with built-in defaults,
// DOCKYARD_* environment variables and command-line overrides, and validates
// the result.
package config
