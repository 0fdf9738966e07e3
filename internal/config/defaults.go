package config

import (
	"github.com/AbdelazizMoustafa10m/dockyard/internal/approval"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/review"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/storage"
)

// NewDefaults returns a Config populated with all default values. Sizes are
// terminal cells.
func NewDefaults() *Config {
	return &Config{
		Branding: BrandingConfig{
			Name:          "Dockyard",
			StoragePrefix: "dockyard",
		},
		Storage: StorageConfig{
			Backend: storage.BackendFile,
			Path:    ".dockyard/layout.json",
		},
		Logging: LoggingConfig{
			File: ".dockyard/dockyard.log",
		},
		Panels: DefaultPanels(),
		Review: ReviewConfig{
			Kind:      review.DefaultKind,
			MinHeight: review.DefaultMinHeight,
		},
		Approvals: ApprovalsConfig{
			File:     ".dockyard/approvals.json",
			Debounce: approval.DefaultDebounce.String(),
		},
	}
}

// DefaultPanels returns the built-in slots: the file tree on the left, the
// shell under the center group and the terminal along the bottom.
func DefaultPanels() []PanelConfig {
	return []PanelConfig{
		{ID: dock.ComponentFileTree, Dimension: "width", Size: 28, MinSize: 18, CollapsedSize: 3},
		{ID: dock.ComponentShell, Dimension: "height", Size: 8, MinSize: 4, CollapsedSize: 1},
		{ID: dock.ComponentTerminal, Dimension: "height", Size: 10, MinSize: 4, CollapsedSize: 1},
	}
}
