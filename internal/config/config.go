package config

import (
	"fmt"
	"time"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/panel"
)

// Config is the top-level configuration structure mapping to dockyard.toml.
type Config struct {
	Branding  BrandingConfig  `toml:"branding"`
	Storage   StorageConfig   `toml:"storage"`
	Logging   LoggingConfig   `toml:"logging"`
	Panels    []PanelConfig   `toml:"panels"`
	Review    ReviewConfig    `toml:"review"`
	Approvals ApprovalsConfig `toml:"approvals"`
}

// BrandingConfig maps to the [branding] section in dockyard.toml.
type BrandingConfig struct {
	Name          string `toml:"name"`
	StoragePrefix string `toml:"storage_prefix"`
}

// StorageConfig maps to the [storage] section in dockyard.toml.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// LoggingConfig maps to the [logging] section in dockyard.toml.
type LoggingConfig struct {
	// File receives log output while the workspace UI owns the terminal.
	File string `toml:"file"`
}

// PanelConfig maps to one [[panels]] entry in dockyard.toml.
type PanelConfig struct {
	ID            string  `toml:"id"`
	Dimension     string  `toml:"dimension"`
	Size          float64 `toml:"size"`
	MinSize       float64 `toml:"min_size"`
	CollapsedSize float64 `toml:"collapsed_size"`
	Collapsed     bool    `toml:"collapsed"`
}

// Slot converts the entry into a layout slot.
func (p PanelConfig) Slot() (panel.Slot, error) {
	dim, err := dock.ParseDimension(p.Dimension)
	if err != nil {
		return panel.Slot{}, fmt.Errorf("panel %q: %w", p.ID, err)
	}
	return panel.Slot{
		ID:            p.ID,
		Dimension:     dim,
		Size:          p.Size,
		MinSize:       p.MinSize,
		CollapsedSize: p.CollapsedSize,
		Collapsed:     p.Collapsed,
	}, nil
}

// ReviewConfig maps to the [review] section in dockyard.toml.
type ReviewConfig struct {
	Kind      string  `toml:"kind"`
	MinHeight float64 `toml:"min_height"`
}

// ApprovalsConfig maps to the [approvals] section in dockyard.toml.
type ApprovalsConfig struct {
	File     string   `toml:"file"`
	Include  []string `toml:"include"`
	Exclude  []string `toml:"exclude"`
	Debounce string   `toml:"debounce"`
}

// DebounceDuration parses Debounce. An empty value is zero.
func (a ApprovalsConfig) DebounceDuration() (time.Duration, error) {
	if a.Debounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Debounce)
	if err != nil {
		return 0, fmt.Errorf("approvals.debounce: %w", err)
	}
	return d, nil
}

// Slots converts every configured panel into a layout slot, in order.
func (c *Config) Slots() ([]panel.Slot, error) {
	slots := make([]panel.Slot, 0, len(c.Panels))
	for _, p := range c.Panels {
		s, err := p.Slot()
		if err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, nil
}
