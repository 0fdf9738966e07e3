package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the name of the Dockyard configuration file.
const ConfigFileName = "dockyard.toml"

// ErrDuplicatePanel is returned by LoadFromFile when one file defines the
// same panel id twice. Layers merge panels by id, so the second entry would
// otherwise replace the first without a trace.
var ErrDuplicatePanel = errors.New("duplicate panel id")

// FindConfigFile returns the absolute path of the nearest dockyard.toml at or
// above startDir, or "" when none exists up to the filesystem root.
func FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromFile decodes one configuration layer from path. Enumerated values
// (storage backend, panel dimension) are lower-cased and identifiers are
// trimmed, so the layer compares equal to the defaults it merges over. The
// returned metadata reports unknown keys through MetaData.Undecoded.
//
// Range and consistency checks belong to Validate, which runs on the merged
// configuration; LoadFromFile only rejects what merging would hide.
func LoadFromFile(path string) (*Config, toml.MetaData, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, md, fmt.Errorf("loading config %s: %w", path, err)
	}

	normalize(&cfg)
	if err := checkPanelIDs(cfg.Panels); err != nil {
		return nil, md, fmt.Errorf("loading config %s: %w", path, err)
	}
	return &cfg, md, nil
}

func normalize(cfg *Config) {
	cfg.Branding.StoragePrefix = strings.TrimSpace(cfg.Branding.StoragePrefix)
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Review.Kind = strings.TrimSpace(cfg.Review.Kind)
	for i := range cfg.Panels {
		cfg.Panels[i].ID = strings.TrimSpace(cfg.Panels[i].ID)
		cfg.Panels[i].Dimension = strings.ToLower(strings.TrimSpace(cfg.Panels[i].Dimension))
	}
}

// checkPanelIDs reports the first id that appears twice. Entries without an
// id are left for Validate.
func checkPanelIDs(panels []PanelConfig) error {
	first := make(map[string]int, len(panels))
	for i, p := range panels {
		if p.ID == "" {
			continue
		}
		if j, ok := first[p.ID]; ok {
			return fmt.Errorf("panels[%d]: %w %q (first defined at panels[%d])", i, ErrDuplicatePanel, p.ID, j)
		}
		first[p.ID] = i
	}
	return nil
}
