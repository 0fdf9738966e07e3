package config

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/charmbracelet/log"
)

//go:embed templates/dockyard.toml.tmpl
var templateFS embed.FS

const configTemplate = "templates/dockyard.toml.tmpl"

// ErrConfigExists is returned by WriteConfig when the destination exists and
// force is false.
var ErrConfigExists = errors.New("config file already exists")

// TemplateVars holds the values substituted into the starter dockyard.toml.
type TemplateVars struct {
	// Name is the workspace title shown in the UI.
	Name string
	// StoragePrefix namespaces persisted panel sizes.
	StoragePrefix string
	// Backend is the storage backend (file, sqlite or memory).
	Backend string
	// StoragePath is the file or database the backend writes to.
	StoragePath string
	// ApprovalsFile is the approval feed the review panels follow.
	ApprovalsFile string
	// Panels are written as [[panels]] entries.
	Panels []PanelConfig
}

// DefaultTemplateVars returns vars matching NewDefaults.
func DefaultTemplateVars() TemplateVars {
	d := NewDefaults()
	return TemplateVars{
		Name:          d.Branding.Name,
		StoragePrefix: d.Branding.StoragePrefix,
		Backend:       d.Storage.Backend,
		StoragePath:   d.Storage.Path,
		ApprovalsFile: d.Approvals.File,
		Panels:        d.Panels,
	}
}

// RenderConfig renders the starter configuration.
func RenderConfig(vars TemplateVars) ([]byte, error) {
	content, err := templateFS.ReadFile(configTemplate)
	if err != nil {
		return nil, fmt.Errorf("reading embedded template: %w", err)
	}
	tmpl, err := template.New("dockyard.toml").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteConfig renders the starter configuration to path, creating parent
// directories. An existing file is only overwritten when force is set.
func WriteConfig(path string, vars TemplateVars, force bool) error {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return fmt.Errorf("%s: %w", path, ErrConfigExists)
		}
		log.Debug("overwriting existing file", "path", path)
	}

	output, err := RenderConfig(vars)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, output, 0o644); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	log.Debug("created config file", "path", path)
	return nil
}
