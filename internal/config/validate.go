package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/dock"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/storage"
)

// ValidationSeverity indicates whether a validation issue is an error or warning.
type ValidationSeverity string

const (
	// SeverityError indicates a fatal validation issue; the configuration is unusable.
	SeverityError ValidationSeverity = "error"
	// SeverityWarning indicates an informational validation issue; the configuration works
	// but may have problems.
	SeverityWarning ValidationSeverity = "warning"
)

// ValidationIssue represents a single validation finding.
type ValidationIssue struct {
	Severity ValidationSeverity
	Field    string // dotted path, e.g., "panels.filetree.min_size"
	Message  string
}

// ValidationResult holds all validation findings.
type ValidationResult struct {
	Issues []ValidationIssue
}

// HasErrors returns true if any issue has error severity.
func (vr *ValidationResult) HasErrors() bool {
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any issue has warning severity.
func (vr *ValidationResult) HasWarnings() bool {
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Errors returns only error-severity issues.
func (vr *ValidationResult) Errors() []ValidationIssue {
	var errs []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	return errs
}

// Warnings returns only warning-severity issues.
func (vr *ValidationResult) Warnings() []ValidationIssue {
	var warns []ValidationIssue
	for _, issue := range vr.Issues {
		if issue.Severity == SeverityWarning {
			warns = append(warns, issue)
		}
	}
	return warns
}

// Err returns the error-severity issues joined into one error, or nil.
func (vr *ValidationResult) Err() error {
	errs := vr.Errors()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

var validBackends = map[string]bool{
	storage.BackendFile:   true,
	storage.BackendSQLite: true,
	storage.BackendMemory: true,
}

// Validate checks the configuration for correctness and completeness.
// It performs structural validation, semantic validation, and unknown key detection.
//
// Parameters:
//   - cfg: the configuration to validate
//   - meta: TOML metadata from BurntSushi/toml (may be nil if no file was loaded)
//
// Returns validation results. Check HasErrors() to determine if the config is usable.
func Validate(cfg *Config, meta *toml.MetaData) *ValidationResult {
	vr := &ValidationResult{}

	if cfg == nil {
		addError(vr, "", "configuration is nil")
		return vr
	}

	validateBranding(vr, &cfg.Branding)
	validateStorage(vr, &cfg.Storage)
	validatePanels(vr, cfg.Panels)
	validateReview(vr, &cfg.Review)
	validateApprovals(vr, &cfg.Approvals)
	validateUnknownKeys(vr, meta)

	return vr
}

func validateBranding(vr *ValidationResult, b *BrandingConfig) {
	if b.StoragePrefix == "" {
		addError(vr, "branding.storage_prefix", "must not be empty")
	}
	if strings.Contains(b.StoragePrefix, ":") {
		addWarning(vr, "branding.storage_prefix",
			fmt.Sprintf("prefix %q contains ':' which is also the key separator", b.StoragePrefix))
	}
	if b.Name == "" {
		addWarning(vr, "branding.name", "is empty; the workspace title will be blank")
	}
}

func validateStorage(vr *ValidationResult, s *StorageConfig) {
	if !validBackends[s.Backend] {
		addError(vr, "storage.backend",
			fmt.Sprintf("unrecognized backend %q; must be one of: file, sqlite, memory", s.Backend))
		return
	}
	if s.Backend != storage.BackendMemory && s.Path == "" {
		addError(vr, "storage.path", fmt.Sprintf("must not be empty for the %s backend", s.Backend))
	}
	if s.Backend == storage.BackendMemory && s.Path != "" {
		addWarning(vr, "storage.path", "ignored by the memory backend; sizes will not survive a restart")
	}
}

func validatePanels(vr *ValidationResult, panels []PanelConfig) {
	if len(panels) == 0 {
		addWarning(vr, "panels", "no panels configured")
	}
	seen := make(map[string]bool, len(panels))
	for i, p := range panels {
		prefix := fmt.Sprintf("panels[%d]", i)
		if p.ID == "" {
			addError(vr, prefix+".id", "must not be empty")
		} else {
			if seen[p.ID] {
				addError(vr, prefix+".id", fmt.Sprintf("duplicate panel id %q", p.ID))
			}
			seen[p.ID] = true
			prefix = "panels." + p.ID
		}

		if _, err := dock.ParseDimension(p.Dimension); err != nil {
			addError(vr, prefix+".dimension", err.Error())
		}
		if p.MinSize <= 0 {
			addError(vr, prefix+".min_size", "must be positive")
		}
		if p.CollapsedSize <= 0 {
			addError(vr, prefix+".collapsed_size", "must be positive")
		}
		if p.Size < 0 {
			addError(vr, prefix+".size", "must not be negative")
		}
		if p.Size > 0 && p.MinSize > 0 && p.Size < p.MinSize {
			addWarning(vr, prefix+".size",
				fmt.Sprintf("size %g is below min_size %g", p.Size, p.MinSize))
		}
	}
}

func validateReview(vr *ValidationResult, r *ReviewConfig) {
	if r.Kind == "" {
		addError(vr, "review.kind", "must not be empty")
	}
	if strings.Contains(r.Kind, "-") {
		addWarning(vr, "review.kind", "contains '-' which is also the panel id separator")
	}
	if r.MinHeight < 0 {
		addError(vr, "review.min_height", "must not be negative")
	}
}

func validateApprovals(vr *ValidationResult, a *ApprovalsConfig) {
	if a.File == "" {
		addWarning(vr, "approvals.file", "is empty; review panels are disabled")
	}
	for i, p := range a.Include {
		if !doublestar.ValidatePattern(p) {
			addError(vr, fmt.Sprintf("approvals.include[%d]", i), fmt.Sprintf("invalid glob pattern %q", p))
		}
	}
	for i, p := range a.Exclude {
		if !doublestar.ValidatePattern(p) {
			addError(vr, fmt.Sprintf("approvals.exclude[%d]", i), fmt.Sprintf("invalid glob pattern %q", p))
		}
	}
	if d, err := a.DebounceDuration(); err != nil {
		addError(vr, "approvals.debounce", fmt.Sprintf("invalid duration %q", a.Debounce))
	} else if d < 0 {
		addError(vr, "approvals.debounce", "must not be negative")
	}
}

// validateUnknownKeys checks for TOML keys that did not map to any config struct field.
func validateUnknownKeys(vr *ValidationResult, meta *toml.MetaData) {
	if meta == nil {
		return
	}

	for _, key := range meta.Undecoded() {
		path := strings.Join(key, ".")
		addWarning(vr, path, "unknown configuration key")
	}
}

// addError appends an error-severity issue to the validation result.
func addError(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{
		Severity: SeverityError,
		Field:    field,
		Message:  message,
	})
}

// addWarning appends a warning-severity issue to the validation result.
func addWarning(vr *ValidationResult, field, message string) {
	vr.Issues = append(vr.Issues, ValidationIssue{
		Severity: SeverityWarning,
		Field:    field,
		Message:  message,
	})
}
