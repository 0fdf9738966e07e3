package config

// ConfigSource identifies where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value came from built-in defaults.
	SourceDefault ConfigSource = "default"
	// SourceFile indicates the value came from the dockyard.toml config file.
	SourceFile ConfigSource = "file"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
	// SourceCLI indicates the value came from a CLI flag.
	SourceCLI ConfigSource = "cli"
)

// ResolvedConfig holds the fully-resolved configuration with source tracking.
// The Config field contains the merged values; Sources tracks where each came from.
type ResolvedConfig struct {
	Config  *Config
	Sources map[string]ConfigSource // key is dotted path, e.g., "storage.backend"
	Path    string                  // path to the config file used (empty if none)
}

// CLIOverrides captures flag values that can override configuration.
// A nil pointer means "not overridden"; a pointer to "" means "override to
// empty string."
type CLIOverrides struct {
	StoragePrefix  *string
	StorageBackend *string
	StoragePath    *string
	ApprovalsFile  *string
	LogFile        *string
}

// EnvFunc is a function that looks up environment variables.
// Default implementation is os.LookupEnv. Injected for testability.
type EnvFunc func(key string) (string, bool)

// Resolve merges configuration from all sources in priority order:
// CLI flags > environment variables > config file > defaults.
//
// Panels merge by id: a file entry replaces the default entry with the same
// id and new ids are appended in file order.
func Resolve(defaults *Config, fileConfig *Config, envFn EnvFunc, overrides *CLIOverrides) *ResolvedConfig {
	rc := &ResolvedConfig{
		Config:  &Config{},
		Sources: make(map[string]ConfigSource),
	}

	if defaults == nil {
		defaults = &Config{}
	}
	if envFn == nil {
		envFn = func(string) (string, bool) { return "", false }
	}
	if overrides == nil {
		overrides = &CLIOverrides{}
	}

	resolveLayer(rc, defaults, SourceDefault, setString)
	if fileConfig != nil {
		resolveLayer(rc, fileConfig, SourceFile, mergeString)
	}
	resolveFromEnv(rc, envFn)
	resolveFromCLI(rc, overrides)

	return rc
}

type stringMerger func(target *string, value string, path string, source ConfigSource, sources map[string]ConfigSource)

// resolveLayer applies one layer. The defaults layer sets every field; the
// file layer only overrides non-zero values.
func resolveLayer(rc *ResolvedConfig, layer *Config, source ConfigSource, merge stringMerger) {
	c := rc.Config

	merge(&c.Branding.Name, layer.Branding.Name, "branding.name", source, rc.Sources)
	merge(&c.Branding.StoragePrefix, layer.Branding.StoragePrefix, "branding.storage_prefix", source, rc.Sources)
	merge(&c.Storage.Backend, layer.Storage.Backend, "storage.backend", source, rc.Sources)
	merge(&c.Storage.Path, layer.Storage.Path, "storage.path", source, rc.Sources)
	merge(&c.Logging.File, layer.Logging.File, "logging.file", source, rc.Sources)
	merge(&c.Review.Kind, layer.Review.Kind, "review.kind", source, rc.Sources)
	merge(&c.Approvals.File, layer.Approvals.File, "approvals.file", source, rc.Sources)
	merge(&c.Approvals.Debounce, layer.Approvals.Debounce, "approvals.debounce", source, rc.Sources)

	if source == SourceDefault || layer.Review.MinHeight != 0 {
		c.Review.MinHeight = layer.Review.MinHeight
		rc.Sources["review.min_height"] = source
	}
	if source == SourceDefault || len(layer.Approvals.Include) > 0 {
		c.Approvals.Include = copyStrings(layer.Approvals.Include)
		rc.Sources["approvals.include"] = source
	}
	if source == SourceDefault || len(layer.Approvals.Exclude) > 0 {
		c.Approvals.Exclude = copyStrings(layer.Approvals.Exclude)
		rc.Sources["approvals.exclude"] = source
	}

	for _, p := range layer.Panels {
		mergePanel(c, p)
		rc.Sources["panels."+p.ID] = source
	}
}

func mergePanel(c *Config, p PanelConfig) {
	for i := range c.Panels {
		if c.Panels[i].ID == p.ID {
			c.Panels[i] = p
			return
		}
	}
	c.Panels = append(c.Panels, p)
}

// --- Environment ---

// Environment variable mapping:
//
//	DOCKYARD_STORAGE_PREFIX   -> branding.storage_prefix
//	DOCKYARD_STORAGE_BACKEND  -> storage.backend
//	DOCKYARD_STORAGE_PATH     -> storage.path
//	DOCKYARD_APPROVALS_FILE   -> approvals.file
//	DOCKYARD_LOG_FILE         -> logging.file
func resolveFromEnv(rc *ResolvedConfig, envFn EnvFunc) {
	c := rc.Config

	envString(envFn, "DOCKYARD_STORAGE_PREFIX", &c.Branding.StoragePrefix, "branding.storage_prefix", rc.Sources)
	envString(envFn, "DOCKYARD_STORAGE_BACKEND", &c.Storage.Backend, "storage.backend", rc.Sources)
	envString(envFn, "DOCKYARD_STORAGE_PATH", &c.Storage.Path, "storage.path", rc.Sources)
	envString(envFn, "DOCKYARD_APPROVALS_FILE", &c.Approvals.File, "approvals.file", rc.Sources)
	envString(envFn, "DOCKYARD_LOG_FILE", &c.Logging.File, "logging.file", rc.Sources)
}

func envString(envFn EnvFunc, key string, target *string, path string, sources map[string]ConfigSource) {
	if val, ok := envFn(key); ok {
		*target = val
		sources[path] = SourceEnv
	}
}

// --- CLI overrides ---

func resolveFromCLI(rc *ResolvedConfig, overrides *CLIOverrides) {
	c := rc.Config

	cliString(overrides.StoragePrefix, &c.Branding.StoragePrefix, "branding.storage_prefix", rc.Sources)
	cliString(overrides.StorageBackend, &c.Storage.Backend, "storage.backend", rc.Sources)
	cliString(overrides.StoragePath, &c.Storage.Path, "storage.path", rc.Sources)
	cliString(overrides.ApprovalsFile, &c.Approvals.File, "approvals.file", rc.Sources)
	cliString(overrides.LogFile, &c.Logging.File, "logging.file", rc.Sources)
}

func cliString(value *string, target *string, path string, sources map[string]ConfigSource) {
	if value != nil {
		*target = *value
		sources[path] = SourceCLI
	}
}

// --- Helpers ---

// setString unconditionally sets the target to the given value and records the source.
func setString(target *string, value string, path string, source ConfigSource, sources map[string]ConfigSource) {
	*target = value
	sources[path] = source
}

// mergeString overwrites the target only if value is non-empty (non-zero string).
// For file-layer merging, an empty string in the file means "not set in file",
// so it does not override the default.
func mergeString(target *string, value string, path string, source ConfigSource, sources map[string]ConfigSource) {
	if value != "" {
		*target = value
		sources[path] = source
	}
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
