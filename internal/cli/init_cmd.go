package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/config"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/storage"
)

// ErrInitCancelled is returned when the user aborts the interactive form.
var ErrInitCancelled = errors.New("init cancelled by user")

// formWidth is the fixed width of interactive forms.
const formWidth = 72

var (
	initFlagName        string
	initFlagForce       bool
	initFlagInteractive bool
)

// initCmd implements "dockyard init".
// It writes a starter dockyard.toml without loading an existing one, so it
// is safe to run in a fresh directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter dockyard.toml",
	Long: `Write a starter dockyard.toml in the current directory. An existing file
is preserved unless --force is supplied.

Examples:
  dockyard init                   # defaults, branding name from the directory
  dockyard init --name Harbor     # explicit branding name
  dockyard init --interactive     # answer a short form
  dockyard init --force           # overwrite an existing dockyard.toml`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initFlagName, "name", "n", "", "Branding name (defaults to \"Dockyard\")")
	initCmd.Flags().BoolVar(&initFlagForce, "force", false, "Overwrite an existing dockyard.toml")
	initCmd.Flags().BoolVarP(&initFlagInteractive, "interactive", "i", false, "Ask for name, storage prefix and backend")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	destDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	vars := config.DefaultTemplateVars()
	if initFlagName != "" {
		vars.Name = initFlagName
	}
	if initFlagInteractive {
		if err := runInitForm(&vars); err != nil {
			return err
		}
	}
	if err := checkInitVars(vars); err != nil {
		return err
	}

	path := filepath.Join(destDir, config.ConfigFileName)
	if err := config.WriteConfig(path, vars, initFlagForce); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("%s already exists in %s; use --force to overwrite", config.ConfigFileName, destDir)
		}
		return err
	}

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Wrote %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. Edit %s to adjust panels and storage\n", config.ConfigFileName)
	fmt.Fprintln(out, "  2. Check it with: dockyard config validate")
	fmt.Fprintln(out, "  3. Run: dockyard")
	return nil
}

// checkInitVars rejects values the template would render into an invalid
// configuration.
func checkInitVars(vars config.TemplateVars) error {
	if strings.TrimSpace(vars.StoragePrefix) == "" {
		return errors.New("storage prefix must not be empty")
	}
	switch vars.Backend {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", vars.Backend)
	}
	return nil
}

// runInitForm asks for the branding values. The sqlite backend gets a .db
// path when the default JSON path was untouched.
func runInitForm(vars *config.TemplateVars) error {
	defaultPath := vars.StoragePath
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Workspace name").
				Description("Shown in the title bar.").
				Value(&vars.Name),
			huh.NewInput().
				Title("Storage prefix").
				Description("Namespaces persisted panel sizes.").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("must not be empty")
					}
					return nil
				}).
				Value(&vars.StoragePrefix),
			huh.NewSelect[string]().
				Title("Storage backend").
				Options(
					huh.NewOption("JSON file", storage.BackendFile),
					huh.NewOption("SQLite database", storage.BackendSQLite),
					huh.NewOption("Memory (nothing persisted)", storage.BackendMemory),
				).
				Value(&vars.Backend),
		),
	).
		WithTheme(huh.ThemeCharm()).
		WithWidth(formWidth).
		Run()
	if err != nil {
		return mapFormErr(err)
	}

	switch {
	case vars.Backend == storage.BackendSQLite && vars.StoragePath == defaultPath:
		vars.StoragePath = strings.TrimSuffix(defaultPath, filepath.Ext(defaultPath)) + ".db"
	case vars.Backend == storage.BackendMemory:
		vars.StoragePath = ""
	}
	return nil
}

func mapFormErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrInitCancelled
	}
	return fmt.Errorf("form: %w", err)
}
