package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/config"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/logging"
)

// Global flag values accessible to all subcommands.
var (
	flagVerbose bool
	flagQuiet   bool
	flagConfig  string
	flagDir     string
	flagNoColor bool

	flagStoragePrefix  string
	flagStorageBackend string
	flagStoragePath    string
	flagApprovalsFile  string
	flagLogFile        string
)

// rootCmd is the base command for Dockyard.
var rootCmd = &cobra.Command{
	Use:   "dockyard",
	Short: "Dockable terminal workspace with persistent panel layout",
	Long: `Dockyard is a terminal workspace made of dockable panel groups. Side and
bottom panels collapse and expand without losing their size, sizes survive
restarts, and review panels open and close as an approval feed changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// When invoked with no subcommand, launch the TUI.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDock(cmd, args)
	},
	PersistentPreRunE: persistentPreRun,
}

// persistentPreRun applies DOCKYARD_* environment overrides for flags not
// set on the command line, initialises logging and handles --no-color and
// --dir.
func persistentPreRun(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	if !flags.Changed("verbose") && os.Getenv("DOCKYARD_VERBOSE") != "" {
		flagVerbose = true
	}
	if !flags.Changed("quiet") && os.Getenv("DOCKYARD_QUIET") != "" {
		flagQuiet = true
	}
	if !flags.Changed("no-color") && (os.Getenv("NO_COLOR") != "" || os.Getenv("DOCKYARD_NO_COLOR") != "") {
		flagNoColor = true
	}

	jsonFormat := os.Getenv("DOCKYARD_LOG_FORMAT") == "json"
	logging.Setup(flagVerbose, flagQuiet, jsonFormat)

	if flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if flagDir != "" {
		if err := os.Chdir(flagDir); err != nil {
			return fmt.Errorf("changing directory to %s: %w", flagDir, err)
		}
	}
	return nil
}

func init() {
	registerPersistentFlags(rootCmd.PersistentFlags(), true)
}

// registerPersistentFlags declares the global flags on fs. When bind is true
// the package-level flag variables receive the values; otherwise throwaway
// variables are used so generators can build a fresh tree.
func registerPersistentFlags(fs *pflag.FlagSet, bind bool) {
	var (
		verbose, quiet, noColor                          = &flagVerbose, &flagQuiet, &flagNoColor
		cfgPath, dir                                     = &flagConfig, &flagDir
		prefix, backend, storagePath, approvals, logFile = &flagStoragePrefix, &flagStorageBackend, &flagStoragePath, &flagApprovalsFile, &flagLogFile
	)
	if !bind {
		verbose, quiet, noColor = new(bool), new(bool), new(bool)
		cfgPath, dir = new(string), new(string)
		prefix, backend, storagePath, approvals, logFile = new(string), new(string), new(string), new(string), new(string)
	}

	fs.BoolVarP(verbose, "verbose", "v", false, "Enable verbose (debug) output (env: DOCKYARD_VERBOSE)")
	fs.BoolVarP(quiet, "quiet", "q", false, "Suppress all output except errors (env: DOCKYARD_QUIET)")
	fs.StringVar(cfgPath, "config", "", "Path to dockyard.toml config file")
	fs.StringVar(dir, "dir", "", "Override working directory")
	fs.BoolVar(noColor, "no-color", false, "Disable colored output (env: DOCKYARD_NO_COLOR, NO_COLOR)")

	fs.StringVar(prefix, "storage-prefix", "", "Namespace for persisted panel sizes (env: DOCKYARD_STORAGE_PREFIX)")
	fs.StringVar(backend, "storage-backend", "", "Storage backend: file, sqlite or memory (env: DOCKYARD_STORAGE_BACKEND)")
	fs.StringVar(storagePath, "storage-path", "", "Layout store file or database (env: DOCKYARD_STORAGE_PATH)")
	fs.StringVar(approvals, "approvals-file", "", "Approval feed JSON file (env: DOCKYARD_APPROVALS_FILE)")
	fs.StringVar(logFile, "log-file", "", "Log file used while the TUI runs (env: DOCKYARD_LOG_FILE)")
}

// cliOverrides maps the storage and feed flags the user actually set to
// config overrides.
func cliOverrides(cmd *cobra.Command) *config.CLIOverrides {
	o := &config.CLIOverrides{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case "storage-prefix":
			o.StoragePrefix = &v
		case "storage-backend":
			o.StorageBackend = &v
		case "storage-path":
			o.StoragePath = &v
		case "approvals-file":
			o.ApprovalsFile = &v
		case "log-file":
			o.LogFile = &v
		}
	})
	return o
}

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// NewRootCmd returns a new root command for external tools such as the
// shell completion and man page generators. It carries the same persistent
// flags as rootCmd, bound to local variables, and the registered
// subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               rootCmd.Use,
		Short:             rootCmd.Short,
		Long:              rootCmd.Long,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: rootCmd.PersistentPreRunE,
	}
	registerPersistentFlags(cmd.PersistentFlags(), false)

	for _, child := range rootCmd.Commands() {
		cmd.AddCommand(child)
	}
	return cmd
}
