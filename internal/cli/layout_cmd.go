package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/config"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/logging"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/storage"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/workspace"
)

// ErrResetCancelled is returned when the user declines the reset prompt.
var ErrResetCancelled = errors.New("layout reset cancelled")

var (
	layoutShowJSON   bool
	layoutResetForce bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Inspect or reset persisted panel sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// layoutShowCmd implements "dockyard layout show".
var layoutShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List panel slots with their bounds and persisted size",
	Args:  cobra.NoArgs,
	RunE:  runLayoutShow,
}

// layoutResetCmd implements "dockyard layout reset".
var layoutResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every persisted panel size",
	Long: `Delete every persisted panel size under the configured storage prefix.
The next start uses the sizes from dockyard.toml. Asks for confirmation
unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runLayoutReset,
}

func init() {
	layoutShowCmd.Flags().BoolVar(&layoutShowJSON, "json", false, "Output as JSON")
	layoutResetCmd.Flags().BoolVarP(&layoutResetForce, "force", "f", false, "Skip the confirmation prompt")
	layoutCmd.AddCommand(layoutShowCmd)
	layoutCmd.AddCommand(layoutResetCmd)
	rootCmd.AddCommand(layoutCmd)
}

// SlotReport is one row of "layout show".
type SlotReport struct {
	ID            string  `json:"id"`
	Dimension     string  `json:"dimension"`
	Size          float64 `json:"size"`
	MinSize       float64 `json:"minSize"`
	CollapsedSize float64 `json:"collapsedSize"`
	Collapsed     bool    `json:"collapsed"`
	// Persisted is the stored size, empty when nothing is stored.
	Persisted string `json:"persisted,omitempty"`
}

// openStore opens the configured layout store relative to the working
// directory.
func openStore(cfg *config.Config) (storage.KV, error) {
	baseDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}
	return storage.Open(cfg.Storage.Backend, workspace.ResolvePath(baseDir, cfg.Storage.Path))
}

// buildSlotReports pairs the configured slots with their persisted values.
func buildSlotReports(cfg *config.Config, kv storage.KV) ([]SlotReport, error) {
	slots, err := cfg.Slots()
	if err != nil {
		return nil, err
	}
	reports := make([]SlotReport, 0, len(slots))
	for _, s := range slots {
		raw, ok, err := kv.Get(storage.Key(cfg.Branding.StoragePrefix, s.ID))
		if err != nil {
			return nil, fmt.Errorf("reading size of %q: %w", s.ID, err)
		}
		r := SlotReport{
			ID:            s.ID,
			Dimension:     s.Dimension.String(),
			Size:          s.Size,
			MinSize:       s.MinSize,
			CollapsedSize: s.CollapsedSize,
			Collapsed:     s.Collapsed,
		}
		if ok {
			r.Persisted = raw
		}
		reports = append(reports, r)
	}
	return reports, nil
}

func runLayoutShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadValidConfig(cmd)
	if err != nil {
		return err
	}
	kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	reports, err := buildSlotReports(cfg, kv)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if layoutShowJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	formatSlotTable(reports, out)
	return nil
}

// formatSlotTable writes a tabwriter-aligned table of slot reports to w.
func formatSlotTable(reports []SlotReport, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "PANEL\tDIMENSION\tSIZE\tMIN\tCOLLAPSED\tSTORED")
	fmt.Fprintln(tw, "-----\t---------\t----\t---\t---------\t------")
	for _, r := range reports {
		collapsed := "no"
		if r.Collapsed {
			collapsed = "yes (" + strconv.FormatFloat(r.CollapsedSize, 'g', -1, 64) + ")"
		}
		stored := r.Persisted
		if stored == "" {
			stored = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%s\t%s\n",
			r.ID, r.Dimension, r.Size, r.MinSize, collapsed, stored)
	}
}

func runLayoutReset(cmd *cobra.Command, _ []string) error {
	logger := logging.New("layout")

	cfg, err := loadValidConfig(cmd)
	if err != nil {
		return err
	}

	if !layoutResetForce {
		confirmed := false
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Delete persisted sizes under %q?", cfg.Branding.StoragePrefix)).
					Description(fmt.Sprintf("Backend %s at %s", cfg.Storage.Backend, cfg.Storage.Path)).
					Affirmative("Delete").
					Negative("Cancel").
					Value(&confirmed),
			),
		).
			WithTheme(huh.ThemeCharm()).
			WithWidth(formWidth).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return ErrResetCancelled
			}
			return fmt.Errorf("confirmation: %w", err)
		}
		if !confirmed {
			return ErrResetCancelled
		}
	}

	kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	n, err := resetLayout(kv, cfg.Branding.StoragePrefix)
	if err != nil {
		return err
	}
	logger.Info("layout reset", "prefix", cfg.Branding.StoragePrefix, "deleted", n)
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d persisted size(s)\n", n)
	return nil
}

// resetLayout deletes every panel key under prefix and returns how many
// were removed.
func resetLayout(kv storage.KV, prefix string) (int, error) {
	keys, err := kv.Keys(storage.PanelPrefix(prefix))
	if err != nil {
		return 0, fmt.Errorf("listing stored sizes: %w", err)
	}
	var errs []error
	deleted := 0
	for _, k := range keys {
		if err := kv.Delete(k); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}
	return deleted, errors.Join(errs...)
}
