package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/approval"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/config"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/review"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/workspace"
)

var approvalsListJSON bool

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "Inspect the approval feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// approvalsListCmd implements "dockyard approvals list".
var approvalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the review panels the current approval feed would open",
	Long: `Read the approval feed once, apply the include/exclude filters and print
the panel id and title each pending request gets in the workspace.`,
	Args: cobra.NoArgs,
	RunE: runApprovalsList,
}

func init() {
	approvalsListCmd.Flags().BoolVar(&approvalsListJSON, "json", false, "Output as JSON")
	approvalsCmd.AddCommand(approvalsListCmd)
	rootCmd.AddCommand(approvalsCmd)
}

// PendingReview is one row of "approvals list".
type PendingReview struct {
	PanelID   string `json:"panelId"`
	Title     string `json:"title"`
	RequestID string `json:"requestId"`
	Path      string `json:"path,omitempty"`
	Tool      string `json:"tool,omitempty"`
}

// listPendingReviews loads the feed at path and maps each request that
// passes the filter to its review panel. Requests without an id are
// dropped, and a repeated id keeps its first entry.
func listPendingReviews(cfg *config.Config, path string) ([]PendingReview, error) {
	filter := approval.Filter{Include: cfg.Approvals.Include, Exclude: cfg.Approvals.Exclude}
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("approvals filter: %w", err)
	}
	snap, err := approval.Load(path)
	if err != nil {
		return nil, err
	}
	snap = filter.Apply(snap)

	kind := cfg.Review.Kind
	if kind == "" {
		kind = review.DefaultKind
	}

	seen := make(map[string]bool, len(snap.Requests))
	out := make([]PendingReview, 0, len(snap.Requests))
	for _, req := range snap.Requests {
		if req.ID == "" || seen[req.ID] {
			continue
		}
		seen[req.ID] = true
		out = append(out, PendingReview{
			PanelID:   review.PanelID(kind, req.ID),
			Title:     review.Title(req),
			RequestID: req.ID,
			Path:      req.Path,
			Tool:      req.Tool,
		})
	}
	return out, nil
}

func runApprovalsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadValidConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Approvals.File == "" {
		return errors.New("no approvals file configured")
	}
	baseDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	pending, err := listPendingReviews(cfg, workspace.ResolvePath(baseDir, cfg.Approvals.File))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if approvalsListJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(pending)
	}
	if len(pending) == 0 {
		fmt.Fprintln(out, "No pending approvals.")
		return nil
	}
	formatPendingTable(pending, out)
	return nil
}

// formatPendingTable writes a tabwriter-aligned table of pending reviews.
func formatPendingTable(pending []PendingReview, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "PANEL\tTITLE\tTOOL")
	fmt.Fprintln(tw, "-----\t-----\t----")
	for _, p := range pending {
		tool := p.Tool
		if tool == "" {
			tool = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.PanelID, p.Title, tool)
	}
}
