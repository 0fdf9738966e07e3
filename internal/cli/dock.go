package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/buildinfo"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/config"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/logging"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/tui"
	"github.com/AbdelazizMoustafa10m/dockyard/internal/workspace"
)

// runDock is the RunE handler of the root command. It resolves and
// validates the configuration, mounts the workspace and runs the TUI until
// the user quits or the process is interrupted.
func runDock(cmd *cobra.Command, _ []string) error {
	logger := logging.New("dock")

	cfg, err := loadValidConfig(cmd)
	if err != nil {
		return err
	}

	baseDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	info := buildinfo.GetInfo()
	logger.Debug("starting workspace", "version", info.Version, "release", info.IsRelease(), "dir", baseDir)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ws, err := workspace.Open(ctx, cfg, baseDir)
	if err != nil {
		return fmt.Errorf("opening workspace: %w", err)
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil {
			logger.Error("closing workspace", "error", cerr)
		}
	}()

	return tui.RunTUI(ctx, tui.AppConfig{
		Version:   info.Version,
		Title:     cfg.Branding.Name,
		Workspace: ws,
		BaseDir:   baseDir,
	}, workspace.ResolvePath(baseDir, cfg.Logging.File))
}

// loadValidConfig resolves the configuration and fails on validation
// errors. Warnings are logged.
func loadValidConfig(cmd *cobra.Command) (*config.Config, error) {
	logger := logging.New("config")

	resolved, meta, err := loadAndResolveConfig(cliOverrides(cmd))
	if err != nil {
		return nil, err
	}
	result := config.Validate(resolved.Config, meta)
	for _, w := range result.Warnings() {
		logger.Warn(w.Message, "field", w.Field)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", "path", resolved.Path)
	return resolved.Config, nil
}
