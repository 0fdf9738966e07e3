// Command gen-completions writes the dockyard completion scripts for bash,
// zsh, fish and PowerShell into one directory for release archives.
//
// Usage:
//
//	go run ./scripts/gen-completions [output-dir]
//
// The default output directory is "completions".
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/cli"
)

type script struct {
	name     string
	generate func(root *cobra.Command, w io.Writer) error
}

var scripts = []script{
	{"dockyard.bash", func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) }},
	{"_dockyard", func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) }},
	{"dockyard.fish", func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) }},
	{"dockyard.ps1", func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) }},
}

func main() {
	outDir := "completions"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}
	if err := run(outDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("All completions written to %s/\n", outDir)
}

func run(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %q: %w", outDir, err)
	}

	root := cli.NewRootCmd()
	for _, s := range scripts {
		path := filepath.Join(outDir, s.name)
		if err := writeScript(path, root, s.generate); err != nil {
			return err
		}
		fmt.Printf("Generated %s\n", path)
	}
	return nil
}

func writeScript(path string, root *cobra.Command, generate func(*cobra.Command, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %q: %w", path, err)
	}
	if err := generate(root, f); err != nil {
		f.Close()
		return fmt.Errorf("generating %q: %w", path, err)
	}
	return f.Close()
}
