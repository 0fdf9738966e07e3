package dockyard_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// projectRoot returns the absolute path to the project root directory.
func projectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root")
		}
		dir = parent
	}
}

// readMakefile reads the Makefile content from the project root.
func readMakefile(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(projectRoot(t), "Makefile"))
	require.NoError(t, err, "failed to read Makefile")
	return string(data)
}

// runMake executes a make target in the project root and returns combined output.
func runMake(t *testing.T, target string) (string, error) {
	t.Helper()
	cmd := exec.Command("make", target)
	cmd.Dir = projectRoot(t)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestMakefile_ContainsTargets(t *testing.T) {
	t.Parallel()

	content := readMakefile(t)
	targets := []string{
		"all", "build", "build-debug", "install", "test", "bench", "vet",
		"lint", "fmt", "tidy", "clean", "run-version", "completions", "manpages",
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, content, "\n"+target+":", "Makefile must define %q", target)
		})
	}
}

func TestMakefile_BuildSettings(t *testing.T) {
	t.Parallel()

	content := readMakefile(t)
	for _, want := range []string{
		".PHONY:",
		"CGO_ENABLED=0",
		"-X $(PKG)/internal/buildinfo.Version",
		"-X $(PKG)/internal/buildinfo.Commit",
		"-X $(PKG)/internal/buildinfo.Date",
		"./cmd/$(BINARY)",
	} {
		assert.Contains(t, content, want)
	}
}

func TestMakeBuild_ProducesBinary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping make build test in short mode")
	}
	if _, err := exec.LookPath("make"); err != nil {
		t.Skip("make not installed")
	}

	root := projectRoot(t)
	_, _ = runMake(t, "clean")
	t.Cleanup(func() {
		_, _ = runMake(t, "clean")
	})

	output, err := runMake(t, "build")
	require.NoError(t, err, "make build failed: %s", output)

	info, err := os.Stat(filepath.Join(root, "dist", "dockyard"))
	require.NoError(t, err, "binary not found at dist/dockyard after make build")
	assert.Greater(t, info.Size(), int64(0))

	output, err = runMake(t, "clean")
	require.NoError(t, err, "make clean failed: %s", output)
	_, err = os.Stat(filepath.Join(root, "dist"))
	assert.True(t, os.IsNotExist(err), "dist/ should be removed after make clean")
}
