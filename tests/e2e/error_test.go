package e2e_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownSubcommandFails(t *testing.T) {
	t.Parallel()

	tp := newTestProject(t)
	out, exitCode := tp.runExpectFailure("nonexistent-command")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out, "unknown command")
}

func TestInvalidTomlFails(t *testing.T) {
	t.Parallel()

	tp := newTestProject(t)
	tp.writeConfig("this is not valid toml ][")

	out, exitCode := tp.runExpectFailure("config", "debug")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out, "loading config")
}

func TestInvalidConfigBlocksLayoutCommands(t *testing.T) {
	t.Parallel()

	tp := newTestProject(t)
	tp.writeConfig(storageConfig("redis", "layout"))

	for _, args := range [][]string{{"layout", "show"}, {"layout", "reset", "--force"}, {"approvals", "list"}} {
		out, exitCode := tp.runExpectFailure(args...)
		assert.Equal(t, 1, exitCode, "%v", args)
		assert.Contains(t, out, "storage.backend", "%v", args)
	}
}

func TestDirFlagNonExistentPath(t *testing.T) {
	t.Parallel()

	tp := newTestProject(t)
	out, exitCode := tp.runExpectFailure("--dir", "/nonexistent/dockyard/e2e", "version")
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out, "changing directory")
}
