package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelazizMoustafa10m/dockyard/internal/buildinfo"
)

func TestVersionCmd_HumanReadable(t *testing.T) {
	resetRootCmd(t)

	stdout, _, code := captureOutput(t, "version")

	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "dockyard v")
	assert.Contains(t, stdout, buildinfo.Version)
	assert.Contains(t, stdout, buildinfo.Commit)
	assert.Contains(t, stdout, buildinfo.Date)
}

func TestVersionCmd_JSONOutput(t *testing.T) {
	resetRootCmd(t)

	stdout, _, code := captureOutput(t, "version", "--json")

	require.Equal(t, 0, code)
	var info buildinfo.Info
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, buildinfo.GetInfo(), info)
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	resetRootCmd(t)

	_, stderr, code := captureOutput(t, "version", "extra")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}
