package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renderq/renderq/pkg/version"
)

func TestRootCommandPreparesWorkspaceAndRunsVersion(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("RENDERQ_WORKSPACE", tmp)

	cmd := NewCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version", "--short"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "renderq version:")

	for _, sub := range []string{"config", "logs"} {
		if _, err := os.Stat(filepath.Join(tmp, sub)); err != nil {
			t.Fatalf("expected workspace subdir %q: %v", sub, err)
		}
	}
}

func TestVersionCommand_FullOutput(t *testing.T) {
	t.Setenv("RENDERQ_WORKSPACE", t.TempDir())

	cmd := NewCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Go Version:")
	assert.Contains(t, buf.String(), "Platform:")
}

func TestVersionCommand_CheckConstraint(t *testing.T) {
	// Dev builds satisfy every constraint.
	cmd := NewVersionCommand("renderq")
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--check", ">= 99.0.0", "--short"})
	require.NoError(t, cmd.Execute())

	// Released builds are actually compared.
	orig := version.Version
	version.Version = "1.2.0"
	t.Cleanup(func() { version.Version = orig })

	cmd = NewVersionCommand("renderq")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--check", ">= 2.0.0"})
	require.Error(t, cmd.Execute())

	cmd = NewVersionCommand("renderq")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--check", "not a constraint"})
	require.Error(t, cmd.Execute())
}

func TestStatsCommand_InvalidOutputMode(t *testing.T) {
	cmd := NewStatsCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--output", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output mode")
}

func TestStatsCommand_ServerUnreachable(t *testing.T) {
	cmd := NewStatsCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--server-url", "http://127.0.0.1:1", "--timeout", "200ms"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query server")
}
