package format

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferFormatter(mode OutputMode, quiet bool) (Formatter, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return New(&stdout, &stderr, mode, quiet, false), &stdout, &stderr
}

func TestPrintJSON(t *testing.T) {
	f, stdout, _ := newBufferFormatter(ModeJSON, false)

	require.NoError(t, f.PrintJSON(map[string]int{"queued": 3}))
	assert.JSONEq(t, `{"queued":3}`, stdout.String())
}

func TestPrintYAML(t *testing.T) {
	f, stdout, _ := newBufferFormatter(ModeYAML, false)

	require.NoError(t, f.PrintYAML(map[string]int{"queued": 3}))
	assert.Equal(t, "queued: 3\n", stdout.String())
}

func TestPrintStructured_TableModeFallsThrough(t *testing.T) {
	f, stdout, _ := newBufferFormatter(ModeTable, false)

	handled, err := f.PrintStructured(map[string]int{"queued": 3})
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, stdout.String())
}

func TestPrintTable(t *testing.T) {
	f, stdout, _ := newBufferFormatter(ModeTable, false)

	require.NoError(t, f.PrintTable(
		[]string{"category", "queued"},
		[][]string{{"thumbnail", "2"}, {"video-generation", "0"}},
	))

	out := stdout.String()
	assert.Contains(t, out, "category")
	assert.Contains(t, out, "thumbnail")
	assert.Contains(t, out, "video-generation")
}

func TestPrintTable_JSONMode(t *testing.T) {
	f, stdout, _ := newBufferFormatter(ModeJSON, false)

	require.NoError(t, f.PrintTable([]string{"category"}, [][]string{{"thumbnail"}}))
	assert.JSONEq(t, `[{"category":"thumbnail"}]`, stdout.String())
}

func TestPrintSummary_Quiet(t *testing.T) {
	f, stdout, stderr := newBufferFormatter(ModeTable, true)

	require.NoError(t, f.PrintSummary("done"))
	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestPrintError(t *testing.T) {
	f, _, stderr := newBufferFormatter(ModeTable, false)
	require.NoError(t, f.PrintError(errors.New("boom")))
	assert.Contains(t, stderr.String(), "boom")

	f, stdout, _ := newBufferFormatter(ModeJSON, false)
	require.NoError(t, f.PrintError(errors.New("boom")))
	assert.JSONEq(t, `{"success":false,"error":"boom"}`, stdout.String())
}

func TestValidateMode(t *testing.T) {
	assert.NoError(t, ValidateMode("json"))
	assert.NoError(t, ValidateMode("yaml"))
	assert.NoError(t, ValidateMode("table"))
	assert.Error(t, ValidateMode("xml"))
}

func TestFromCommand_ReadsFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("output", "json", "")
	cmd.Flags().Bool("quiet", true, "")

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)

	f := FromCommand(cmd)
	require.NoError(t, f.PrintJSON("x"))
	assert.Contains(t, stdout.String(), "x")

	require.NoError(t, f.PrintSummary("hidden"))
	assert.NotContains(t, stdout.String(), "hidden")
}
