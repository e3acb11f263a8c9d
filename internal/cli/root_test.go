package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quantagraph/internal/errors"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "leafplan", cmd.Use)
	assert.Contains(t, cmd.Version, "commit")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"plan"},
		{"candidates"},
		{"features"},
		{"snapshot", "import"},
		{"snapshot", "export"},
		{"snapshot", "list"},
	}

	for _, path := range commands {
		t.Run(fmt.Sprint(path), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	snapshotFlag := cmd.PersistentFlags().Lookup("snapshot")
	require.NotNil(t, snapshotFlag)
	assert.Equal(t, "default", snapshotFlag.DefValue)

	for _, name := range []string{"config", "catalog", "dsn"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestExportCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	exportCmd, _, err := cmd.Find([]string{"snapshot", "export"})
	require.NoError(t, err)

	outputFlag := exportCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
}

func TestInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"features", "--format", "xml"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := WrapExitError(ExitCommandError, "failed to load", errors.New(errors.IOError, "gone"))
	assert.Equal(t, "failed to load: gone (GQLSTATE 58030)", wrapped.Error())
	assert.True(t, errors.IsError(wrapped, errors.IOError))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("outer: %w", wrapped)))
}

func TestOutputFormatter(t *testing.T) {
	t.Run("text error", func(t *testing.T) {
		var buf bytes.Buffer
		f := &OutputFormatter{Format: "text", Writer: &buf, Verbose: true}
		err := errors.New(errors.HintConflict, "hints conflict").
			WithDetail("two hints").
			WithHint("drop one")
		require.NoError(t, f.Error(err))
		assert.Equal(t, "Error [42N52]: hints conflict\nDetail: two hints\nHint: drop one\n", buf.String())
	})

	t.Run("json error", func(t *testing.T) {
		var buf bytes.Buffer
		f := &OutputFormatter{Format: "json", Writer: &buf}
		require.NoError(t, f.Error(errors.New(errors.IOError, "gone")))
		assert.JSONEq(t, `{"status":"error","error":{"code":"58030","message":"gone"}}`, buf.String())
	})

	t.Run("foreign errors are internal", func(t *testing.T) {
		var buf bytes.Buffer
		f := &OutputFormatter{Format: "text", Writer: &buf}
		require.NoError(t, f.Error(fmt.Errorf("boom")))
		assert.Contains(t, buf.String(), "Error [XX000]")
	})

	t.Run("verbose log", func(t *testing.T) {
		var out, diag bytes.Buffer
		f := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &diag}
		f.VerboseLog("hidden")
		f.Verbose = true
		f.VerboseLog("loaded %d", 3)
		assert.Empty(t, out.String())
		assert.Equal(t, "loaded 3\n", diag.String())
	})
}
