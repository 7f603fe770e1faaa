package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsmCommand(t *testing.T) {
	out, err := execute(NewAsmCommand(&RootOptions{Format: "text"}), "SUICIDE")
	require.NoError(t, err)
	assert.Equal(t, "260b\n", out)
}

func TestAsmCommand_JSON(t *testing.T) {
	out, err := execute(NewAsmCommand(&RootOptions{Format: "json"}), "--family", "move", "SAMPLE 12")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   []AsmLine `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "0e0c0000", resp.Data[0].Code)
	assert.Equal(t, 4, resp.Data[0].Size)
}

func TestAsmCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "life.txt")
	require.NoError(t, os.WriteFile(path, []byte("# hero\n\nSUICIDE\nSUICIDE\n"), 0o644))

	out, err := execute(NewAsmCommand(&RootOptions{Format: "text"}), "--file", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"260b", "260b"}, strings.Fields(out))
}

func TestAsmCommand_Errors(t *testing.T) {
	t.Run("unknown opcode", func(t *testing.T) {
		_, err := execute(NewAsmCommand(&RootOptions{Format: "text"}), "NOT_AN_OPCODE")
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})

	t.Run("unknown family", func(t *testing.T) {
		_, err := execute(NewAsmCommand(&RootOptions{Format: "text"}), "--family", "track", "SUICIDE")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, err.Error(), "unknown family")
	})

	t.Run("no input", func(t *testing.T) {
		cmd := NewAsmCommand(&RootOptions{Format: "text"})
		cmd.SetIn(strings.NewReader("\n# nothing\n"))
		_, err := execute(cmd)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestDisasmCommand(t *testing.T) {
	out, err := execute(NewDisasmCommand(&RootOptions{Format: "text"}), "260b")
	require.NoError(t, err)
	assert.Contains(t, out, "SUICIDE")
}

func TestDisasmCommand_RoundTrip(t *testing.T) {
	code, err := execute(NewAsmCommand(&RootOptions{Format: "text"}), "--family", "move", "SAMPLE 12")
	require.NoError(t, err)

	out, err := execute(NewDisasmCommand(&RootOptions{Format: "text"}), "--family", "move", strings.TrimSpace(code))
	require.NoError(t, err)
	assert.Contains(t, out, "SAMPLE")
	assert.Contains(t, out, "12")
}

func TestDisasmCommand_InvalidHex(t *testing.T) {
	_, err := execute(NewDisasmCommand(&RootOptions{Format: "text"}), "zz")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
