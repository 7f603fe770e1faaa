package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceCommand_RequiresDB(t *testing.T) {
	_, err := execute(NewTraceCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestTraceCommand_ListEmpty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ida.db")
	out, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found in database.")
}

func TestTraceCommand_List(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ida.db")
	recordRun(t, db, stormMod(t), testSession, "2")

	out, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, testSession)
	assert.Contains(t, out, "storm")
	assert.Contains(t, out, "5 event(s)")
}

func TestTraceCommand_Session(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ida.db")
	recordRun(t, db, stormMod(t), testSession, "1")

	out, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", db, "--session", testSession)
	require.NoError(t, err)
	assert.Contains(t, out, "Trace for Session: "+testSession)
	assert.Contains(t, out, "Mod: storm (run)")
	assert.Contains(t, out, "[1] HOOK      run")
	assert.Contains(t, out, "[4] LIFE      SUICIDE #0")
	assert.Contains(t, out, "=== Stats ===")
}

func TestTraceCommand_Filters(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ida.db")
	recordRun(t, db, stormMod(t), testSession, "2")

	out, err := execute(NewTraceCommand(&RootOptions{Format: "json"}),
		"--db", db, "--session", testSession, "--kind", "life", "--object", "0")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Timeline, 2)
	for _, ev := range resp.Data.Timeline {
		assert.Equal(t, "life", ev.Kind)
		assert.Equal(t, "260b", ev.Code)
		assert.Equal(t, "SUICIDE", ev.Decode)
		require.NotNil(t, ev.Object)
		assert.Equal(t, 0, *ev.Object)
	}
}

func TestTraceCommand_SessionNotFound(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ida.db")
	_, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", db, "--session", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "session not found")
}

func TestFormatArgs(t *testing.T) {
	assert.Equal(t, "{}", formatArgs(nil))
	assert.Equal(t, "{mode=0, scene=4}", formatArgs(map[string]any{"scene": 4, "mode": 0}))
	assert.Equal(t, "{a={b=[1, x]}}", formatArgs(map[string]any{"a": map[string]any{"b": []any{1, "x"}}}))
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "short", truncateID("short"))
	assert.Equal(t, "01234567...89abcdef", truncateID("0123456789abcdef0123456789abcdef"))
}
