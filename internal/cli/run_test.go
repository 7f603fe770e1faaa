package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ida/internal/store"
	"github.com/roach88/ida/internal/testutil"
	"github.com/roach88/ida/internal/trace"
)

const testSession = "0192f0c4-0000-7000-8000-000000000001"

func TestRunCommand_RequiresDB(t *testing.T) {
	_, err := execute(NewRunCommand(&RootOptions{Format: "text"}), stormMod(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestRunCommand_MissingMod(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ida.db")
	_, err := execute(NewRunCommand(&RootOptions{Format: "text"}), "--db", db, filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load mod")
}

func TestRunCommand_NegativeFrames(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ida.db")
	_, err := execute(NewRunCommand(&RootOptions{Format: "text"}), "--db", db, "--frames", "-1", stormMod(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_Records(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ida.db")
	cmd := newRunCommand(&RunOptions{
		RootOptions:      &RootOptions{Format: "text"},
		SessionGenerator: testutil.NewFixedSessionGenerator(testSession),
	})

	out, err := execute(cmd, "--db", db, "--frames", "3", stormMod(t))
	require.NoError(t, err, out)
	assert.Contains(t, out, "Session: "+testSession)
	assert.Contains(t, out, "Mod: storm, 3 frame(s)")

	st := openStore(t, db)
	sess, err := st.ReadSession(t.Context(), testSession)
	require.NoError(t, err)
	assert.Equal(t, "storm", sess.ModName)
	assert.Equal(t, store.SourceRun, sess.Source)

	counts, err := st.CountEvents(t.Context(), testSession)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[trace.KindLife], "one SUICIDE per frame")
	assert.Equal(t, 3, counts[trace.KindHook], "run, beforeLoadScene, afterLoadScene")

	v, err := st.Verify(t.Context(), testSession)
	require.NoError(t, err)
	assert.True(t, v.OK())
}

func TestRunCommand_JSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ida.db")
	cmd := newRunCommand(&RunOptions{
		RootOptions:      &RootOptions{Format: "json"},
		SessionGenerator: testutil.NewFixedSessionGenerator(testSession),
	})

	out, err := execute(cmd, "--db", db, "--frames", "1", stormMod(t))
	require.NoError(t, err, out)

	var resp struct {
		Status  string     `json:"status"`
		Session string     `json:"session"`
		Data    RunSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, testSession, resp.Session)
	assert.Equal(t, "storm", resp.Data.Mod)
	assert.Equal(t, 4, resp.Data.Events)
	assert.Equal(t, 1, resp.Data.Kinds[trace.KindLife])
}

func TestRunCommand_ThrowingEntry(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ida.db")
	mod := writeMod(t, map[string]string{
		"mod.cue":  `name: "storm"`,
		"index.js": `throw new Error("lightning");`,
	})
	cmd := newRunCommand(&RunOptions{
		RootOptions:      &RootOptions{Format: "text"},
		SessionGenerator: testutil.NewFixedSessionGenerator(testSession),
	})

	out, err := execute(cmd, "--db", db, mod)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗")

	st := openStore(t, db)
	counts, err := st.CountEvents(t.Context(), testSession)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[trace.KindHalt])
}
