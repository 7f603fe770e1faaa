package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ida/internal/store"
	"github.com/roach88/ida/internal/testutil"
)

const stormScript = `
scene.addEventListener("afterLoadScene", (sceneId) => {
  console.log("storm over", sceneId);
  scene.getObject(0).handleLifeScript((objectId) => {
    ida.life(objectId, ida.Life.LM_SUICIDE);
    return true;
  });
});
`

// writeMod creates a mod directory holding files.
func writeMod(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func stormMod(t *testing.T) string {
	t.Helper()
	return writeMod(t, map[string]string{
		"mod.cue":  `name: "storm"`,
		"index.js": stormScript,
	})
}

// execute runs cmd with args and returns its combined output.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// recordRun plays mod into db under session.
func recordRun(t *testing.T, db, mod, session, frames string) {
	t.Helper()
	cmd := newRunCommand(&RunOptions{
		RootOptions:      &RootOptions{Format: "text"},
		SessionGenerator: testutil.NewFixedSessionGenerator(session),
	})
	out, err := execute(cmd, "--db", db, "--frames", frames, mod)
	require.NoError(t, err, out)
}

func openStore(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}
