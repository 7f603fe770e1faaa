package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ida/internal/testutil"
	"github.com/roach88/ida/internal/trace"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestRun_Suicide(t *testing.T) {
	s := loadTestScenario(t, "suicide")

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, testutil.DefaultSession, result.Session)

	require.Len(t, result.Trace, 4)
	life := result.Trace[3]
	assert.Equal(t, trace.KindLife, life.Kind)
	assert.Equal(t, "SUICIDE", life.Name)
	assert.Equal(t, "LifeScript", life.Phase)
	assert.Equal(t, []byte{0x26, 0x0b}, life.Code)
}

func TestRun_SaveLoad(t *testing.T) {
	result, err := Run(context.Background(), loadTestScenario(t, "save_load"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	var saved *trace.Event
	for i := range result.Trace {
		if result.Trace[i].Name == "afterSaveGame" {
			saved = &result.Trace[i]
		}
	}
	require.NotNil(t, saved)
	assert.Equal(t, "slot1.lba", saved.Attrs["save"], "traces hold the save name, not the temp path")
}

func TestRun_Frames(t *testing.T) {
	result, err := Run(context.Background(), loadTestScenario(t, "frames"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_CoroutineSave(t *testing.T) {
	result, err := Run(context.Background(), loadTestScenario(t, "coroutine_save"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	var moves []trace.Event
	for _, ev := range result.Trace {
		if ev.Kind == trace.KindMove {
			moves = append(moves, ev)
		}
	}
	require.Len(t, moves, 2)
	assert.Equal(t, false, moves[0].Attrs["resumed"])
	assert.Equal(t, true, moves[1].Attrs["resumed"])
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, moves[0].Code[2:6])
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00}, moves[1].Code[2:6], "two frames elapsed before the save")
}

func TestRun_Deterministic(t *testing.T) {
	s := loadTestScenario(t, "save_load")

	first, err := Run(context.Background(), s)
	require.NoError(t, err)
	second, err := Run(context.Background(), s)
	require.NoError(t, err)

	a, err := Snapshot(s.Name, first.Trace)
	require.NoError(t, err)
	b, err := Snapshot(s.Name, second.Trace)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, first.Logs, second.Logs)
}

func TestRun_FailingAssertions(t *testing.T) {
	s := loadTestScenario(t, "suicide")
	expect := int64(7)
	s.Assertions = []Assertion{
		{Type: AssertTraceCount, Kind: "life", Count: 3},
		{Type: AssertFinalState, Target: "gold", Expect: &expect},
		{Type: AssertLogContains, Text: "never logged"},
	}

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "3 events with kind life")
	assert.Contains(t, result.Errors[1], "gold = 7")
	assert.Contains(t, result.Errors[2], "never logged")
}

func TestRun_EntryFailure(t *testing.T) {
	dir := t.TempDir()
	mod := filepath.Join(dir, "broken")
	require.NoError(t, os.MkdirAll(mod, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mod, "index.js"), []byte(`throw new Error("boom");`), 0o644))

	data := []byte(`
name: broken
mod: broken
steps:
  - do: run
    expect_error: true
assertions:
  - type: trace_contains
    kind: halt
`)
	s, err := ParseScenario(data, dir)
	require.NoError(t, err)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Contains(t, result.Logs, "boom")

	s.Steps[0].ExpectError = false
	result, err = Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "steps[0] run")
}

func TestRun_MissingMod(t *testing.T) {
	s := loadTestScenario(t, "suicide")
	s.Mod = "does-not-exist"

	_, err := Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load mod")
}

type failingRecorder struct{ seen int }

func (f *failingRecorder) Record(trace.Event) error {
	f.seen++
	return errors.New("disk full")
}

func TestRun_Options(t *testing.T) {
	s := loadTestScenario(t, "suicide")
	extra := &trace.Log{}

	result, err := Run(context.Background(), s, WithRecorder(extra), WithSession("custom"))
	require.NoError(t, err)
	assert.Equal(t, "custom", result.Session)
	assert.Equal(t, result.Trace, extra.Events)

	// A failing extra recorder is logged by the bridge; the run still passes.
	bad := &failingRecorder{}
	result, err = Run(context.Background(), s, WithRecorder(bad))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, len(result.Trace), bad.seen)
	assert.Contains(t, result.Logs, "failed to record trace event")
}

func TestRun_Cancelled(t *testing.T) {
	s := loadTestScenario(t, "frames")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Run(ctx, s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
}
