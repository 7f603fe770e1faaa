package harness

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ida/internal/trace"
)

func TestRunWithGolden(t *testing.T) {
	result, err := RunWithGolden(t, loadTestScenario(t, "suicide"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestSnapshot(t *testing.T) {
	data, err := Snapshot("tiny", []trace.Event{
		{Seq: 1, Kind: trace.KindHook, Name: "run", Phase: "None", Object: -1},
		{Seq: 2, Kind: trace.KindLife, Name: "SUICIDE", Phase: "LifeScript", Object: 0, Code: []byte{0x26, 0x0b}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"tiny","trace":[{"kind":"hook","name":"run","phase":"None","seq":1},`+
			`{"code":"260b","kind":"life","name":"SUICIDE","object":0,"phase":"LifeScript","seq":2}]}`,
		string(data))
}

func TestCompareGolden(t *testing.T) {
	dir := t.TempDir()
	result := &Result{Trace: []trace.Event{{Seq: 1, Kind: trace.KindHook, Name: "run", Phase: "None", Object: -1}}}

	err := CompareGolden(dir, "cmp", result)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, WriteGolden(dir, "cmp", result))
	assert.NoError(t, CompareGolden(dir, "cmp", result))

	result.Trace[0].Name = "halt"
	err = CompareGolden(dir, "cmp", result)
	assert.True(t, errors.Is(err, ErrGoldenMismatch))
}
