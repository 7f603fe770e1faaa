package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s := loadTestScenario(t, "save_load")

	assert.Equal(t, "save_load", s.Name)
	assert.Len(t, s.Steps, 5)
	assert.Equal(t, StepLoadGame, s.Steps[4].Do)
	assert.Equal(t, "slot1.lba", s.Steps[4].Save)
	require.Len(t, s.Assertions, 4)
	assert.Equal(t, int64(120), *s.Assertions[2].Expect)

	abs, err := filepath.Abs(filepath.Join("testdata", "mods", "island"))
	require.NoError(t, err)
	assert.Equal(t, abs, s.ModDir())
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "mod"), 0o755))

	const base = `
name: x
mod: mod
`
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", base + "stepz: []\n", "failed to parse YAML"},
		{"no name", "mod: mod\nsteps: [{do: run}]\nassertions: [{type: log_contains, text: a}]\n", "name is required"},
		{"no steps", base + "assertions: [{type: log_contains, text: a}]\n", "steps list is required"},
		{"no assertions", base + "steps: [{do: run}]\n", "assertions list is required"},
		{"missing mod", "name: x\nmod: other\nsteps: [{do: run}]\nassertions: [{type: log_contains, text: a}]\n", "mod directory not found"},
		{"missing fixture", base + "fixture: f.yaml\nsteps: [{do: run}]\nassertions: [{type: log_contains, text: a}]\n", "fixture file not found"},
		{"unknown step", base + "steps: [{do: jump}]\nassertions: [{type: log_contains, text: a}]\n", `unknown step "jump"`},
		{"empty step", base + "steps: [{scene: 1}]\nassertions: [{type: log_contains, text: a}]\n", "do is required"},
		{"bad mode", base + "steps: [{do: load_scene, mode: flying}]\nassertions: [{type: log_contains, text: a}]\n", "unknown load mode"},
		{"save without name", base + "steps: [{do: save}]\nassertions: [{type: log_contains, text: a}]\n", "save is required"},
		{"save escapes", base + "steps: [{do: save, save: ../x.lba}]\nassertions: [{type: log_contains, text: a}]\n", "plain relative name"},
		{"life without object", base + "steps: [{do: life}]\nassertions: [{type: log_contains, text: a}]\n", "object is required"},
		{"zero frames", base + "steps: [{do: frames}]\nassertions: [{type: log_contains, text: a}]\n", "count must be positive"},
		{"zero advance", base + "steps: [{do: advance}]\nassertions: [{type: log_contains, text: a}]\n", "ms must be positive"},
		{"bad loop", base + "steps: [{do: tasks, loop: pause}]\nassertions: [{type: log_contains, text: a}]\n", `unknown loop "pause"`},
		{"bad assertion", base + "steps: [{do: run}]\nassertions: [{type: vibes}]\n", "unknown assertion type"},
		{"empty contains", base + "steps: [{do: run}]\nassertions: [{type: trace_contains}]\n", "kind or name is required"},
		{"empty order", base + "steps: [{do: run}]\nassertions: [{type: trace_order}]\n", "names list is required"},
		{"negative count", base + "steps: [{do: run}]\nassertions: [{type: trace_count, kind: life, count: -1}]\n", "count must be non-negative"},
		{"bad target", base + "steps: [{do: run}]\nassertions: [{type: final_state, target: mana, expect: 1}]\n", "unknown final_state target"},
		{"bad field", base + "steps: [{do: run}]\nassertions: [{type: final_state, target: object, field: mood, expect: 1}]\n", "unknown object field"},
		{"no expect", base + "steps: [{do: run}]\nassertions: [{type: final_state, target: gold}]\n", "expect is required"},
		{"empty log", base + "steps: [{do: run}]\nassertions: [{type: log_contains}]\n", "text is required"},
		{"empty op", base + "steps: [{do: run}]\nassertions: [{type: host_calls}]\n", "op is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
