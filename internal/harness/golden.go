package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ida/internal/trace"
)

// GoldenSuffix is the extension of golden trace files.
const GoldenSuffix = ".golden"

// ErrGoldenMismatch is returned by CompareGolden when the trace differs.
var ErrGoldenMismatch = errors.New("trace does not match golden file")

// Snapshot returns the canonical JSON of a scenario trace, the content of its
// golden file.
func Snapshot(name string, events []trace.Event) ([]byte, error) {
	list := make([]any, len(events))
	for i, ev := range events {
		list[i] = ev.Fields()
	}
	return trace.MarshalCanonical(map[string]any{
		"scenario_name": name,
		"trace":         list,
	})
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the given result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result.Trace)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(GoldenSuffix),
	)
	g.Assert(t, scenarioName, data)
	return nil
}

// GoldenPath returns where the golden file of name lives under dir.
func GoldenPath(dir, name string) string {
	return filepath.Join(dir, name+GoldenSuffix)
}

// CompareGolden checks a result against its golden file in dir. A missing
// golden file is reported as an os.ErrNotExist error.
func CompareGolden(dir, name string, result *Result) error {
	data, err := Snapshot(name, result.Trace)
	if err != nil {
		return err
	}
	want, err := os.ReadFile(GoldenPath(dir, name))
	if err != nil {
		return err
	}
	if !bytes.Equal(bytes.TrimSpace(want), data) {
		return fmt.Errorf("%w: %s", ErrGoldenMismatch, GoldenPath(dir, name))
	}
	return nil
}

// WriteGolden writes the golden file of a result into dir.
func WriteGolden(dir, name string, result *Result) error {
	data, err := Snapshot(name, result.Trace)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(GoldenPath(dir, name), data, 0o644)
}
