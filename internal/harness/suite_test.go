package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverScenarios(t *testing.T) {
	paths, err := DiscoverScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"coroutine_save.yaml", "frames.yaml", "save_load.yaml", "suicide.yaml"}, names, "fixtures are skipped")

	single := filepath.Join("testdata", "scenarios", "suicide.yaml")
	paths, err = DiscoverScenarios(single)
	require.NoError(t, err)
	assert.Equal(t, []string{single}, paths)

	_, err = DiscoverScenarios("testdata/none")
	assert.Error(t, err)
}

func TestRunSuite(t *testing.T) {
	suite, err := RunSuite(context.Background(), filepath.Join("testdata", "scenarios"), SuiteOptions{})
	require.NoError(t, err)
	require.Len(t, suite.Outcomes, 4)
	assert.True(t, suite.Pass(), "failed: %+v", suite.Failed())
}

func TestRunSuite_Golden(t *testing.T) {
	golden := t.TempDir()
	dir := filepath.Join("testdata", "scenarios")

	suite, err := RunSuite(context.Background(), dir, SuiteOptions{GoldenDir: golden})
	require.NoError(t, err)
	assert.True(t, suite.Pass(), "without golden files only assertions count")

	suite, err = RunSuite(context.Background(), dir, SuiteOptions{GoldenDir: golden, Update: true})
	require.NoError(t, err)
	assert.True(t, suite.Pass())
	for _, name := range []string{"coroutine_save", "frames", "save_load", "suicide"} {
		assert.FileExists(t, GoldenPath(golden, name))
	}

	suite, err = RunSuite(context.Background(), dir, SuiteOptions{GoldenDir: golden})
	require.NoError(t, err)
	assert.True(t, suite.Pass(), "failed: %+v", suite.Failed())
}

func TestRunSuite_BadScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: [\n"), 0o644))

	suite, err := RunSuite(context.Background(), dir, SuiteOptions{})
	require.NoError(t, err)
	failed := suite.Failed()
	require.Len(t, failed, 1)
	assert.Error(t, failed[0].Err)

	_, err = RunSuite(context.Background(), t.TempDir(), SuiteOptions{})
	assert.Error(t, err)
}

func TestRunSuite_FilterAndPrepare(t *testing.T) {
	var prepared []string
	suite, err := RunSuite(context.Background(), filepath.Join("testdata", "scenarios"), SuiteOptions{
		Filter: "s*",
		Prepare: func(s *Scenario) ([]Option, error) {
			prepared = append(prepared, s.Name)
			return []Option{WithSession("session-" + s.Name)}, nil
		},
	})
	require.NoError(t, err)
	require.Len(t, suite.Outcomes, 2)
	assert.Equal(t, []string{"save_load", "suicide"}, prepared)
	assert.Equal(t, "session-suicide", suite.Outcomes[1].Result.Session)

	_, err = RunSuite(context.Background(), filepath.Join("testdata", "scenarios"), SuiteOptions{Filter: "["})
	assert.Error(t, err)
}
