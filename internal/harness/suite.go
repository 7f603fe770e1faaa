package harness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiscoverScenarios returns every .yaml or .yml file under dir, sorted.
// A path to a single file is returned as is.
func DiscoverScenarios(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// golden files and fixtures live beside scenarios
			if path != dir && (d.Name() == "golden" || d.Name() == "fixtures") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// ScenarioOutcome is the result of one scenario in a suite.
type ScenarioOutcome struct {
	Path   string
	Name   string
	Result *Result
	Err    error
}

// Passed reports whether the scenario loaded, ran and passed.
func (o ScenarioOutcome) Passed() bool {
	return o.Err == nil && o.Result != nil && o.Result.Pass
}

// SuiteResult collects the outcomes of a suite run.
type SuiteResult struct {
	Outcomes []ScenarioOutcome
}

// Failed returns the outcomes that did not pass.
func (s *SuiteResult) Failed() []ScenarioOutcome {
	var out []ScenarioOutcome
	for _, o := range s.Outcomes {
		if !o.Passed() {
			out = append(out, o)
		}
	}
	return out
}

// Pass reports whether every scenario passed.
func (s *SuiteResult) Pass() bool {
	return len(s.Failed()) == 0
}

// SuiteOptions configures RunSuite.
type SuiteOptions struct {
	// GoldenDir enables golden comparison when non-empty.
	GoldenDir string

	// Update rewrites golden files instead of comparing them.
	Update bool

	// Filter is a glob matched against scenario file names without their
	// extension. Empty runs everything.
	Filter string

	// Prepare returns extra run options for one scenario, for example a
	// store recorder under a fresh session.
	Prepare func(s *Scenario) ([]Option, error)
}

// RunSuite loads and runs every scenario under dir.
func RunSuite(ctx context.Context, dir string, opts SuiteOptions) (*SuiteResult, error) {
	paths, err := DiscoverScenarios(dir)
	if err != nil {
		return nil, err
	}
	if opts.Filter != "" {
		if paths, err = filterScenarios(paths, opts.Filter); err != nil {
			return nil, err
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", dir)
	}

	suite := &SuiteResult{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return suite, err
		}
		suite.Outcomes = append(suite.Outcomes, runOne(ctx, path, opts))
	}
	return suite, nil
}

func runOne(ctx context.Context, path string, opts SuiteOptions) ScenarioOutcome {
	out := ScenarioOutcome{Path: path}
	s, err := LoadScenario(path)
	if err != nil {
		out.Err = err
		return out
	}
	out.Name = s.Name

	var runOpts []Option
	if opts.Prepare != nil {
		if runOpts, err = opts.Prepare(s); err != nil {
			out.Err = err
			return out
		}
	}
	result, err := Run(ctx, s, runOpts...)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result = result

	if opts.GoldenDir == "" {
		return out
	}
	if opts.Update {
		out.Err = WriteGolden(opts.GoldenDir, s.Name, result)
		return out
	}
	// without a golden file only the assertions count
	err = CompareGolden(opts.GoldenDir, s.Name, result)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		result.AddError(err.Error())
	}
	return out
}

func filterScenarios(paths []string, pattern string) ([]string, error) {
	var out []string
	for _, p := range paths {
		base := filepath.Base(p)
		matched, err := filepath.Match(pattern, strings.TrimSuffix(base, filepath.Ext(base)))
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if matched {
			out = append(out, p)
		}
	}
	return out, nil
}
