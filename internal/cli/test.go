package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/ida/internal/harness"
	"github.com/roach88/ida/internal/manifest"
	"github.com/roach88/ida/internal/store"
	"github.com/roach88/ida/internal/trace"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update   bool   // regenerate golden files
	Filter   string // scenario filter (glob pattern)
	Database string // optional - record every scenario as a session

	// SessionGenerator names recorded sessions. If nil, defaults to UUIDv7Generator.
	SessionGenerator trace.SessionGenerator
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name    string   `json:"name"`
	Pass    bool     `json:"pass"`
	Session string   `json:"session,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	return newTestCommand(&TestOptions{RootOptions: rootOpts})
}

func newTestCommand(opts *TestOptions) *cobra.Command {

	cmd := &cobra.Command{
		Use:   "test <scenarios>",
		Short: "Run scenario files against their mods",
		Long: `Run scenario files against their mods.

Each scenario drives the bridge lifecycle over the in-memory host and
checks trace, log and final state assertions. When a golden/ directory
sits next to the scenarios, traces are compared against its golden files.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  ida test ./scenarios
  ida test ./scenarios --filter "storm-*"
  ida test ./scenarios --update
  ida test ./scenarios --db ./ida.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record each scenario into this SQLite database")

	return cmd
}

func runTests(opts *TestOptions, scenarios string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	info, err := os.Stat(scenarios)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios not found: %s", scenarios))
	}
	goldenDir := filepath.Join(scenarios, "golden")
	if !info.IsDir() {
		goldenDir = filepath.Join(filepath.Dir(scenarios), "golden")
	}

	suiteOpts := harness.SuiteOptions{
		GoldenDir: goldenDir,
		Update:    opts.Update,
		Filter:    opts.Filter,
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
		suiteOpts.Prepare = recordScenario(cmd, st, opts.SessionGenerator)
	}

	paths, err := harness.DiscoverScenarios(scenarios)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}
	if len(paths) == 0 {
		if formatter.JSON() {
			return outputTestJSON(formatter, TestResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	suite, err := harness.RunSuite(cmd.Context(), scenarios, suiteOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenarios", err)
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(suite.Outcomes)),
		Total:     len(suite.Outcomes),
	}
	for _, o := range suite.Outcomes {
		sr := scenarioResult(o)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		if !formatter.JSON() {
			printScenario(formatter, sr, opts.Update)
		}
	}

	if formatter.JSON() {
		return outputTestJSON(formatter, result)
	}
	return outputTestText(formatter, result)
}

// recordScenario gives each scenario a fresh session in st.
func recordScenario(cmd *cobra.Command, st *store.Store, gen trace.SessionGenerator) func(*harness.Scenario) ([]harness.Option, error) {
	if gen == nil {
		gen = trace.UUIDv7Generator{}
	}
	return func(s *harness.Scenario) ([]harness.Option, error) {
		ctx := cmd.Context()
		m, err := manifest.Load(s.ModDir())
		if err != nil {
			return nil, err
		}
		cfg := m.Config
		if s.TestMode != nil {
			cfg.TestMode = *s.TestMode
		}
		session := gen.Generate()
		if err := st.CreateSession(ctx, store.Session{
			ID:      session,
			ModName: m.Name,
			ModDir:  m.Config.ModDir,
			Config:  cfg.Fields(),
			Source:  store.SourceTest,
		}); err != nil {
			return nil, err
		}
		return []harness.Option{
			harness.WithSession(session),
			harness.WithRecorder(st.Recorder(ctx, session)),
		}, nil
	}
}

func scenarioResult(o harness.ScenarioOutcome) ScenarioResult {
	name := o.Name
	if name == "" {
		name = filepath.Base(o.Path)
	}
	sr := ScenarioResult{Name: name, Pass: o.Passed()}
	if o.Result != nil {
		sr.Session = o.Result.Session
		sr.Errors = append(sr.Errors, o.Result.Errors...)
	}
	if o.Err != nil {
		sr.Errors = append(sr.Errors, o.Err.Error())
	}
	return sr
}

func printScenario(formatter *OutputFormatter, sr ScenarioResult, update bool) {
	w := formatter.Writer
	if !sr.Pass {
		fmt.Fprintf(w, "✗ %s\n", sr.Name)
		for _, e := range sr.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return
	}
	if update {
		fmt.Fprintf(w, "✓ %s (golden updated)\n", sr.Name)
		return
	}
	fmt.Fprintf(w, "✓ %s\n", sr.Name)
	formatter.VerboseLog("  session %s", sr.Session)
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(formatter *OutputFormatter, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}
	if err := formatter.Encode(response); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test summary as text.
func outputTestText(formatter *OutputFormatter, result TestResult) error {
	w := formatter.Writer
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
