package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/ida/internal/harness"
	"github.com/roach88/ida/internal/manifest"
	"github.com/roach88/ida/internal/store"
	"github.com/roach88/ida/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Fixture  string
	Scene    int
	Frames   int
	TestMode bool

	// SessionGenerator allows overriding the session id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	SessionGenerator trace.SessionGenerator
}

// RunSummary is the result of a recorded run.
type RunSummary struct {
	Session string             `json:"session"`
	Mod     string             `json:"mod"`
	Frames  int                `json:"frames"`
	Events  int                `json:"events"`
	Kinds   map[trace.Kind]int `json:"kinds"`
	Errors  []string           `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {

	cmd := &cobra.Command{
		Use:   "run <mod-dir>",
		Short: "Play a mod against the in-memory host and record the trace",
		Long: `Play a mod against the in-memory host and record its trace.

The mod's entry script runs, the scene is loaded as a new game and the
host frame loop runs for the requested number of frames. Every hook and
every instruction handed to the host is recorded as one session in the
SQLite database (created if it doesn't exist).

Example:
  ida run --db ./ida.db ./mods/storm
  ida run --db ./ida.db --fixture hero.yaml --frames 100 ./mods/storm`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMod(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Fixture, "fixture", "", "host fixture YAML (default: built-in fixture)")
	cmd.Flags().IntVar(&opts.Scene, "scene", 0, "scene to load as a new game")
	cmd.Flags().IntVar(&opts.Frames, "frames", 20, "number of frames to simulate")
	cmd.Flags().BoolVar(&opts.TestMode, "test-mode", false, "enable the test-mode script surface")

	return cmd
}

func runMod(opts *RunOptions, modDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.Frames < 0 {
		return NewExitError(ExitCommandError, "--frames must not be negative")
	}
	m, err := manifest.Load(modDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load mod", err)
	}
	scenario, err := runScenario(m, opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to prepare run", err)
	}

	logger.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	gen := opts.SessionGenerator
	if gen == nil {
		gen = trace.UUIDv7Generator{}
	}
	session := gen.Generate()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := m.Config
	cfg.TestMode = cfg.TestMode || opts.TestMode
	if err := st.CreateSession(ctx, store.Session{
		ID:      session,
		ModName: m.Name,
		ModDir:  m.Config.ModDir,
		Config:  cfg.Fields(),
		Source:  store.SourceRun,
	}); err != nil {
		return WrapExitError(ExitCommandError, "failed to create session", err)
	}

	logger.Info("running mod", "mod", m.Name, "session", session, "frames", opts.Frames)
	result, err := harness.Run(ctx, scenario,
		harness.WithSession(session),
		harness.WithRecorder(st.Recorder(ctx, session)),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run mod", err)
	}
	if opts.Verbose {
		fmt.Fprint(formatter.GetErrWriter(), result.Logs)
	}

	kinds, err := st.CountEvents(ctx, session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count events", err)
	}
	summary := RunSummary{
		Session: session,
		Mod:     m.Name,
		Frames:  opts.Frames,
		Events:  len(result.Trace),
		Kinds:   kinds,
		Errors:  result.Errors,
	}

	if err := outputRunSummary(formatter, summary); err != nil {
		return err
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		logger.Info("run interrupted", "session", session)
	}
	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("run failed: %s", result.Errors[0]))
	}
	return nil
}

// runScenario describes a plain run as a scenario: entry, new game, frames.
func runScenario(m *manifest.Manifest, opts *RunOptions) (*harness.Scenario, error) {
	s := &harness.Scenario{
		Name: m.Name,
		Mod:  m.Config.ModDir,
		Steps: []harness.Step{
			{Do: harness.StepRun},
			{Do: harness.StepLoadScene, Scene: opts.Scene},
		},
	}
	if opts.Frames > 0 {
		s.Steps = append(s.Steps, harness.Step{Do: harness.StepFrames, Count: opts.Frames})
	}
	if opts.TestMode {
		s.TestMode = &opts.TestMode
	}
	if opts.Fixture != "" {
		abs, err := filepath.Abs(opts.Fixture)
		if err != nil {
			return nil, err
		}
		s.Fixture = abs
	}
	return s, nil
}

func outputRunSummary(formatter *OutputFormatter, summary RunSummary) error {
	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: summary, Session: summary.Session}
		if len(summary.Errors) > 0 {
			resp.Status = "error"
			resp.Error = &CLIError{Code: "E_RUN_FAILED", Message: summary.Errors[0]}
		}
		return formatter.Encode(resp)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Session: %s\n", summary.Session)
	fmt.Fprintf(w, "Mod: %s, %d frame(s), %d event(s)\n", summary.Mod, summary.Frames, summary.Events)
	for _, e := range summary.Errors {
		fmt.Fprintf(w, "  ✗ %s\n", e)
	}
	return nil
}
