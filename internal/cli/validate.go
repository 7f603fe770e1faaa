package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ida/internal/bridge"
	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/manifest"
	"github.com/roach88/ida/internal/script"
)

// ErrCodeEntryFailed reports an entry script that threw while loading.
const ErrCodeEntryFailed = "E203"

// entryTimeout bounds the dry run of an entry script.
const entryTimeout = 5 * time.Second

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	SkipRun bool
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Name   string            `json:"name,omitempty"`
	Config map[string]any    `json:"config,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError is one problem found in a mod.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <mod-dir>",
		Short: "Validate a mod manifest and entry script",
		Long: `Validate a mod without playing it.

Checks mod.cue against the manifest schema, then runs the entry script once
in a fresh runtime over the default host fixture. The entry must load
without throwing.

Examples:
  ida validate ./mods/storm
  ida validate ./mods/storm --skip-run --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.SkipRun, "skip-run", false, "only check the manifest")

	return cmd
}

func runValidate(opts *ValidateOptions, modDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	m, err := manifest.Load(modDir)
	if err != nil {
		var loadErr *manifest.LoadError
		if !errors.As(err, &loadErr) {
			return outputValidateError(formatter, manifest.ErrCodeGeneric, err.Error())
		}
		if loadErr.Code == manifest.ErrCodeNotFound {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidationErrors(formatter, []ValidationError{{
			Code:    loadErr.Code,
			Message: loadErr.Message,
			Line:    lineOf(loadErr),
		}})
	}
	formatter.VerboseLog("Loaded manifest %s from %s", m.Name, m.Path)

	if !opts.SkipRun {
		formatter.VerboseLog("Running entry %s", m.EntryPath())
		if err := dryRun(cmd.Context(), m, formatter.GetErrWriter(), opts.Verbose); err != nil {
			return outputValidationErrors(formatter, []ValidationError{{
				Code:    ErrCodeEntryFailed,
				Message: err.Error(),
			}})
		}
	}

	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Name: m.Name, Config: m.Config.Fields()})
	}
	fmt.Fprintf(formatter.Writer, "✓ Mod %s is valid\n", m.Name)
	return nil
}

// dryRun runs the entry script of m once against the default fixture.
func dryRun(ctx context.Context, m *manifest.Manifest, logs io.Writer, verbose bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, entryTimeout)
	defer cancel()

	if !verbose {
		logs = io.Discard
	}
	b, err := bridge.New(host.NewMemory(host.DefaultFixture()),
		bridge.WithConfig(m.Config),
		bridge.WithLogger(newLogger(&RootOptions{Verbose: verbose}, logs)),
	)
	if err != nil {
		return err
	}
	defer b.Close()

	script.New(b)
	return b.Run(ctx)
}

func lineOf(err *manifest.LoadError) int {
	if err.Pos.IsValid() {
		return err.Pos.Line()
	}
	return 0
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs the problems found in a mod.
func outputValidationErrors(formatter *OutputFormatter, errs []ValidationError) error {
	if formatter.JSON() {
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
