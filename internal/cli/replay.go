package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ida/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
	Against  string // optional - compare Session against this session
}

// ReplaySessionResult holds the verification result for a single session.
type ReplaySessionResult struct {
	Session    string  `json:"session"`
	Events     int     `json:"events"`
	LastSeq    int64   `json:"last_seq"`
	Mismatched []int64 `json:"mismatched,omitempty"`
	Gaps       []int64 `json:"gaps,omitempty"`
	Verified   bool    `json:"verified"`
}

// ReplayComparison reports whether two sessions recorded the same trace.
type ReplayComparison struct {
	Left       string `json:"left"`
	Right      string `json:"right"`
	Equivalent bool   `json:"equivalent"`
	Seq        int64  `json:"seq,omitempty"`
	LeftEvent  string `json:"left_event,omitempty"`
	RightEvent string `json:"right_event,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions    []ReplaySessionResult `json:"sessions"`
	Total       int                   `json:"total"`
	AllVerified bool                  `json:"all_verified"`
	Comparison  *ReplayComparison     `json:"comparison,omitempty"`
}

// OK reports whether every check passed.
func (r ReplayResult) OK() bool {
	return r.AllVerified && (r.Comparison == nil || r.Comparison.Equivalent)
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Verify recorded sessions and compare runs",
		Long: `Verify recorded sessions and compare runs for determinism.

Every event is re-read in seq order and its content address recomputed
from the stored columns; edited rows and missing seq values are reported.
With --against, the two sessions are compared event by event, which is
how two runs of the same mod on the same fixture are checked for
determinism.

Exit codes:
  0 - All sessions verified (and equivalent, with --against)
  1 - Verification failed or the sessions diverge
  2 - Command error (database not found, etc.)

Examples:
  ida replay --db ./ida.db
  ida replay --db ./ida.db --session 0192f0c4-...
  ida replay --db ./ida.db --session 0192f0c4-... --against 0192f0c5-...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "verify specific session only")
	cmd.Flags().StringVar(&opts.Against, "against", "", "compare --session against this session")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Against != "" && opts.Session == "" {
		return NewExitError(ExitCommandError, "--against requires --session")
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var sessions []string
	switch {
	case opts.Against != "":
		sessions = []string{opts.Session, opts.Against}
	case opts.Session != "":
		sessions = []string{opts.Session}
	default:
		all, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		for _, s := range all {
			sessions = append(sessions, s.ID)
		}
	}

	if len(sessions) == 0 {
		result := ReplayResult{Sessions: []ReplaySessionResult{}, AllVerified: true}
		if formatter.JSON() {
			return outputReplayJSON(formatter, result)
		}
		fmt.Fprintln(formatter.Writer, "No sessions found in database.")
		return nil
	}

	result := ReplayResult{
		Sessions:    make([]ReplaySessionResult, 0, len(sessions)),
		Total:       len(sessions),
		AllVerified: true,
	}
	for _, id := range sessions {
		sr, err := verifySession(ctx, st, id)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to verify session %s", id), err)
		}
		result.Sessions = append(result.Sessions, sr)
		if !sr.Verified {
			result.AllVerified = false
		}
	}

	if opts.Against != "" {
		d, err := st.Compare(ctx, opts.Session, opts.Against)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to compare sessions", err)
		}
		result.Comparison = &ReplayComparison{
			Left:       opts.Session,
			Right:      opts.Against,
			Equivalent: d.Equivalent(),
			Seq:        d.Seq,
			LeftEvent:  d.Left,
			RightEvent: d.Right,
		}
	}

	if formatter.JSON() {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(formatter, result)
}

func verifySession(ctx context.Context, st *store.Store, id string) (ReplaySessionResult, error) {
	v, err := st.Verify(ctx, id)
	if err != nil {
		return ReplaySessionResult{}, err
	}
	return ReplaySessionResult{
		Session:    id,
		Events:     v.Events,
		LastSeq:    v.LastSeq,
		Mismatched: v.Mismatched,
		Gaps:       v.Gaps,
		Verified:   v.OK(),
	}, nil
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(formatter *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.OK() {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DETERMINISM",
			Message: replayFailure(result),
		}
	}
	if err := formatter.Encode(response); err != nil {
		return err
	}
	if !result.OK() {
		return NewExitError(ExitFailure, replayFailure(result))
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(formatter *OutputFormatter, result ReplayResult) error {
	w := formatter.Writer
	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.Total)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Verified {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Session: %s\n", status, s.Session)
		fmt.Fprintf(w, "  Events: %d, last seq %d\n", s.Events, s.LastSeq)
		if len(s.Mismatched) > 0 {
			fmt.Fprintf(w, "  Tampered events at seq %v\n", s.Mismatched)
		}
		if len(s.Gaps) > 0 {
			fmt.Fprintf(w, "  Missing seq %v\n", s.Gaps)
		}
		fmt.Fprintln(w)
	}

	if c := result.Comparison; c != nil {
		if c.Equivalent {
			fmt.Fprintf(w, "✓ %s and %s recorded the same trace\n", c.Left, c.Right)
		} else {
			fmt.Fprintf(w, "✗ Sessions diverge at seq %d\n", c.Seq)
			fmt.Fprintf(w, "  %s: %s\n", c.Left, orEnd(c.LeftEvent))
			fmt.Fprintf(w, "  %s: %s\n", c.Right, orEnd(c.RightEvent))
		}
	}

	if result.OK() {
		fmt.Fprintln(w, "✓ All sessions verified")
		return nil
	}
	fmt.Fprintln(w, "✗ Replay verification failed")
	return NewExitError(ExitFailure, replayFailure(result))
}

func replayFailure(result ReplayResult) string {
	if !result.AllVerified {
		return "session verification failed"
	}
	return "sessions diverge"
}

func orEnd(event string) string {
	if event == "" {
		return "(end of session)"
	}
	return event
}
