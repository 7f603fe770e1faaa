package cli

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ida/internal/bytecode"
	"github.com/roach88/ida/internal/store"
	"github.com/roach88/ida/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string   // optional - list sessions when empty
	Kinds    []string // optional - filter to these event kinds
	Object   int      // optional - filter to one object, -1 for all
}

// TraceEvent represents a single event in the trace timeline.
type TraceEvent struct {
	Seq    int64          `json:"seq"`
	Kind   string         `json:"kind"`
	Name   string         `json:"name"`
	Phase  string         `json:"phase"`
	ID     string         `json:"id"`
	Object *int           `json:"object,omitempty"`
	Code   string         `json:"code,omitempty"`
	Decode string         `json:"decode,omitempty"`
	Attrs  map[string]any `json:"attrs,omitempty"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Session  string             `json:"session"`
	ModName  string             `json:"mod_name"`
	Source   string             `json:"source"`
	Timeline []TraceEvent       `json:"timeline"`
	Stats    map[trace.Kind]int `json:"stats"`
}

// SessionSummary is one line of the session listing.
type SessionSummary struct {
	ID      string `json:"id"`
	ModName string `json:"mod_name"`
	Source  string `json:"source"`
	Events  int    `json:"events"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show recorded sessions and their events",
		Long: `Show recorded sessions and their events.

Without --session, lists every session in the database. With --session,
prints the timeline of hooks and host instructions in seq order. Life and
move instructions are decoded back into opcode names and arguments.

Examples:
  ida trace --db ./ida.db
  ida trace --db ./ida.db --session 0192f0c4-...
  ida trace --db ./ida.db --session 0192f0c4-... --kind life --kind move
  ida trace --db ./ida.db --session 0192f0c4-... --object 0 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to show")
	cmd.Flags().StringSliceVar(&opts.Kinds, "kind", nil, "filter to event kind (repeatable)")
	cmd.Flags().IntVar(&opts.Object, "object", -1, "filter to one object")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.Session == "" {
		return listSessions(cmd, st, formatter)
	}

	sess, err := st.ReadSession(ctx, opts.Session)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", opts.Session))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	kinds := make([]trace.Kind, len(opts.Kinds))
	for i, k := range opts.Kinds {
		kinds[i] = trace.Kind(k)
	}
	events, err := st.ReadEvents(ctx, opts.Session, kinds...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}
	stats, err := st.CountEvents(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count events", err)
	}

	result := TraceResult{
		Session:  sess.ID,
		ModName:  sess.ModName,
		Source:   sess.Source,
		Timeline: buildTimeline(events, opts.Object),
		Stats:    stats,
	}
	if formatter.JSON() {
		return formatter.Encode(CLIResponse{Status: "ok", Data: result, Session: sess.ID})
	}
	return outputTraceText(formatter.Writer, result, opts.Verbose)
}

func listSessions(cmd *cobra.Command, st *store.Store, formatter *OutputFormatter) error {
	ctx := cmd.Context()
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		counts, err := st.CountEvents(ctx, s.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to count events", err)
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		summaries = append(summaries, SessionSummary{ID: s.ID, ModName: s.ModName, Source: s.Source, Events: total})
	}

	if formatter.JSON() {
		return formatter.Success(summaries)
	}
	w := formatter.Writer
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No sessions found in database.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "%s  %-4s  %-16s  %d event(s)\n", s.ID, s.Source, s.ModName, s.Events)
	}
	return nil
}

// buildTimeline converts stored events to timeline entries. Instruction
// bytes are decoded with the table of their family.
func buildTimeline(events []store.StoredEvent, object int) []TraceEvent {
	timeline := make([]TraceEvent, 0, len(events))
	for _, ev := range events {
		if object >= 0 && ev.Object != object {
			continue
		}
		te := TraceEvent{
			Seq:   ev.Seq,
			Kind:  string(ev.Kind),
			Name:  ev.Name,
			Phase: ev.Phase,
			ID:    ev.ID,
			Attrs: ev.Attrs,
		}
		if ev.Object >= 0 {
			obj := ev.Object
			te.Object = &obj
		}
		if len(ev.Code) > 0 {
			te.Code = hex.EncodeToString(ev.Code)
			te.Decode = decodeCode(ev.Kind, ev.Code)
		}
		timeline = append(timeline, te)
	}
	return timeline
}

func decodeCode(kind trace.Kind, code []byte) string {
	var table *bytecode.Table
	switch kind {
	case trace.KindLife:
		table = bytecode.Life
	case trace.KindLifeFunction:
		table = bytecode.LifeFunction
	case trace.KindMove, trace.KindMoveContinue:
		table = bytecode.Move
	default:
		return ""
	}
	ins, err := bytecode.Disassemble(table, code)
	if err != nil || len(ins) == 0 {
		return ""
	}
	return ins[0].String()
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult, verbose bool) error {
	fmt.Fprintf(w, "Trace for Session: %s\n", result.Session)
	fmt.Fprintf(w, "Mod: %s (%s)\n", result.ModName, result.Source)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no events)")
	}
	for _, event := range result.Timeline {
		formatTimelineEvent(w, event, verbose)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	kinds := make([]string, 0, len(result.Stats))
	for k := range result.Stats {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "  %-10s %d\n", k+":", result.Stats[trace.Kind(k)])
	}
	return nil
}

// formatTimelineEvent formats a single timeline event for text output.
func formatTimelineEvent(w io.Writer, event TraceEvent, verbose bool) {
	line := fmt.Sprintf("  [%d] %-9s %s", event.Seq, strings.ToUpper(event.Kind), event.Name)
	if event.Object != nil {
		line += fmt.Sprintf(" #%d", *event.Object)
	}
	if event.Decode != "" && event.Decode != event.Name {
		line += "  " + event.Decode
	}
	fmt.Fprintln(w, line)
	if !verbose {
		return
	}
	fmt.Fprintf(w, "       Phase: %s\n", event.Phase)
	if len(event.Attrs) > 0 {
		fmt.Fprintf(w, "       Attrs: %s\n", formatArgs(event.Attrs))
	}
	if event.Code != "" {
		fmt.Fprintf(w, "       Code: %s\n", event.Code)
	}
	fmt.Fprintf(w, "       ID: %s\n", truncateID(event.ID))
}

// formatArgs formats a map of attributes for display.
// Uses sorted keys to ensure deterministic output.
func formatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, formatValue(args[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// formatValue formats a single value for display, handling nested structures deterministically.
func formatValue(v any) string {
	switch val := v.(type) {
	case map[string]any:
		return formatArgs(val)
	case []any:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = formatValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case string:
		return val
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
