package store

import (
	"context"
	"fmt"

	"github.com/roach88/ida/internal/trace"
)

// Session sources.
const (
	SourceRun  = "run"
	SourceTest = "test"
)

// Session is one recorded run of a mod.
type Session struct {
	ID      string
	ModName string
	ModDir  string
	Config  map[string]any
	Source  string
}

// CreateSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) CreateSession(ctx context.Context, sess Session) error {
	cfg := sess.Config
	if cfg == nil {
		cfg = map[string]any{}
	}
	cfgJSON, err := marshalConfig(cfg)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	source := sess.Source
	if source == "" {
		source = SourceRun
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, mod_name, mod_dir, config, source)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sess.ID, sess.ModName, sess.ModDir, cfgJSON, source)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// WriteEvent appends ev to session. The event's content address is computed
// here and stored alongside it. Writing the same seq twice is an error.
func (s *Store) WriteEvent(ctx context.Context, session string, ev trace.Event) error {
	id, err := ev.ID(session)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	attrs, err := marshalAttrs(ev.Attrs)
	if err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	var object any
	if ev.Object >= 0 {
		object = ev.Object
	}
	var code any
	if len(ev.Code) > 0 {
		code = append([]byte(nil), ev.Code...)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, session_id, seq, kind, name, phase, object, code, attrs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, session, ev.Seq, string(ev.Kind), ev.Name, ev.Phase, object, code, attrs)
	if err != nil {
		return fmt.Errorf("write event %d: %w", ev.Seq, err)
	}
	return nil
}

// Recorder streams bridge events of one session into the store.
type Recorder struct {
	store   *Store
	ctx     context.Context
	session string
}

// Recorder returns a trace.Recorder writing into session. The session must
// already exist.
func (s *Store) Recorder(ctx context.Context, session string) *Recorder {
	return &Recorder{store: s, ctx: ctx, session: session}
}

// Record implements trace.Recorder.
func (r *Recorder) Record(ev trace.Event) error {
	return r.store.WriteEvent(r.ctx, r.session, ev)
}

// Session returns the id events are written under.
func (r *Recorder) Session() string { return r.session }

var _ trace.Recorder = (*Recorder)(nil)
