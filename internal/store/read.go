package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/ida/internal/trace"
)

// StoredEvent is an event read back together with its stored content
// address.
type StoredEvent struct {
	ID string
	trace.Event
}

// ReadSession retrieves a single session by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, mod_name, mod_dir, config, source
		FROM sessions
		WHERE id = ?
	`, id)
	return scanSession(row)
}

// ListSessions returns every session. UUIDv7 ids sort by creation time, so
// the order is oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mod_name, mod_dir, config, source
		FROM sessions
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadEvents returns the events of session ordered by seq. With kinds given,
// only events of those kinds are returned.
//
// Returns an empty slice (not nil) if the session has no matching events.
func (s *Store) ReadEvents(ctx context.Context, session string, kinds ...trace.Kind) ([]StoredEvent, error) {
	query := `
		SELECT id, seq, kind, name, phase, object, code, attrs
		FROM events
		WHERE session_id = ?`
	params := []any{session}
	if len(kinds) > 0 {
		marks := make([]string, len(kinds))
		for i, k := range kinds {
			marks[i] = "?"
			params = append(params, string(k))
		}
		query += " AND kind IN (" + strings.Join(marks, ", ") + ")"
	}
	query += " ORDER BY seq ASC"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []StoredEvent{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// CountEvents returns the number of events per kind in session.
func (s *Store) CountEvents(ctx context.Context, session string) (map[trace.Kind]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM events
		WHERE session_id = ?
		GROUP BY kind
		ORDER BY kind
	`, session)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[trace.Kind]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[trace.Kind(kind)] = n
	}
	return counts, rows.Err()
}

// LastSeq returns the highest seq recorded in session, or 0.
// Used to resume the logical clock with trace.NewClockAt.
func (s *Store) LastSeq(ctx context.Context, session string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM events WHERE session_id = ?
	`, session).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var sess Session
	var cfg string
	if err := row.Scan(&sess.ID, &sess.ModName, &sess.ModDir, &cfg, &sess.Source); err != nil {
		if err == sql.ErrNoRows {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	if err := json.Unmarshal([]byte(cfg), &sess.Config); err != nil {
		return Session{}, fmt.Errorf("scan session config: %w", err)
	}
	return sess, nil
}

func scanEvent(row scanner) (StoredEvent, error) {
	var ev StoredEvent
	var kind, attrs string
	var object sql.NullInt64
	var code []byte
	if err := row.Scan(&ev.ID, &ev.Seq, &kind, &ev.Name, &ev.Phase, &object, &code, &attrs); err != nil {
		return StoredEvent{}, fmt.Errorf("scan event: %w", err)
	}
	ev.Kind = trace.Kind(kind)
	ev.Object = -1
	if object.Valid {
		ev.Object = int(object.Int64)
	}
	ev.Code = code
	m, err := unmarshalAttrs(attrs)
	if err != nil {
		return StoredEvent{}, fmt.Errorf("scan event %d: %w", ev.Seq, err)
	}
	ev.Attrs = m
	return ev, nil
}
