package store

import (
	"bytes"
	"context"
	"fmt"
)

// Verification is the result of re-deriving every event id of a session.
type Verification struct {
	Session string
	Events  int
	LastSeq int64

	// Mismatched lists the seq of every event whose stored id differs from
	// the recomputed one.
	Mismatched []int64

	// Gaps lists the seq values missing from an otherwise contiguous run
	// starting at the first recorded seq.
	Gaps []int64
}

// OK reports whether the session verified cleanly.
func (v Verification) OK() bool {
	return len(v.Mismatched) == 0 && len(v.Gaps) == 0
}

// Verify re-reads session in seq order and recomputes each event's content
// address from the stored columns.
func (s *Store) Verify(ctx context.Context, session string) (Verification, error) {
	v := Verification{Session: session}
	if _, err := s.ReadSession(ctx, session); err != nil {
		return v, fmt.Errorf("verify %s: %w", session, err)
	}
	events, err := s.ReadEvents(ctx, session)
	if err != nil {
		return v, fmt.Errorf("verify %s: %w", session, err)
	}

	v.Events = len(events)
	for i, ev := range events {
		id, err := ev.Event.ID(session)
		if err != nil {
			return v, fmt.Errorf("verify %s: event %d: %w", session, ev.Seq, err)
		}
		if id != ev.ID {
			v.Mismatched = append(v.Mismatched, ev.Seq)
		}
		if i > 0 {
			for missing := events[i-1].Seq + 1; missing < ev.Seq; missing++ {
				v.Gaps = append(v.Gaps, missing)
			}
		}
		v.LastSeq = ev.Seq
	}
	return v, nil
}

// Divergence describes the first difference between two sessions.
type Divergence struct {
	// Seq is the position of the first differing event, 0 when the sessions
	// are equivalent.
	Seq int64

	// Left and Right are the canonical encodings at Seq. One is empty when a
	// session ended early.
	Left  string
	Right string
}

// Equivalent reports whether no difference was found.
func (d Divergence) Equivalent() bool {
	return d.Seq == 0
}

// Compare reports the first event at which sessions a and b differ. Event
// ids include the session, so the comparison uses canonical encodings.
// Two runs of the same mod against the same fixture compare equivalent.
func (s *Store) Compare(ctx context.Context, a, b string) (Divergence, error) {
	left, err := s.ReadEvents(ctx, a)
	if err != nil {
		return Divergence{}, fmt.Errorf("compare: %w", err)
	}
	right, err := s.ReadEvents(ctx, b)
	if err != nil {
		return Divergence{}, fmt.Errorf("compare: %w", err)
	}

	n := max(len(left), len(right))
	for i := 0; i < n; i++ {
		var l, r []byte
		seq := int64(i + 1)
		if i < len(left) {
			if l, err = left[i].Canonical(); err != nil {
				return Divergence{}, fmt.Errorf("compare: %w", err)
			}
			seq = left[i].Seq
		}
		if i < len(right) {
			if r, err = right[i].Canonical(); err != nil {
				return Divergence{}, fmt.Errorf("compare: %w", err)
			}
			if i >= len(left) {
				seq = right[i].Seq
			}
		}
		if !bytes.Equal(l, r) {
			return Divergence{Seq: seq, Left: string(l), Right: string(r)}, nil
		}
	}
	return Divergence{}, nil
}
