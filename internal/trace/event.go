// Package trace defines the canonical record of a bridge session.
//
// Every lifecycle hook the host drives and every instruction the bridge hands
// to the host interpreter becomes one Event. Events are stamped with a
// logical sequence number, never wall time, so two runs of the same mod
// against the same host fixture produce byte-identical traces.
//
// INVARIANTS:
//   - Seq is strictly increasing within a session.
//   - Canonical encoding is deterministic: keys in UTF-16 order, strings NFC.
//   - Attrs hold only strings, integers, booleans and nested lists/maps of them.
package trace

import "encoding/hex"

// Kind categorizes trace events.
type Kind string

const (
	// KindHook marks a lifecycle hook entered by the host.
	KindHook Kind = "hook"

	// KindLife marks a life instruction executed for an object.
	KindLife Kind = "life"

	// KindLifeFunction marks a life function evaluated for an object.
	KindLifeFunction Kind = "lifef"

	// KindMove marks a move instruction started for an object.
	KindMove Kind = "move"

	// KindMoveContinue marks a running move instruction resumed for a frame.
	KindMoveContinue Kind = "cmove"

	// KindMoveStop marks a move instruction stopped by the script.
	KindMoveStop Kind = "stop_move"

	// KindMenu marks a test-mode menu action.
	KindMenu Kind = "menu"

	// KindHalt marks the bridge halting script execution.
	KindHalt Kind = "halt"
)

// Event is one trace record.
type Event struct {
	Seq    int64
	Kind   Kind
	Name   string
	Phase  string
	Object int
	Code   []byte
	Attrs  map[string]any
}

// Fields returns the event as a plain map, the shape used for canonical
// encoding and golden files. Object is omitted when negative and Code when
// empty.
func (e Event) Fields() map[string]any {
	m := map[string]any{
		"seq":   e.Seq,
		"kind":  string(e.Kind),
		"name":  e.Name,
		"phase": e.Phase,
	}
	if e.Object >= 0 {
		m["object"] = e.Object
	}
	if len(e.Code) > 0 {
		m["code"] = hex.EncodeToString(e.Code)
	}
	if len(e.Attrs) > 0 {
		m["attrs"] = e.Attrs
	}
	return m
}

// Canonical returns the canonical JSON encoding of the event.
func (e Event) Canonical() ([]byte, error) {
	return MarshalCanonical(e.Fields())
}

// ID returns the content address of the event within session.
func (e Event) ID(session string) (string, error) {
	data, err := e.Canonical()
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainEvent, session, data), nil
}

// Recorder receives trace events. Implementations must not retain Code
// beyond the call; the bridge reuses instruction buffers.
type Recorder interface {
	Record(ev Event) error
}

// Log is an in-memory Recorder.
type Log struct {
	Events []Event
}

// Record appends a copy of ev.
func (l *Log) Record(ev Event) error {
	ev.Code = append([]byte(nil), ev.Code...)
	l.Events = append(l.Events, ev)
	return nil
}

// Filter returns the events of the given kinds, in order.
func (l *Log) Filter(kinds ...Kind) []Event {
	var out []Event
	for _, ev := range l.Events {
		for _, k := range kinds {
			if ev.Kind == k {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

// Reset drops every recorded event.
func (l *Log) Reset() {
	l.Events = nil
}

// Multi returns a Recorder that hands every event to each of rs in order.
// The first error stops the fan-out and is returned.
func Multi(rs ...Recorder) Recorder {
	return multi(rs)
}

type multi []Recorder

func (m multi) Record(ev Event) error {
	for _, r := range m {
		if err := r.Record(ev); err != nil {
			return err
		}
	}
	return nil
}
