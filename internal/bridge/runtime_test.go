package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/ida/internal/handle"
	"github.com/roach88/ida/internal/phase"
)

type scriptFunc func(args ...any) (Result, error)

type firedEvent struct {
	Object string
	Event  string
	Args   []any
	Phase  phase.Phase
}

// fakeRuntime stands in for the script engine. Methods are keyed by
// "object.method"; handlers live in an arena like the real runtime's.
type fakeRuntime struct {
	guard    *phase.Guard
	arena    handle.Arena[scriptFunc]
	methods  map[string]scriptFunc
	onFire   func(ev firedEvent) error
	entryErr error

	entries  []string
	calls    []string
	events   []firedEvent
	tasks    int
	released []handle.Ref
	closed   bool
}

func newFakeRuntime(g *phase.Guard) *fakeRuntime {
	return &fakeRuntime{guard: g, methods: make(map[string]scriptFunc)}
}

func (f *fakeRuntime) handler(fn scriptFunc) handle.Ref { return f.arena.Put(fn) }

func (f *fakeRuntime) RunEntry(_ context.Context, path string) error {
	f.entries = append(f.entries, path)
	return f.entryErr
}

func (f *fakeRuntime) Call(ref handle.Ref, args ...any) (Result, error) {
	fn, ok := f.arena.Get(ref)
	if !ok {
		return Result{}, errors.New("handler released")
	}
	return fn(args...)
}

func (f *fakeRuntime) CallMethod(object, method string, args ...any) (Result, error) {
	key := object + "." + method
	f.calls = append(f.calls, key)
	fn, ok := f.methods[key]
	if !ok {
		return Result{}, nil
	}
	return fn(args...)
}

func (f *fakeRuntime) FireEvent(object, event string, args ...any) error {
	ev := firedEvent{Object: object, Event: event, Args: args, Phase: f.guard.Current()}
	f.events = append(f.events, ev)
	if f.onFire != nil {
		return f.onFire(ev)
	}
	return nil
}

func (f *fakeRuntime) ProcessTasks() error {
	f.tasks++
	return nil
}

func (f *fakeRuntime) Release(refs ...handle.Ref) {
	for _, r := range refs {
		if r.IsNil() {
			continue
		}
		f.released = append(f.released, r)
		f.arena.Release(r)
	}
}

func (f *fakeRuntime) Close() error {
	f.closed = true
	return nil
}

func (f *fakeRuntime) eventNames() []string {
	out := make([]string, len(f.events))
	for i, ev := range f.events {
		out[i] = fmt.Sprintf("%s.%s@%s", ev.Object, ev.Event, ev.Phase)
	}
	return out
}
