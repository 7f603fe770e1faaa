// Package script runs mod scripts on an embedded JavaScript engine.
//
// Runtime implements bridge.Runtime on goja. Each Run builds a fresh VM,
// installs the native ida, scene, mark and console globals, evaluates the
// bundled prelude (events, text and image overrides, the state store), then
// loads the mod entry module through a CommonJS require restricted to the mod
// directory.
//
// INVARIANTS:
//   - The VM is only touched from the goroutine driving the bridge.
//   - Native calls check their phase policy before decoding arguments.
//   - Timers fire only from ProcessTasks; promise jobs run before any call
//     into the VM returns.
//   - Handler references die with the VM that created them.
package script

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dop251/goja"

	"github.com/roach88/ida/internal/bridge"
	"github.com/roach88/ida/internal/handle"
)

// Runtime is the goja implementation of bridge.Runtime.
type Runtime struct {
	bridge *bridge.Bridge
	logger *slog.Logger
	now    func() time.Time

	vm       *goja.Runtime
	handlers handle.Arena[goja.Callable]
	timers   *timers
	modules  *modules

	objectProto *goja.Object
	zoneProto   *goja.Object
	indexKey    *goja.Symbol
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger behind console.*. It defaults to the bridge
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithNow sets the clock that schedules timers.
func WithNow(now func() time.Time) Option {
	return func(r *Runtime) {
		r.now = now
	}
}

// New creates a runtime and attaches it to b.
func New(b *bridge.Bridge, opts ...Option) *Runtime {
	r := &Runtime{
		bridge: b,
		logger: b.Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	b.Attach(r)
	return r
}

// RunEntry builds a fresh VM and runs the entry module at path.
func (r *Runtime) RunEntry(ctx context.Context, path string) error {
	root := r.bridge.Config().ModDir
	if root == "" {
		root = filepath.Dir(path)
	}
	if err := r.reset(root); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		r.vm.Interrupt(ctx.Err())
	})
	defer func() {
		stop()
		r.vm.ClearInterrupt()
	}()

	if _, err := r.modules.load(path); err != nil {
		return exception(err)
	}
	return nil
}

// reset drops the previous VM and its handlers and prepares a new one.
func (r *Runtime) reset(root string) error {
	r.handlers.Reset()
	r.vm = goja.New()
	r.timers = newTimers(r.now)
	r.modules = newModules(r, root)
	r.indexKey = goja.NewSymbol("index")

	r.installConsole()
	r.installTimers()
	r.installRequire()
	if err := r.installNatives(); err != nil {
		return fmt.Errorf("failed to install natives: %w", err)
	}
	if err := r.runPrelude(); err != nil {
		return fmt.Errorf("failed to run prelude: %w", exception(err))
	}
	return nil
}

// Call invokes a handler registered by the script.
func (r *Runtime) Call(ref handle.Ref, args ...any) (bridge.Result, error) {
	fn, ok := r.handlers.Get(ref)
	if !ok {
		return bridge.Result{}, fmt.Errorf("handler %d is not registered", ref)
	}
	vals, err := r.goArgs(args)
	if err != nil {
		return bridge.Result{}, err
	}
	v, err := fn(goja.Undefined(), vals...)
	if err != nil {
		return bridge.Result{}, exception(err)
	}
	return r.decode(v), nil
}

// CallMethod invokes object.method with object as the receiver.
func (r *Runtime) CallMethod(object, method string, args ...any) (bridge.Result, error) {
	if r.vm == nil {
		return bridge.Result{}, fmt.Errorf("%s.%s: no script is loaded", object, method)
	}
	obj, ok := r.vm.Get(object).(*goja.Object)
	if !ok {
		return bridge.Result{}, fmt.Errorf("global %s is not an object", object)
	}
	fn, ok := goja.AssertFunction(obj.Get(method))
	if !ok {
		return bridge.Result{}, fmt.Errorf("%s.%s is not a function", object, method)
	}
	vals, err := r.goArgs(args)
	if err != nil {
		return bridge.Result{}, err
	}
	v, err := fn(obj, vals...)
	if err != nil {
		return bridge.Result{}, exception(err)
	}
	return r.decode(v), nil
}

// FireEvent runs the subscribers of event on a global object in
// subscription order.
func (r *Runtime) FireEvent(object, event string, args ...any) error {
	_, err := r.CallMethod(object, "_handleEvent", append([]any{event}, args...)...)
	return err
}

// ProcessTasks runs the timers that are due.
func (r *Runtime) ProcessTasks() error {
	if r.timers == nil {
		return nil
	}
	return r.timers.run()
}

// Release drops handler references.
func (r *Runtime) Release(refs ...handle.Ref) {
	for _, ref := range refs {
		r.handlers.Release(ref)
	}
}

// Handlers returns the number of live handler references.
func (r *Runtime) Handlers() int { return r.handlers.Len() }

// Close drops the VM.
func (r *Runtime) Close() error {
	r.handlers.Reset()
	r.timers = nil
	r.modules = nil
	r.vm = nil
	return nil
}

// register parks fn in the handler arena.
func (r *Runtime) register(fn goja.Callable) handle.Ref {
	return r.handlers.Put(fn)
}
