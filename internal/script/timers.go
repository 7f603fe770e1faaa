package script

import (
	"errors"
	"slices"
	"time"

	"github.com/dop251/goja"
)

type timer struct {
	id       int64
	fn       goja.Callable
	args     []goja.Value
	due      time.Time
	interval time.Duration
	repeat   bool
}

// timers is the macrotask queue behind setTimeout and setInterval.
type timers struct {
	now    func() time.Time
	nextID int64
	queue  map[int64]*timer
}

func newTimers(now func() time.Time) *timers {
	return &timers{now: now, queue: make(map[int64]*timer)}
}

func (t *timers) add(fn goja.Callable, delay time.Duration, repeat bool, args []goja.Value) int64 {
	if delay < 0 {
		delay = 0
	}
	t.nextID++
	t.queue[t.nextID] = &timer{
		id:       t.nextID,
		fn:       fn,
		args:     args,
		due:      t.now().Add(delay),
		interval: delay,
		repeat:   repeat,
	}
	return t.nextID
}

func (t *timers) clear(id int64) {
	delete(t.queue, id)
}

func (t *timers) len() int { return len(t.queue) }

// run fires every timer due now, earliest first. Timers scheduled while
// running wait for the next call. A failing callback does not stop the
// others; the errors are joined.
func (t *timers) run() error {
	now := t.now()
	var due []*timer
	for _, tm := range t.queue {
		if !tm.due.After(now) {
			due = append(due, tm)
		}
	}
	slices.SortFunc(due, func(a, b *timer) int {
		if c := a.due.Compare(b.due); c != 0 {
			return c
		}
		return int(a.id - b.id)
	})

	var errs []error
	for _, tm := range due {
		if _, live := t.queue[tm.id]; !live {
			continue
		}
		if tm.repeat {
			tm.due = now.Add(max(tm.interval, time.Millisecond))
		} else {
			delete(t.queue, tm.id)
		}
		if _, err := tm.fn(goja.Undefined(), tm.args...); err != nil {
			errs = append(errs, exception(err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runtime) installTimers() {
	schedule := func(repeat bool) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			a := args{r: r, call: call}
			fn, ok := a.callable(0)
			if !ok {
				r.throw(errTimerCallback)
			}
			var delay int64
			if a.has(1) {
				delay = a.int(1, "delay")
			}
			var extra []goja.Value
			if a.len() > 2 {
				extra = append(extra, call.Arguments[2:]...)
			}
			id := r.timers.add(fn, time.Duration(delay)*time.Millisecond, repeat, extra)
			return r.vm.ToValue(id)
		}
	}
	cancel := func(call goja.FunctionCall) goja.Value {
		if n, err := toInt(call.Argument(0), "id"); err == nil {
			r.timers.clear(n)
		}
		return goja.Undefined()
	}

	_ = r.vm.Set("setTimeout", schedule(false))
	_ = r.vm.Set("setInterval", schedule(true))
	_ = r.vm.Set("clearTimeout", cancel)
	_ = r.vm.Set("clearInterval", cancel)
}
