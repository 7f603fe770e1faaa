package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/trace"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []trace.Event
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s", ev.Seq, ev.Kind, ev.Name)
			if ev.Object >= 0 {
				fmt.Fprintf(&buf, " object=%d", ev.Object)
			}
			fmt.Fprintf(&buf, " phase=%s\n", ev.Phase)
		}
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion against result and returns the
// failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertFinalState:
			err = assertFinalState(result.Host, a)
		case AssertLogContains:
			err = assertLogContains(result.Logs, a)
		case AssertHostCalls:
			err = assertHostCalls(result.Calls, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func matches(ev trace.Event, a Assertion) bool {
	if a.Kind != "" && string(ev.Kind) != a.Kind {
		return false
	}
	if a.Name != "" && ev.Name != a.Name {
		return false
	}
	if a.Object != nil && ev.Object != *a.Object {
		return false
	}
	return true
}

func describe(a Assertion) string {
	var parts []string
	if a.Kind != "" {
		parts = append(parts, "kind "+a.Kind)
	}
	if a.Name != "" {
		parts = append(parts, "name "+a.Name)
	}
	if a.Object != nil {
		parts = append(parts, fmt.Sprintf("object %d", *a.Object))
	}
	return strings.Join(parts, ", ")
}

// assertTraceContains checks that some event matches kind, name and object.
func assertTraceContains(tr []trace.Event, a Assertion) error {
	for _, ev := range tr {
		if matches(ev, a) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: "event with " + describe(a),
		Actual:   "not found in trace",
		Trace:    tr,
	}
}

// assertTraceOrder checks that events named in a.Names appear in order.
// Events don't need to be consecutive; each name matches its first
// occurrence after the previous match.
func assertTraceOrder(tr []trace.Event, a Assertion) error {
	pos := 0
	for _, name := range a.Names {
		found := false
		for pos < len(tr) {
			ev := tr[pos]
			pos++
			if ev.Name == name {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("events in order: %v", a.Names),
				Actual:   fmt.Sprintf("%s not found after the previous event", name),
				Trace:    tr,
			}
		}
	}
	return nil
}

// assertTraceCount checks the exact number of matching events.
func assertTraceCount(tr []trace.Event, a Assertion) error {
	count := 0
	for _, ev := range tr {
		if matches(ev, a) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d events with %s", a.Count, describe(a)),
			Actual:   fmt.Sprintf("%d events", count),
			Trace:    tr,
		}
	}
	return nil
}

var stateTargets = map[string]struct{}{
	"object":    {},
	"game_var":  {},
	"scene_var": {},
	"gold":      {},
	"zlitos":    {},
}

var objectFields = map[string]func(o *host.Object) int64{
	"life_points":    func(o *host.Object) int64 { return int64(o.LifePoints) },
	"angle":          func(o *host.Object) int64 { return int64(o.Angle) },
	"armor":          func(o *host.Object) int64 { return int64(o.Armor) },
	"hit_power":      func(o *host.Object) int64 { return int64(o.HitPower) },
	"rotation_speed": func(o *host.Object) int64 { return int64(o.RotationSpeed) },
	"talk_color":     func(o *host.Object) int64 { return int64(o.TalkColor) },
	"entity":         func(o *host.Object) int64 { return int64(o.Entity) },
	"body":           func(o *host.Object) int64 { return int64(o.Body) },
	"animation":      func(o *host.Object) int64 { return int64(o.Animation) },
	"static_flags":   func(o *host.Object) int64 { return int64(o.StaticFlags) },
	"bonus_flags":    func(o *host.Object) int64 { return int64(o.BonusFlags) },
	"bonus_quantity": func(o *host.Object) int64 { return int64(o.BonusQuantity) },
	"control_mode":   func(o *host.Object) int64 { return int64(o.ControlMode) },
	"sprite_id":      func(o *host.Object) int64 { return int64(o.SpriteID) },
	"pos_x":          func(o *host.Object) int64 { return int64(o.Pos[0]) },
	"pos_y":          func(o *host.Object) int64 { return int64(o.Pos[1]) },
	"pos_z":          func(o *host.Object) int64 { return int64(o.Pos[2]) },
	"dead": func(o *host.Object) int64 {
		if o.Dead {
			return 1
		}
		return 0
	},
}

// assertFinalState reads one value from the host and compares it.
func assertFinalState(h *host.Memory, a Assertion) error {
	if h == nil {
		return fmt.Errorf("final_state assertion requires a host")
	}
	what := a.Target
	var got int64
	var ok bool
	switch a.Target {
	case "object":
		what = fmt.Sprintf("object %d %s", a.Index, a.Field)
		var o *host.Object
		if o, ok = h.Objects().At(a.Index); ok {
			got = objectFields[a.Field](o)
		}
	case "game_var":
		what = fmt.Sprintf("game var %d", a.Index)
		var v int16
		v, ok = h.GameVar(a.Index)
		got = int64(v)
	case "scene_var":
		what = fmt.Sprintf("scene var %d", a.Index)
		var v uint8
		v, ok = h.SceneVar(a.Index)
		got = int64(v)
	case "gold":
		got, ok = int64(h.Gold()), true
	case "zlitos":
		got, ok = int64(h.Zlitos()), true
	}

	if !ok {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s = %d", what, *a.Expect),
			Actual:   "index out of range",
		}
	}
	if got != *a.Expect {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s = %d", what, *a.Expect),
			Actual:   fmt.Sprintf("%d", got),
		}
	}
	return nil
}

func assertLogContains(logs string, a Assertion) error {
	if strings.Contains(logs, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertLogContains,
		Expected: fmt.Sprintf("log output containing %q", a.Text),
		Actual:   fmt.Sprintf("%d bytes of logs without it", len(logs)),
	}
}

func assertHostCalls(calls []host.Call, a Assertion) error {
	count := 0
	for _, c := range calls {
		if c.Op == a.Op && (a.Object == nil || c.Object == *a.Object) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertHostCalls,
			Expected: fmt.Sprintf("%d host calls of %s", a.Count, a.Op),
			Actual:   fmt.Sprintf("%d", count),
		}
	}
	return nil
}
