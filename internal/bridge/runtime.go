package bridge

import (
	"context"
	"math"

	"github.com/roach88/ida/internal/handle"
)

// Runtime is the script engine side of the bridge. Implementations decode
// every value crossing back into Go as a Result, so the bridge never sees
// engine types.
//
// Call arguments are Go ints, strings, bools or byte slices.
type Runtime interface {
	// RunEntry loads and runs the mod entry script at path.
	RunEntry(ctx context.Context, path string) error

	// Call invokes a handler registered by the script.
	Call(ref handle.Ref, args ...any) (Result, error)

	// CallMethod invokes object.method on a global script object.
	CallMethod(object, method string, args ...any) (Result, error)

	// FireEvent dispatches event to the subscribers of a global object.
	FireEvent(object, event string, args ...any) error

	// ProcessTasks runs queued macrotasks once.
	ProcessTasks() error

	// Release drops handler references. Releasing an unknown or already
	// released reference is a no-op.
	Release(refs ...handle.Ref)

	Close() error
}

// ResultKind tags a decoded script value.
type ResultKind uint8

const (
	Undefined ResultKind = iota
	Bool
	Int
	Float
	String
	Bytes
	List
)

// Result is a script value decoded at the runtime boundary.
type Result struct {
	Kind  ResultKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Bytes []byte
	List  []Result
}

// BoolResult builds a Bool result.
func BoolResult(v bool) Result { return Result{Kind: Bool, Bool: v} }

// IntResult builds an Int result.
func IntResult(v int64) Result { return Result{Kind: Int, Int: v} }

// FloatResult builds a Float result.
func FloatResult(v float64) Result { return Result{Kind: Float, Float: v} }

// StringResult builds a String result.
func StringResult(s string) Result { return Result{Kind: String, Str: s} }

// BytesResult builds a Bytes result.
func BytesResult(b []byte) Result { return Result{Kind: Bytes, Bytes: b} }

// ListResult builds a List result.
func ListResult(items ...Result) Result { return Result{Kind: List, List: items} }

// IsTrue reports whether r is the boolean true.
func (r Result) IsTrue() bool {
	return r.Kind == Bool && r.Bool
}

// Uint32 returns r as an unsigned 32-bit integer when it is one.
func (r Result) Uint32() (uint32, bool) {
	if r.Kind != Int || r.Int < 0 || r.Int > math.MaxUint32 {
		return 0, false
	}
	return uint32(r.Int), true
}

// Int32 returns r as a signed 32-bit integer when it is one.
func (r Result) Int32() (int32, bool) {
	if r.Kind != Int || r.Int < math.MinInt32 || r.Int > math.MaxInt32 {
		return 0, false
	}
	return int32(r.Int), true
}

// At returns item i of a List, or Undefined.
func (r Result) At(i int) Result {
	if r.Kind != List || i < 0 || i >= len(r.List) {
		return Result{}
	}
	return r.List[i]
}
