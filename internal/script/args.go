package script

import (
	"fmt"
	"math"

	"github.com/dop251/goja"

	"github.com/roach88/ida/internal/bytecode"
	"github.com/roach88/ida/internal/scripterr"
)

// args decodes the arguments of one native call. Decoding failures throw
// into the script.
type args struct {
	r    *Runtime
	call goja.FunctionCall
}

func (a args) len() int { return len(a.call.Arguments) }

// need throws unless at least n arguments were passed.
func (a args) need(n int) {
	if a.len() < n {
		a.r.throw(scripterr.Argument("Expected at least %d arguments, got %d", n, a.len()))
	}
}

// has reports whether argument i was passed and is not undefined.
func (a args) has(i int) bool {
	return i < a.len() && !goja.IsUndefined(a.call.Arguments[i])
}

func (a args) at(i int) goja.Value {
	return a.call.Argument(i)
}

func (a args) int(i int, name string) int64 {
	a.need(i + 1)
	n, err := toInt(a.at(i), name)
	if err != nil {
		a.r.throw(err)
	}
	return n
}

// optInt returns argument i as a one-element slice, or nil when absent.
func (a args) optInt(i int, name string) []int64 {
	if !a.has(i) {
		return nil
	}
	return []int64{a.int(i, name)}
}

func (a args) bool(i int, name string) bool {
	a.need(i + 1)
	b, ok := a.at(i).Export().(bool)
	if !ok {
		a.r.throw(scripterr.Type("%s must be a boolean", name))
	}
	return b
}

func (a args) string(i int, name string) string {
	a.need(i + 1)
	s, ok := a.at(i).Export().(string)
	if !ok {
		a.r.throw(scripterr.Type("%s must be a string", name))
	}
	return s
}

// ints decodes an array of integers.
func (a args) ints(i int, name string) []int64 {
	a.need(i + 1)
	items, ok := a.r.items(a.at(i))
	if !ok {
		a.r.throw(scripterr.Type("%s must be an array", name))
	}
	out := make([]int64, len(items))
	for j, v := range items {
		n, err := toInt(v, fmt.Sprintf("%s[%d]", name, j))
		if err != nil {
			a.r.throw(err)
		}
		out[j] = n
	}
	return out
}

// bytes decodes an array or Uint8Array of bytes. undefined and null decode
// to nil.
func (a args) bytes(i int, name string) []byte {
	v := a.at(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if b, ok := v.Export().([]byte); ok {
		return append([]byte(nil), b...)
	}
	ints := a.ints(i, name)
	out := make([]byte, len(ints))
	for j, n := range ints {
		if err := scripterr.CheckUint8(fmt.Sprintf("%s[%d]", name, j), n); err != nil {
			a.r.throw(err)
		}
		out[j] = byte(n)
	}
	return out
}

// callable returns argument i when it is a function.
func (a args) callable(i int) (goja.Callable, bool) {
	if i >= a.len() {
		return nil, false
	}
	return goja.AssertFunction(a.at(i))
}

// code decodes the instruction arguments from index from on.
func (a args) code(from int) []bytecode.Value {
	if a.len() <= from {
		return nil
	}
	out := make([]bytecode.Value, 0, a.len()-from)
	for _, v := range a.call.Arguments[from:] {
		out = append(out, instructionArg(v))
	}
	return out
}

func instructionArg(v goja.Value) bytecode.Value {
	if goja.IsUndefined(v) {
		return bytecode.Value{Kind: bytecode.Missing}
	}
	switch x := v.Export().(type) {
	case int64:
		return bytecode.Int(x)
	case float64:
		return bytecode.Num(x)
	case string:
		return bytecode.Str(x)
	default:
		return bytecode.Value{Kind: bytecode.Other}
	}
}

func toInt(v goja.Value, name string) (int64, error) {
	switch x := v.Export().(type) {
	case int64:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return 0, scripterr.Type("%s must be an integer", name)
		}
		if x < math.MinInt64 || x >= math.MaxInt64 {
			return 0, scripterr.Range("%s is out of range", name)
		}
		return int64(x), nil
	default:
		return 0, scripterr.Type("%s must be a number", name)
	}
}
