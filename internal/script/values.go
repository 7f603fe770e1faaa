package script

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/dop251/goja"

	"github.com/roach88/ida/internal/bridge"
	"github.com/roach88/ida/internal/entity"
	"github.com/roach88/ida/internal/host"
)

// toJS converts a Go value produced by a native call into a script value.
func (r *Runtime) toJS(v any) goja.Value {
	switch x := v.(type) {
	case nil:
		return goja.Undefined()
	case goja.Value:
		return x
	case []byte:
		if x == nil {
			return goja.Undefined()
		}
		return r.uint8Array(x)
	case []int32:
		return newArray(r.vm, x)
	case []uint16:
		return newArray(r.vm, x)
	case map[uint8]int16:
		obj := r.vm.NewObject()
		keys := make([]int, 0, len(x))
		for k := range x {
			keys = append(keys, int(k))
		}
		sort.Ints(keys)
		for _, k := range keys {
			_ = obj.Set(strconv.Itoa(k), x[uint8(k)])
		}
		return obj
	case *entity.Object:
		return r.wrap(r.objectProto, x.Index())
	case *entity.Zone:
		return r.wrap(r.zoneProto, x.Index())
	case host.LoopType:
		return r.vm.ToValue(int(x))
	default:
		return r.vm.ToValue(v)
	}
}

func newArray[T int32 | uint16](vm *goja.Runtime, items []T) *goja.Object {
	vals := make([]any, len(items))
	for i, v := range items {
		vals[i] = v
	}
	return vm.NewArray(vals...)
}

func (r *Runtime) uint8Array(b []byte) goja.Value {
	vals := make([]any, len(b))
	for i, v := range b {
		vals[i] = v
	}
	obj, err := r.vm.New(r.vm.Get("Uint8Array"), r.vm.NewArray(vals...))
	if err != nil {
		return goja.Undefined()
	}
	return obj
}

// items returns the elements of an array or typed array.
func (r *Runtime) items(v goja.Value) ([]goja.Value, bool) {
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, false
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	if obj.ClassName() != "Array" && !r.isUint8Array(obj) {
		return nil, false
	}
	n := obj.Get("length").ToInteger()
	out := make([]goja.Value, n)
	for i := range out {
		out[i] = obj.Get(strconv.Itoa(i))
	}
	return out, true
}

func (r *Runtime) isUint8Array(obj *goja.Object) bool {
	ctor, ok := r.vm.Get("Uint8Array").(*goja.Object)
	return ok && r.vm.InstanceOf(obj, ctor)
}

// decode converts a script value into a Result.
func (r *Runtime) decode(v goja.Value) bridge.Result {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return bridge.Result{}
	}
	switch x := v.Export().(type) {
	case bool:
		return bridge.BoolResult(x)
	case int64:
		return bridge.IntResult(x)
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return bridge.IntResult(int64(x))
		}
		return bridge.FloatResult(x)
	case string:
		return bridge.StringResult(x)
	case []byte:
		return bridge.BytesResult(append([]byte(nil), x...))
	}

	obj, ok := v.(*goja.Object)
	if !ok {
		return bridge.Result{}
	}
	if r.isUint8Array(obj) {
		items, _ := r.items(obj)
		out := make([]byte, len(items))
		for i, item := range items {
			out[i] = byte(item.ToInteger())
		}
		return bridge.BytesResult(out)
	}
	if obj.ClassName() == "Array" {
		items, _ := r.items(obj)
		list := make([]bridge.Result, len(items))
		for i, item := range items {
			list[i] = r.decode(item)
		}
		return bridge.ListResult(list...)
	}
	return bridge.Result{}
}

// goArgs converts Go call arguments into script values.
func (r *Runtime) goArgs(in []any) ([]goja.Value, error) {
	out := make([]goja.Value, len(in))
	for i, a := range in {
		switch x := a.(type) {
		case int, int64, int32, string, bool:
			out[i] = r.vm.ToValue(x)
		case []byte:
			out[i] = r.uint8Array(x)
		default:
			return nil, fmt.Errorf("unsupported call argument %T", a)
		}
	}
	return out, nil
}
