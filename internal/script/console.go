package script

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dop251/goja"
)

// Limits of console value formatting.
const (
	maxFormatDepth = 3
	maxArrayItems  = 100
	maxObjectProps = 50
)

// installConsole maps console.* onto the logger. Arguments are formatted
// and joined with spaces into the record message.
func (r *Runtime) installConsole() {
	console := r.vm.NewObject()
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"log":   slog.LevelInfo,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, level := range levels {
		_ = console.Set(name, func(call goja.FunctionCall) goja.Value {
			r.logger.Log(context.Background(), level, r.formatArgs(call.Arguments), "source", "script")
			return goja.Undefined()
		})
	}
	_ = r.vm.Set("console", console)
}

func (r *Runtime) formatArgs(vals []goja.Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = r.format(v, 0)
	}
	return strings.Join(parts, " ")
}

// format renders v the way a developer console would, nesting at most
// maxFormatDepth levels.
func (r *Runtime) format(v goja.Value, depth int) string {
	if v == nil || goja.IsUndefined(v) {
		return "undefined"
	}
	if goja.IsNull(v) {
		return "null"
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		if s, isStr := v.Export().(string); isStr && depth > 0 {
			return "'" + s + "'"
		}
		return v.String()
	}

	if _, isFn := goja.AssertFunction(obj); isFn {
		if name := obj.Get("name"); name != nil && name.String() != "" {
			return "[Function: " + name.String() + "]"
		}
		return "[Function]"
	}
	if obj.ClassName() == "Error" {
		return obj.String()
	}
	if r.isUint8Array(obj) {
		items, _ := r.items(obj)
		return fmt.Sprintf("Uint8Array(%d) %s", len(items), r.formatList(items, depth))
	}
	if obj.ClassName() == "Array" {
		if depth >= maxFormatDepth {
			return "[Array]"
		}
		items, _ := r.items(obj)
		return r.formatList(items, depth)
	}

	if depth >= maxFormatDepth {
		return "[Object]"
	}
	keys := obj.Keys()
	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i == maxObjectProps {
			fmt.Fprintf(&b, ", ... %d more properties", len(keys)-maxObjectProps)
			break
		}
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(" " + k + ": " + r.format(obj.Get(k), depth+1))
	}
	if len(keys) > 0 {
		b.WriteString(" ")
	}
	b.WriteString("}")
	return b.String()
}

func (r *Runtime) formatList(items []goja.Value, depth int) string {
	var b strings.Builder
	b.WriteString("[")
	for i, item := range items {
		if i == maxArrayItems {
			b.WriteString(", ... " + strconv.Itoa(len(items)-maxArrayItems) + " more items")
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.format(item, depth+1))
	}
	b.WriteString("]")
	return b.String()
}
