package script

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/roach88/ida/internal/scripterr"
)

// Exception is a script exception that escaped into Go.
type Exception struct {
	// Message is the thrown value as the script would print it, for
	// example "RangeError: armor must be in range 0..255".
	Message string

	// Stack is the script stack at the throw site.
	Stack string
}

func (e *Exception) Error() string {
	return e.Message
}

// IsException reports whether err came from a script throw.
func IsException(err error) bool {
	var ex *Exception
	return errors.As(err, &ex)
}

var errTimerCallback = scripterr.Type("Callback must be a function")

// constructors maps error kinds onto the script error classes. Kinds not
// listed throw a plain Error.
var constructors = map[scripterr.Kind]string{
	scripterr.KindType:      "TypeError",
	scripterr.KindRange:     "RangeError",
	scripterr.KindCapacity:  "RangeError",
	scripterr.KindReference: "ReferenceError",
}

// throw raises err inside the script. It must only be called from a native
// function running under the VM.
func (r *Runtime) throw(err error) {
	panic(r.errorValue(err))
}

func (r *Runtime) errorValue(err error) goja.Value {
	name := "Error"
	kind := scripterr.KindOf(err)
	if c, ok := constructors[kind]; ok {
		name = c
	}
	obj, cerr := r.vm.New(r.vm.Get(name), r.vm.ToValue(err.Error()))
	if cerr != nil {
		return r.vm.NewGoError(err)
	}
	if kind != "" {
		_ = obj.Set("code", string(kind))
	}
	return obj
}

// exception converts an error returned by goja into a Go error. Interrupts
// pass through unchanged.
func exception(err error) error {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return err
	}
	msg := ex.Error()
	if v := ex.Value(); v != nil {
		msg = v.String()
	}
	return &Exception{Message: msg, Stack: ex.String()}
}
