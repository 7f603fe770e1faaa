package bytecode

import (
	"math"

	"github.com/roach88/ida/internal/scripterr"
)

// ValueKind tags a script argument.
type ValueKind uint8

const (
	// Missing marks an argument the script did not pass.
	Missing ValueKind = iota
	// Number is any numeric script value.
	Number
	// Text is a string script value.
	Text
	// Other is any other script value.
	Other
)

// Value is one decoded script argument.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

// Num builds a numeric argument.
func Num(v float64) Value { return Value{Kind: Number, Num: v} }

// Int builds an integral numeric argument.
func Int(v int64) Value { return Value{Kind: Number, Num: float64(v)} }

// Str builds a string argument.
func Str(s string) Value { return Value{Kind: Text, Str: s} }

// Limits carries session-dependent argument bounds.
type Limits struct {
	// MaxImageID is the highest accepted image id (the first mod image id).
	MaxImageID int64
}

// Arg is one validated, encodable argument.
type Arg struct {
	Kind ArgKind
	Int  int64
	Str  string
}

// Width returns the encoded size of the argument in bytes.
func (a Arg) Width() int {
	if a.Kind == String {
		return len(a.Str) + 1
	}
	return a.Kind.Width()
}

// Assemble validates args against the shape of opcode in table and returns
// the instruction. Extra trailing arguments are ignored.
//
// INVARIANTS:
//   - On error no Instruction is produced; callers write nothing.
//   - Argument positions in errors are 1-based.
func Assemble(t *Table, opcode byte, args []Value, limits Limits) (Instruction, error) {
	entry, ok := t.Lookup(opcode)
	if !ok {
		return Instruction{}, scripterr.Unsupported(t.Unsupported, opcode)
	}

	specs := entry.Shape.Args
	out := make([]Arg, 0, len(specs)+1)
	next := 0

	for i, spec := range specs {
		if spec.Implicit {
			out = append(out, Arg{Kind: spec.Kind, Int: spec.Min})
			continue
		}
		a, err := convert(entry.Name, next, argAt(args, next), spec, limits)
		if err != nil {
			return Instruction{}, err
		}
		next++
		out = append(out, a)

		if c := entry.Shape.When; c != nil && c.On == i && containsInt(c.Values, a.Int) {
			extra, err := convert(entry.Name, next, argAt(args, next), c.Extra, limits)
			if err != nil {
				return Instruction{}, err
			}
			next++
			out = append(out, extra)
		}
	}

	return Instruction{table: t, Opcode: opcode, Args: out}, nil
}

func argAt(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Value{Kind: Missing}
}

func convert(op string, pos int, v Value, spec ArgSpec, limits Limits) (Arg, error) {
	switch v.Kind {
	case Missing:
		return Arg{}, scripterr.Argument("%s: missing argument %d (expected %s)", op, pos+1, spec.Kind)
	case Text:
		if spec.Kind != String {
			return Arg{}, scripterr.Type("%s: argument %d must be a number", op, pos+1)
		}
		if spec.NonEmpty && v.Str == "" {
			return Arg{}, scripterr.Argument("%s: argument %d must be a non-empty string", op, pos+1)
		}
		return Arg{Kind: String, Str: v.Str}, nil
	case Number:
		if spec.Kind == String {
			return Arg{}, scripterr.Type("%s: argument %d must be a string", op, pos+1)
		}
	default:
		if spec.Kind == String {
			return Arg{}, scripterr.Type("%s: argument %d must be a string", op, pos+1)
		}
		return Arg{}, scripterr.Type("%s: argument %d must be a number", op, pos+1)
	}

	if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) || v.Num != math.Trunc(v.Num) {
		return Arg{}, scripterr.Type("%s: argument %d must be an integer, got %v", op, pos+1, v.Num)
	}

	hi := spec.Max
	if spec.MaxFrom == ImageLimit {
		hi = limits.MaxImageID
		if hi > spec.Max {
			hi = spec.Max
		}
	}
	if v.Num < float64(spec.Min) || v.Num > float64(hi) {
		return Arg{}, scripterr.Range("%s: argument %d must be in range %d..%d, got %v", op, pos+1, spec.Min, hi, v.Num)
	}
	return Arg{Kind: spec.Kind, Int: int64(v.Num)}, nil
}

func containsInt(vs []int64, v int64) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}
