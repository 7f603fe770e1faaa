// Package bytecode validates and encodes instructions for the host's life and
// move script interpreters.
//
// Instruction families are described by declarative tables mapping each
// supported opcode to its argument shape. The assembler validates a script's
// argument list against the shape and only then produces an Instruction, so
// a rejected call never touches any buffer.
//
// Encoding: [opcode][arguments little-endian][terminator]. Life operations
// end with LifeReturn, move operations with MoveEnd, and life functions carry
// no terminator.
package bytecode

import "fmt"

// ArgKind is the binary kind of one instruction argument.
type ArgKind uint8

const (
	// U8 is one unsigned byte.
	U8 ArgKind = iota
	// U16 is an unsigned little-endian word.
	U16
	// I16 is a signed little-endian word.
	I16
	// U32 is an unsigned little-endian double word.
	U32
	// String is raw bytes followed by a NUL byte.
	String
)

// String returns the kind name.
func (k ArgKind) String() string {
	switch k {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case I16:
		return "i16"
	case U32:
		return "u32"
	case String:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Width returns the encoded width of fixed-size kinds (0 for String).
func (k ArgKind) Width() int {
	switch k {
	case U8:
		return 1
	case U16, I16:
		return 2
	case U32:
		return 4
	default:
		return 0
	}
}

// Limit names a bound resolved from session configuration at assembly time.
type Limit uint8

const (
	// NoLimit uses the static Max of the ArgSpec.
	NoLimit Limit = iota
	// ImageLimit bounds image ids by the first mod image id.
	ImageLimit
)

// ArgSpec declares one argument.
type ArgSpec struct {
	Kind ArgKind
	Min  int64
	Max  int64

	// MaxFrom overrides Max with a session-dependent bound.
	MaxFrom Limit

	// NonEmpty rejects empty strings.
	NonEmpty bool

	// Implicit arguments are not read from the script; they always encode
	// their Min value. Wait opcodes reserve a zeroed timer this way.
	Implicit bool
}

// Conditional adds a trailing argument when a preceding mode argument takes
// one of the listed values.
type Conditional struct {
	// On is the index of the argument whose value is inspected.
	On int
	// Values triggers the extra argument.
	Values []int64
	// Extra is the additional argument.
	Extra ArgSpec
}

// Shape is the argument layout for one opcode.
type Shape struct {
	Args []ArgSpec
	When *Conditional
}

// Entry pairs an opcode's display name with its shape.
type Entry struct {
	Name  string
	Shape Shape
}

// Table is one instruction family.
type Table struct {
	// Family names the family in messages and traces.
	Family string

	// Unsupported formats the error for an unknown opcode.
	Unsupported string

	// Terminated reports whether encoded instructions end with Terminator.
	Terminated bool
	Terminator byte

	entries map[byte]Entry
	names   map[byte]string
}

// Lookup returns the entry for opcode.
func (t *Table) Lookup(opcode byte) (Entry, bool) {
	e, ok := t.entries[opcode]
	return e, ok
}

// Name returns the display name for opcode, including opcodes the bridge
// does not assemble. Unknown opcodes render as their number.
func (t *Table) Name(opcode byte) string {
	if e, ok := t.entries[opcode]; ok {
		return e.Name
	}
	if n, ok := t.names[opcode]; ok {
		return n
	}
	return fmt.Sprintf("%d", opcode)
}

// Opcode resolves a display name to its opcode.
func (t *Table) Opcode(name string) (byte, bool) {
	for op, e := range t.entries {
		if e.Name == name {
			return op, true
		}
	}
	for op, n := range t.names {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// Opcodes returns every assemblable opcode in ascending order.
func (t *Table) Opcodes() []byte {
	out := make([]byte, 0, len(t.entries))
	for op := 0; op < 256; op++ {
		if _, ok := t.entries[byte(op)]; ok {
			out = append(out, byte(op))
		}
	}
	return out
}

// Argument spec constructors.

func u8() ArgSpec  { return ArgSpec{Kind: U8, Min: 0, Max: 255} }
func u16() ArgSpec { return ArgSpec{Kind: U16, Min: 0, Max: 65535} }
func i16() ArgSpec { return ArgSpec{Kind: I16, Min: -32768, Max: 32767} }
func str() ArgSpec { return ArgSpec{Kind: String, NonEmpty: true} }

func u8Range(lo, hi int64) ArgSpec { return ArgSpec{Kind: U8, Min: lo, Max: hi} }

func imageID() ArgSpec { return ArgSpec{Kind: U8, Min: 0, Max: 255, MaxFrom: ImageLimit} }

func zeroTimer() ArgSpec { return ArgSpec{Kind: U32, Implicit: true} }

func shape(args ...ArgSpec) Shape { return Shape{Args: args} }

// withActor appends the actor id required by follow/circle movement modes.
func withActor(modeIndex int, args ...ArgSpec) Shape {
	return Shape{
		Args: args,
		When: &Conditional{
			On:     modeIndex,
			Values: []int64{ModeFollow, ModeCircle, ModeCircle2},
			Extra:  u8(),
		},
	}
}

func register(entries map[byte]Entry, s Shape, ops map[byte]string) {
	for op, name := range ops {
		entries[op] = Entry{Name: name, Shape: s}
	}
}
