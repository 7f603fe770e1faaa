package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Instruction is a validated opcode with its encodable arguments.
type Instruction struct {
	table  *Table
	Opcode byte
	Args   []Arg
}

// Family returns the table the instruction was assembled against.
func (in Instruction) Family() *Table {
	return in.table
}

// Size returns the encoded length, terminator included.
func (in Instruction) Size() int {
	n := 1
	for _, a := range in.Args {
		n += a.Width()
	}
	if in.table != nil && in.table.Terminated {
		n++
	}
	return n
}

// AppendTo appends the encoded instruction to dst and returns the extended
// slice. Multi-byte arguments are little-endian.
func (in Instruction) AppendTo(dst []byte) []byte {
	dst = append(dst, in.Opcode)
	for _, a := range in.Args {
		dst = AppendArg(dst, a)
	}
	if in.table != nil && in.table.Terminated {
		dst = append(dst, in.table.Terminator)
	}
	return dst
}

// Bytes returns a freshly allocated encoding.
func (in Instruction) Bytes() []byte {
	return in.AppendTo(make([]byte, 0, in.Size()))
}

// AppendArg appends the encoding of a single argument.
func AppendArg(dst []byte, a Arg) []byte {
	switch a.Kind {
	case U8:
		return append(dst, byte(a.Int))
	case U16, I16:
		return binary.LittleEndian.AppendUint16(dst, uint16(a.Int))
	case U32:
		return binary.LittleEndian.AppendUint32(dst, uint32(a.Int))
	case String:
		dst = append(dst, a.Str...)
		return append(dst, 0)
	default:
		return dst
	}
}

// String renders the instruction as NAME arg, arg.
func (in Instruction) String() string {
	name := fmt.Sprintf("%d", in.Opcode)
	if in.table != nil {
		name = in.table.Name(in.Opcode)
	}
	if len(in.Args) == 0 {
		return name
	}
	parts := make([]string, len(in.Args))
	for i, a := range in.Args {
		parts[i] = a.String()
	}
	return name + " " + strings.Join(parts, ", ")
}

// String renders the argument value.
func (a Arg) String() string {
	if a.Kind == String {
		return fmt.Sprintf("%q", a.Str)
	}
	return fmt.Sprintf("%d", a.Int)
}
