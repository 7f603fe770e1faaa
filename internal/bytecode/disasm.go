package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Disassemble decodes buf into instructions. Decoding stops after the first
// terminator of a terminated family; a life function buffer holds exactly
// one instruction.
func Disassemble(t *Table, buf []byte) ([]Instruction, error) {
	var out []Instruction
	pos := 0
	for pos < len(buf) {
		if t.Terminated && buf[pos] == t.Terminator {
			return out, nil
		}
		in, n, err := decodeOne(t, buf[pos:])
		if err != nil {
			return out, fmt.Errorf("offset %d: %w", pos, err)
		}
		out = append(out, in)
		pos += n
		if !t.Terminated {
			break
		}
	}
	if t.Terminated {
		return out, fmt.Errorf("offset %d: missing %s terminator", pos, t.Name(t.Terminator))
	}
	return out, nil
}

func decodeOne(t *Table, buf []byte) (Instruction, int, error) {
	op := buf[0]
	entry, ok := t.Lookup(op)
	if !ok {
		return Instruction{}, 0, fmt.Errorf("cannot decode %s opcode %s", t.Family, t.Name(op))
	}

	in := Instruction{table: t, Opcode: op}
	pos := 1
	read := func(spec ArgSpec) error {
		a, n, err := decodeArg(spec.Kind, buf[pos:])
		if err != nil {
			return fmt.Errorf("%s: %w", entry.Name, err)
		}
		in.Args = append(in.Args, a)
		pos += n
		return nil
	}

	for i, spec := range entry.Shape.Args {
		if err := read(spec); err != nil {
			return Instruction{}, 0, err
		}
		if c := entry.Shape.When; c != nil && c.On == i && containsInt(c.Values, in.Args[len(in.Args)-1].Int) {
			if err := read(c.Extra); err != nil {
				return Instruction{}, 0, err
			}
		}
	}
	return in, pos, nil
}

func decodeArg(k ArgKind, buf []byte) (Arg, int, error) {
	if k == String {
		end := bytes.IndexByte(buf, 0)
		if end < 0 {
			return Arg{}, 0, fmt.Errorf("unterminated string")
		}
		return Arg{Kind: String, Str: string(buf[:end])}, end + 1, nil
	}

	w := k.Width()
	if len(buf) < w {
		return Arg{}, 0, fmt.Errorf("truncated %s argument", k)
	}
	switch k {
	case U8:
		return Arg{Kind: k, Int: int64(buf[0])}, 1, nil
	case U16:
		return Arg{Kind: k, Int: int64(binary.LittleEndian.Uint16(buf))}, 2, nil
	case I16:
		return Arg{Kind: k, Int: int64(int16(binary.LittleEndian.Uint16(buf)))}, 2, nil
	default:
		return Arg{Kind: k, Int: int64(binary.LittleEndian.Uint32(buf))}, 4, nil
	}
}
