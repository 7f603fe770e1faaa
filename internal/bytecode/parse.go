package bytecode

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse assembles a textual instruction such as `SET_TRACK 7` or
// `PLAY_ACF "intro"`. The opcode may be given by name or number; arguments
// are separated by spaces or commas.
func Parse(t *Table, line string, limits Limits) (Instruction, error) {
	fields, err := splitFields(line)
	if err != nil {
		return Instruction{}, err
	}
	if len(fields) == 0 {
		return Instruction{}, fmt.Errorf("empty instruction")
	}

	op, ok := t.Opcode(strings.ToUpper(fields[0].text))
	if !ok {
		n, err := strconv.ParseUint(fields[0].text, 0, 8)
		if err != nil {
			return Instruction{}, fmt.Errorf("unknown %s opcode %q", t.Family, fields[0].text)
		}
		op = byte(n)
	}

	args := make([]Value, 0, len(fields)-1)
	for _, f := range fields[1:] {
		if f.quoted {
			args = append(args, Str(f.text))
			continue
		}
		n, err := strconv.ParseFloat(f.text, 64)
		if err != nil {
			args = append(args, Str(f.text))
			continue
		}
		args = append(args, Num(n))
	}
	return Assemble(t, op, args, limits)
}

type field struct {
	text   string
	quoted bool
}

func splitFields(line string) ([]field, error) {
	var out []field
	rest := strings.TrimSpace(line)
	for rest != "" {
		if rest[0] == '"' {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("unterminated string in %q", line)
			}
			out = append(out, field{text: rest[1 : end+1], quoted: true})
			rest = rest[end+2:]
		} else {
			end := strings.IndexFunc(rest, func(r rune) bool { return unicode.IsSpace(r) || r == ',' })
			if end < 0 {
				end = len(rest)
			}
			out = append(out, field{text: rest[:end]})
			rest = rest[end:]
		}
		rest = strings.TrimLeftFunc(rest, func(r rune) bool { return unicode.IsSpace(r) || r == ',' })
	}
	return out, nil
}
