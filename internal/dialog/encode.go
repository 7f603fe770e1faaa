// Package dialog encodes mod text into the byte layout of the game font.
//
// An encoded dialog is one flags byte followed by one byte per character.
// Printable ASCII maps to itself except the glyphs the font lacks. The
// extended range follows code page 850 where the font has the glyph, and a
// small override table covers the rest. Anything else becomes a dot.
//
// INVARIANTS:
//   - Output length is 1 + the number of runes after line break expansion.
//   - Encoding never fails; unsupported runes are reported, not rejected.
package dialog

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Fallback replaces characters the font cannot draw.
const Fallback = '.'

// Font control bytes.
const (
	LineBreak byte = 1
	ArrowLeft byte = 8
	CheckMark byte = 13
)

// restricted are printable ASCII characters missing from the font.
var restricted = map[rune]bool{
	'*': true, '+': true, '<': true, '=': true, '>': true,
	'[': true, '\\': true, ']': true, '^': true, '`': true,
	'{': true, '|': true, '}': true, '~': true, 0x7f: true,
}

// cp850 lists the code page 850 bytes present in the font.
var cp850 = func() map[byte]bool {
	m := make(map[byte]bool)
	for _, r := range [][2]byte{{128, 133}, {135, 142}, {144, 154}, {156, 156}, {160, 165}, {168, 168}, {173, 173}} {
		for b := int(r[0]); b <= int(r[1]); b++ {
			m[byte(b)] = true
		}
	}
	return m
}()

// overrides map runes the font draws at non code page positions, or folds
// into a plain letter when the accented capital is missing.
var overrides = map[rune]byte{
	'\n': LineBreak,
	'←':  ArrowLeft,
	'✓':  CheckMark,

	'Á': 'A', 'Â': 'A',
	'Ê': 'E', 'Ë': 'E', 'È': 'E',
	'Í': 'I', 'Î': 'I', 'Ï': 'I', 'Ì': 'I',
	'Ó': 'O', 'Ô': 'O', 'Ò': 'O',
	'Ú': 'U', 'Û': 'U', 'Ù': 'U',

	'ã': 176, 'õ': 177, 'œ': 180, 'Œ': 181,
	'À': 182, 'Ã': 183, 'Õ': 184,
	'©': 189, '™': 191,
	'ß': 225, 'º': 248,
}

// Unsupported is a character replaced by Fallback.
type Unsupported struct {
	Char  rune
	Index int
}

// Encoder maps runes to font bytes.
type Encoder struct {
	custom map[rune]byte
}

// NewEncoder returns the standard font encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// WithTable returns an encoder that uses table for every non-ASCII rune
// instead of the standard mapping.
func WithTable(table map[rune]byte) *Encoder {
	c := make(map[rune]byte, len(table))
	for r, b := range table {
		c[r] = b
	}
	return &Encoder{custom: c}
}

// Lookup returns the font byte for r.
func (e *Encoder) Lookup(r rune) (byte, bool) {
	if r >= 32 && r <= 126 {
		if restricted[r] {
			return Fallback, false
		}
		return byte(r), true
	}
	if e.custom != nil {
		b, ok := e.custom[r]
		return b, ok
	}
	if b, ok := overrides[r]; ok {
		return b, true
	}
	if r < 0x80 {
		return Fallback, false
	}
	b, ok := charmap.CodePage850.EncodeRune(r)
	if !ok || !cp850[b] {
		return Fallback, false
	}
	return b, true
}

// Encode produces the dialog bytes for text. Line breaks gain a leading
// space so the game treats them as word starts.
func (e *Encoder) Encode(text string, flags byte) ([]byte, []Unsupported) {
	text = strings.ReplaceAll(norm.NFC.String(text), "\n", " \n")

	out := make([]byte, 1, len(text)+1)
	out[0] = flags
	var bad []Unsupported
	i := 0
	for _, r := range text {
		b, ok := e.Lookup(r)
		if !ok {
			b = Fallback
			bad = append(bad, Unsupported{Char: r, Index: i})
		}
		out = append(out, b)
		i++
	}
	return out, bad
}

// Describe formats unsupported characters for a warning, or returns "" when
// there are none.
func Describe(bad []Unsupported) string {
	if len(bad) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Text contained characters that are not supported by the LBA2 font and were replaced by a dot: ")
	for _, u := range bad {
		fmt.Fprintf(&sb, "%c at index %d; ", u.Char, u.Index)
	}
	return sb.String()
}
