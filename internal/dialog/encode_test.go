package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_ASCII(t *testing.T) {
	out, bad := NewEncoder().Encode("Hello, Twinsen!", 1)
	assert.Empty(t, bad)
	assert.Equal(t, append([]byte{1}, "Hello, Twinsen!"...), out)
}

func TestEncode_LineBreakGainsSpace(t *testing.T) {
	out, bad := NewEncoder().Encode("a\nb", 2)
	assert.Empty(t, bad)
	assert.Equal(t, []byte{2, 'a', ' ', LineBreak, 'b'}, out)
}

func TestEncode_RestrictedASCII(t *testing.T) {
	out, bad := NewEncoder().Encode("1+1=2", 1)
	assert.Equal(t, []byte{1, '1', '.', '1', '.', '2'}, out)
	require.Len(t, bad, 2)
	assert.Equal(t, Unsupported{Char: '+', Index: 1}, bad[0])
	assert.Equal(t, Unsupported{Char: '=', Index: 3}, bad[1])
}

func TestEncode_ExtendedCharacters(t *testing.T) {
	tests := []struct {
		in   string
		want byte
	}{
		{"Ç", 128},
		{"é", 130},
		{"Ä", 142},
		{"É", 144},
		{"£", 156},
		{"ñ", 164},
		{"¿", 168},
		{"¡", 173},
		{"ã", 176},
		{"Œ", 181},
		{"À", 182},
		{"©", 189},
		{"™", 191},
		{"ß", 225},
		{"º", 248},
		{"Á", 'A'},
		{"Ê", 'E'},
		{"Ï", 'I'},
		{"Ô", 'O'},
		{"Ù", 'U'},
		{"←", ArrowLeft},
		{"✓", CheckMark},
	}
	e := NewEncoder()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, bad := e.Encode(tt.in, 0)
			assert.Empty(t, bad)
			assert.Equal(t, []byte{0, tt.want}, out)
		})
	}
}

func TestEncode_CodePageGapsFallBack(t *testing.T) {
	// å and ø exist in code page 850 but not in the font.
	out, bad := NewEncoder().Encode("åø", 1)
	assert.Equal(t, []byte{1, '.', '.'}, out)
	assert.Len(t, bad, 2)
}

func TestEncode_NormalizesDecomposedInput(t *testing.T) {
	out, bad := NewEncoder().Encode("e\u0301", 1)
	assert.Empty(t, bad)
	assert.Equal(t, []byte{1, 130}, out)
}

func TestEncode_CustomTable(t *testing.T) {
	e := WithTable(map[rune]byte{'é': 200})
	out, bad := e.Encode("é\n", 1)
	assert.Equal(t, []byte{1, 200, ' ', '.'}, out)
	require.Len(t, bad, 1)
	assert.Equal(t, '\n', bad[0].Char)
}

func TestDescribe(t *testing.T) {
	assert.Empty(t, Describe(nil))
	got := Describe([]Unsupported{{Char: '+', Index: 1}, {Char: 'å', Index: 4}})
	assert.Equal(t, "Text contained characters that are not supported by the LBA2 font and were replaced by a dot: + at index 1; å at index 4; ", got)
}
