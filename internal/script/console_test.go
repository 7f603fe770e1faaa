package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	e := newEnv(t, nil)
	require.NoError(t, e.rt.reset(e.dir))

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"string", `"plain"`, "plain"},
		{"number", `1.5`, "1.5"},
		{"undefined", `undefined`, "undefined"},
		{"null", `null`, "null"},
		{"object", `({a: 1, b: [1, "x"]})`, "{ a: 1, b: [1, 'x'] }"},
		{"empty object", `({})`, "{}"},
		{"function", `(function named() {})`, "[Function: named]"},
		{"bytes", `new Uint8Array([1, 2])`, "Uint8Array(2) [1, 2]"},
		{"depth", `({a: {b: {c: {d: 1}}}})`, "{ a: { b: { c: [Object] } } }"},
		{"error", `new TypeError("bad")`, "TypeError: bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := e.rt.vm.RunString(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.rt.format(v, 0))
		})
	}
}

func TestFormat_LongArray(t *testing.T) {
	e := newEnv(t, nil)
	require.NoError(t, e.rt.reset(e.dir))

	v, err := e.rt.vm.RunString(`Array.from({length: 105}, (_, i) => i)`)
	require.NoError(t, err)
	assert.Contains(t, e.rt.format(v, 0), ", ... 5 more items]")
}
