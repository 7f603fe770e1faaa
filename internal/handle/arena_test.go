package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_PutGetRelease(t *testing.T) {
	var a Arena[string]

	r1 := a.Put("life")
	r2 := a.Put("move")
	require.False(t, r1.IsNil())
	assert.NotEqual(t, r1, r2)
	assert.Equal(t, 2, a.Len())

	v, ok := a.Get(r1)
	require.True(t, ok)
	assert.Equal(t, "life", v)

	a.Release(r1)
	_, ok = a.Get(r1)
	assert.False(t, ok)
	assert.Equal(t, 1, a.Len())
}

func TestArena_StaleRefAfterReuse(t *testing.T) {
	var a Arena[int]

	old := a.Put(1)
	a.Release(old)
	fresh := a.Put(2)

	_, ok := a.Get(old)
	assert.False(t, ok, "released reference must not resolve to the reused slot")

	v, ok := a.Get(fresh)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	// Double release is harmless.
	a.Release(old)
	assert.Equal(t, 1, a.Len())
}

func TestArena_NilAndReset(t *testing.T) {
	var a Arena[int]

	_, ok := a.Get(Nil)
	assert.False(t, ok)
	a.Release(Nil)

	refs := []Ref{a.Put(1), a.Put(2), a.Put(3)}
	a.Reset()
	assert.Equal(t, 0, a.Len())
	for _, r := range refs {
		_, ok := a.Get(r)
		assert.False(t, ok)
	}
}
