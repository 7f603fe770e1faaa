package trace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortsKeysAndCompacts(t *testing.T) {
	out, err := MarshalCanonical(map[string]any{
		"b": 1,
		"a": []any{true, "x", int64(-3)},
		"c": map[string]any{"z": "<&>", "y": false},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":[true,"x",-3],"b":1,"c":{"y":false,"z":"<&>"}}`, string(out))
}

func TestMarshalCanonical_NormalizesStrings(t *testing.T) {
	// "e" + combining acute accent composes to U+00E9.
	out, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(out))
}

func TestMarshalCanonical_UTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as surrogates 0xD83D 0xDE00, which sort before U+FF61.
	out, err := MarshalCanonical(map[string]any{"｡": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"｡\":1}", string(out))
}

func TestMarshalCanonical_Rejects(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"f": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = MarshalCanonical([]any{nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array[0]")

	_, err = MarshalCanonical(struct{}{})
	assert.Error(t, err)
}

func TestEvent_Fields(t *testing.T) {
	ev := Event{Seq: 4, Kind: KindMove, Name: "TM_ANGLE", Phase: "MoveScript", Object: 2, Code: []byte{0x07, 0x00, 0x04, 0x00}}
	out, err := ev.Canonical()
	require.NoError(t, err)
	assert.Equal(t, `{"code":"07000400","kind":"move","name":"TM_ANGLE","object":2,"phase":"MoveScript","seq":4}`, string(out))

	hook := Event{Seq: 1, Kind: KindHook, Name: "run", Phase: "None", Object: -1}
	_, ok := hook.Fields()["object"]
	assert.False(t, ok)
}

func TestEvent_IDDependsOnSession(t *testing.T) {
	ev := Event{Seq: 1, Kind: KindHook, Name: "run", Object: -1}
	a, err := ev.ID("s1")
	require.NoError(t, err)
	b, err := ev.ID("s2")
	require.NoError(t, err)
	again, err := ev.ID("s1")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, again)
}

func TestLog_CopiesCode(t *testing.T) {
	var l Log
	code := []byte{1, 2}
	require.NoError(t, l.Record(Event{Kind: KindLife, Code: code}))
	require.NoError(t, l.Record(Event{Kind: KindHook}))
	code[0] = 9

	assert.Equal(t, []byte{1, 2}, l.Events[0].Code)
	assert.Len(t, l.Filter(KindLife), 1)
	l.Reset()
	assert.Empty(t, l.Events)
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	r := NewClockAt(10)
	assert.Equal(t, int64(11), r.Next())
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

type failing struct{}

func (failing) Record(Event) error { return errors.New("disk full") }

func TestMulti(t *testing.T) {
	a, b := &Log{}, &Log{}
	rec := Multi(a, b)
	require.NoError(t, rec.Record(Event{Seq: 1, Kind: KindHook, Name: "run", Object: -1}))
	assert.Len(t, a.Events, 1)
	assert.Len(t, b.Events, 1)

	c := &Log{}
	err := Multi(a, failing{}, c).Record(Event{Seq: 2, Kind: KindHalt, Name: "halt", Object: -1})
	assert.EqualError(t, err, "disk full")
	assert.Len(t, a.Events, 2)
	assert.Empty(t, c.Events)
}
