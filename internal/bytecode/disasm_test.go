package bytecode

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassemble_RoundTrip(t *testing.T) {
	for _, table := range []*Table{Life, LifeFunction, Move} {
		for _, op := range table.Opcodes() {
			entry, _ := table.Lookup(op)
			in, err := Assemble(table, op, minimalArgs(entry), testLimits)
			require.NoError(t, err)

			out, err := Disassemble(table, in.Bytes())
			require.NoError(t, err, "%s %s", table.Family, entry.Name)
			require.Len(t, out, 1)
			assert.Equal(t, in.Bytes(), out[0].Bytes())
		}
	}
}

func TestDisassemble_ConditionalActor(t *testing.T) {
	out, err := Disassemble(Life, []byte{LifeSetControl, ModeCircle, 7, LifeReturn})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "SET_CONTROL 9, 7", out[0].String())
}

func TestDisassemble_Errors(t *testing.T) {
	_, err := Disassemble(Move, []byte{MoveAnim, 0x2c})
	assert.ErrorContains(t, err, "truncated u16 argument")

	_, err = Disassemble(Move, []byte{MoveBody, 3})
	assert.ErrorContains(t, err, "missing END terminator")

	_, err = Disassemble(Move, []byte{MoveLoop, MoveEnd})
	assert.ErrorContains(t, err, "cannot decode move opcode LOOP")

	_, err = Disassemble(Life, []byte{LifePlayAcf, 'a', 'b'})
	assert.ErrorContains(t, err, "unterminated string")
}

func TestParse(t *testing.T) {
	in, err := Parse(Life, "set_track 7", testLimits)
	require.NoError(t, err)
	assert.Equal(t, []byte{LifeSetTrack, 7, 0, LifeReturn}, in.Bytes())

	in, err = Parse(Move, `PLAY_ACF "the intro"`, testLimits)
	require.NoError(t, err)
	assert.Equal(t, `PLAY_ACF "the intro"`, in.String())

	in, err = Parse(Life, "27 2, 5", testLimits)
	require.NoError(t, err)
	assert.Equal(t, "SET_CONTROL 2, 5", in.String())

	_, err = Parse(Life, "FLY_AWAY", testLimits)
	assert.EqualError(t, err, `unknown life opcode "FLY_AWAY"`)

	_, err = Parse(Move, `PLAY_ACF "open`, testLimits)
	assert.ErrorContains(t, err, "unterminated string")
}

func TestListingGolden(t *testing.T) {
	type line struct {
		table *Table
		op    byte
		args  []Value
	}
	lines := []line{
		{Life, LifeSetTrack, []Value{Int(7)}},
		{Life, LifeSetControl, []Value{Int(ModeFollow), Int(5)}},
		{Life, LifePlayAcf, []Value{Str("intro")}},
		{LifeFunction, FuncDistance, []Value{Int(3)}},
		{Move, MoveWaitNbSecond, []Value{Int(5)}},
		{Move, MoveAngleRnd, []Value{Int(-512), Int(1024)}},
		{Move, MoveAnim, []Value{Int(300)}},
	}

	var buf bytes.Buffer
	for _, l := range lines {
		in, err := Assemble(l.table, l.op, l.args, testLimits)
		require.NoError(t, err)
		fmt.Fprintf(&buf, "%s\t% x\t%s\n", l.table.Family, in.Bytes(), in)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "listing", buf.Bytes())
}
