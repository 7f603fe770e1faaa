package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ida/internal/scripterr"
)

var testLimits = Limits{MaxImageID: 40}

// minimalArgs builds the smallest valid argument list for an entry.
func minimalArgs(e Entry) []Value {
	var args []Value
	for _, spec := range e.Shape.Args {
		if spec.Implicit {
			continue
		}
		if spec.Kind == String {
			args = append(args, Str("x"))
			continue
		}
		args = append(args, Int(spec.Min))
	}
	return args
}

func expectedSize(t *Table, e Entry) int {
	n := 1
	for _, spec := range e.Shape.Args {
		if spec.Kind == String {
			n += 2 // "x" + NUL
			continue
		}
		n += spec.Kind.Width()
	}
	if t.Terminated {
		n++
	}
	return n
}

func TestAssemble_EveryOpcodeEncodesExactLength(t *testing.T) {
	for _, table := range []*Table{Life, LifeFunction, Move} {
		for _, op := range table.Opcodes() {
			entry, _ := table.Lookup(op)
			in, err := Assemble(table, op, minimalArgs(entry), testLimits)
			require.NoError(t, err, "%s %s", table.Family, entry.Name)

			buf := in.Bytes()
			assert.Len(t, buf, expectedSize(table, entry), "%s %s", table.Family, entry.Name)
			assert.Equal(t, in.Size(), len(buf))
			assert.Equal(t, op, buf[0])
			if table.Terminated {
				assert.Equal(t, table.Terminator, buf[len(buf)-1])
			}
		}
	}
}

// Values at either boundary are accepted, one past is rejected with a range
// error.
func TestAssemble_RangeBoundaries(t *testing.T) {
	for _, table := range []*Table{Life, LifeFunction, Move} {
		for _, op := range table.Opcodes() {
			entry, _ := table.Lookup(op)
			base := minimalArgs(entry)

			pos := 0
			for _, spec := range entry.Shape.Args {
				if spec.Implicit {
					continue
				}
				if spec.Kind == String {
					pos++
					continue
				}
				hi := spec.Max
				if spec.MaxFrom == ImageLimit {
					hi = testLimits.MaxImageID
				}

				for _, v := range []int64{spec.Min, hi} {
					args := append([]Value(nil), base...)
					args[pos] = Int(v)
					_, err := Assemble(table, op, args, testLimits)
					assert.NoError(t, err, "%s %s arg %d = %d", table.Family, entry.Name, pos, v)
				}
				for _, v := range []int64{spec.Min - 1, hi + 1} {
					args := append([]Value(nil), base...)
					args[pos] = Int(v)
					_, err := Assemble(table, op, args, testLimits)
					require.Error(t, err, "%s %s arg %d = %d", table.Family, entry.Name, pos, v)
					assert.True(t, scripterr.IsRange(err), "%s %s: %v", table.Family, entry.Name, err)
				}
				pos++
			}
		}
	}
}

func TestAssemble_SetTrack(t *testing.T) {
	in, err := Assemble(Life, LifeSetTrack, []Value{Int(7)}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, []byte{LifeSetTrack, 0x07, 0x00, LifeReturn}, in.Bytes())
}

func TestAssemble_NegativeI16IsLittleEndian(t *testing.T) {
	in, err := Assemble(Move, MoveAngleRnd, []Value{Int(-512), Int(1024)}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, []byte{MoveAngleRnd, 0x00, 0xfe, 0x00, 0x04, MoveEnd}, in.Bytes())
}

func TestAssemble_WaitReservesTimer(t *testing.T) {
	in, err := Assemble(Move, MoveWaitNbSecond, []Value{Int(5)}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, []byte{MoveWaitNbSecond, 5, 0, 0, 0, 0, MoveEnd}, in.Bytes())
}

func TestAssemble_SetControlActor(t *testing.T) {
	// Plain modes take no actor; extra arguments are ignored.
	in, err := Assemble(Life, LifeSetControl, []Value{Int(1), Int(99)}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, []byte{LifeSetControl, 1, LifeReturn}, in.Bytes())

	for _, mode := range []int64{ModeFollow, ModeCircle, ModeCircle2} {
		in, err := Assemble(Life, LifeSetControl, []Value{Int(mode), Int(4)}, testLimits)
		require.NoError(t, err)
		assert.Equal(t, []byte{LifeSetControl, byte(mode), 4, LifeReturn}, in.Bytes())

		_, err = Assemble(Life, LifeSetControl, []Value{Int(mode)}, testLimits)
		require.Error(t, err)
		assert.True(t, scripterr.IsArgument(err))
	}

	in, err = Assemble(Life, LifeSetControlObj, []Value{Int(3), Int(ModeFollow), Int(0)}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, []byte{LifeSetControlObj, 3, ModeFollow, 0, LifeReturn}, in.Bytes())
}

func TestAssemble_ImageLimit(t *testing.T) {
	_, err := Assemble(Life, LifePcx, []Value{Int(40), Int(1)}, testLimits)
	require.NoError(t, err)

	_, err = Assemble(Life, LifePcx, []Value{Int(41), Int(0)}, testLimits)
	require.Error(t, err)
	assert.Equal(t, "PCX: argument 1 must be in range 0..40, got 41", err.Error())

	_, err = Assemble(Life, LifePcx, []Value{Int(0), Int(2)}, testLimits)
	require.Error(t, err)
	assert.True(t, scripterr.IsRange(err))
}

func TestAssemble_Strings(t *testing.T) {
	in, err := Assemble(Move, MovePlayAcf, []Value{Str("ab")}, testLimits)
	require.NoError(t, err)
	assert.Equal(t, []byte{MovePlayAcf, 'a', 'b', 0, MoveEnd}, in.Bytes())

	_, err = Assemble(Life, LifePlayAcf, []Value{Str("")}, testLimits)
	require.Error(t, err)
	assert.True(t, scripterr.IsArgument(err))

	_, err = Assemble(Life, LifePlayAcf, []Value{Int(3)}, testLimits)
	require.Error(t, err)
	assert.True(t, scripterr.IsType(err))
}

func TestAssemble_RejectsBadNumbers(t *testing.T) {
	cases := map[string]Value{
		"fraction": Num(1.5),
		"string":   Str("7"),
		"other":    {Kind: Other},
	}
	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Assemble(Life, LifeSetTrack, []Value{v}, testLimits)
			require.Error(t, err)
			assert.True(t, scripterr.IsType(err))
		})
	}

	_, err := Assemble(Life, LifeSetTrack, nil, testLimits)
	require.Error(t, err)
	assert.Equal(t, "SET_TRACK: missing argument 1 (expected i16)", err.Error())
}

func TestAssemble_UnsupportedOpcodes(t *testing.T) {
	_, err := Assemble(Life, LifeEnd, nil, testLimits)
	require.Error(t, err)
	assert.True(t, scripterr.IsUnsupported(err))
	assert.Equal(t, "This opcode is not supported for Ida life operations: 0", err.Error())

	_, err = Assemble(LifeFunction, 5, nil, testLimits)
	assert.EqualError(t, err, "Such opcode is not supported for Ida life functions: 5")

	_, err = Assemble(Move, MoveLoop, nil, testLimits)
	assert.EqualError(t, err, "This opcode is not supported for Ida move operations: 6")
}

func TestIsPersistentMove(t *testing.T) {
	persistent := []byte{
		MoveAngle, MoveFaceTwinsen, MoveWaitNbAnim, MoveWaitNbDizieme, MoveWaitNbSecond,
		MoveAngleRnd, MoveWaitNbDiziemeRnd, MoveWaitNbSecondRnd, MoveLoop,
	}
	for _, op := range persistent {
		assert.True(t, IsPersistentMove(op), Move.Name(op))
	}
	for _, op := range []byte{MoveEnd, MoveBody, MoveAnim, MoveGotoPoint, MoveSpeed, MovePlayAcf} {
		assert.False(t, IsPersistentMove(op), Move.Name(op))
	}
}

func TestConvertResult(t *testing.T) {
	assert.Equal(t, int32(-1), ConvertResult(0xff, ReturnInt8))
	assert.Equal(t, int32(127), ConvertResult(0x17f, ReturnInt8))
	assert.Equal(t, int32(-32768), ConvertResult(0x18000, ReturnInt16))
	assert.Equal(t, int32(255), ConvertResult(0x1ff, ReturnUint8))
	assert.Equal(t, int32(0x12345), ConvertResult(0x12345, ReturnString))
}
