package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ida/internal/bytecode"
)

func TestLoadFixture(t *testing.T) {
	f, err := LoadFixture("testdata/scene.yaml")
	require.NoError(t, err)

	assert.Equal(t, 12, f.Scene)
	assert.Equal(t, 2, f.Planet)
	assert.Equal(t, 20, f.MaxObjects)
	assert.Equal(t, MaxZones, f.MaxZones, "unset limits keep defaults")
	require.Len(t, f.Objects, 2)
	assert.True(t, f.Objects[0].HasLifeScript)
	assert.Equal(t, int32(2048), f.Objects[1].Angle)
	assert.Equal(t, map[uint8]int16{0: 120, 1: 121}, f.Bodies[3])
	assert.Equal(t, LifeResult{Value: 300, Type: 1}, f.LifeResults[2])
}

func TestParseFixture_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "scene: 1\nbogus: 2\n", "failed to parse host fixture"},
		{"too many objects", "max_objects: 1\nobjects: [{}, {}]\n", "fixture has 2 objects, maximum is 1"},
		{"too many zones", "max_zones: 0\nzones: [{}]\n", "fixture has 1 zones, maximum is 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadFixture("testdata/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read host fixture")
}

func TestMemory_TablesGrowAndCopy(t *testing.T) {
	f := DefaultFixture()
	f.Zones = []Zone{{Type: 1}}
	m := NewMemory(f)

	require.NoError(t, m.Zones().Grow(2))
	assert.Equal(t, 3, m.Zones().Len())
	assert.Equal(t, int16(1), f.Zones[0].Type)

	z, _ := m.Zones().At(0)
	z.Type = 9
	assert.Equal(t, int16(1), f.Zones[0].Type, "fixture slices are copied")

	err := m.Zones().Grow(MaxZones)
	require.Error(t, err)
	assert.Equal(t, 3, m.Zones().Len())
}

func TestMemory_Variables(t *testing.T) {
	m := NewMemory(DefaultFixture())

	assert.Equal(t, 255, m.MaxSceneVar())
	m.SetSceneVar(4, 9)
	v, ok := m.SceneVar(4)
	require.True(t, ok)
	assert.Equal(t, uint8(9), v)

	_, ok = m.GameVar(256)
	assert.False(t, ok)
	m.SetGameVar(-1, 3) // ignored
}

func TestMemory_LifeFunctionResults(t *testing.T) {
	f := DefaultFixture()
	f.LifeResults = map[uint8]LifeResult{bytecode.FuncDistance: {Value: -1, Type: uint8(bytecode.ReturnInt8)}}
	m := NewMemory(f)

	v, typ := m.ExecuteLifeFunction(0, []byte{bytecode.FuncDistance, 1})
	assert.Equal(t, int32(-1), v)
	assert.Equal(t, bytecode.ReturnInt8, typ)

	v, typ = m.ExecuteLifeFunction(0, []byte{bytecode.FuncChoice})
	assert.Equal(t, int32(0), v)
	assert.Equal(t, bytecode.ReturnInt16, typ)
	assert.Len(t, m.Calls, 2)
}

func TestMemory_MoveLifecycle(t *testing.T) {
	f := DefaultFixture()
	f.MoveFrames = 2
	m := NewMemory(f)

	code := []byte{bytecode.MoveWaitNbSecond, 3, 0, 0, 0, 0, bytecode.MoveEnd}
	m.ExecuteMove(1, code)
	require.True(t, m.MoveActive(1))

	m.ContinueMove(1, code)
	assert.Equal(t, byte(1), code[2], "elapsed frames live in the timer slot")
	assert.True(t, m.MoveActive(1))

	m.ContinueMove(1, code)
	assert.Equal(t, byte(2), code[2])
	assert.False(t, m.MoveActive(1))

	m.ExecuteMove(1, code)
	m.StopMove(1)
	assert.False(t, m.MoveActive(1))
}

func TestMemory_MoveWithoutFrameLimitRunsUntilStopped(t *testing.T) {
	m := NewMemory(DefaultFixture())

	m.ExecuteMove(0, []byte{bytecode.MoveAngle, 0, 2, bytecode.MoveEnd})
	for range 10 {
		m.ContinueMove(0, []byte{bytecode.MoveAngle, 0, 2, bytecode.MoveEnd})
	}
	assert.True(t, m.MoveActive(0))
}

func TestMemory_FacingZoneDirection(t *testing.T) {
	m := NewMemory(DefaultFixture())
	zone := &Zone{Registers: [8]int32{2: int32(DirectionNorth)}}

	tests := []struct {
		angle int32
		dir   ZoneDirection
		want  bool
	}{
		{0, DirectionSouth, true},
		{4095, DirectionSouth, true},
		{1024, DirectionEast, true},
		{2048, DirectionNorth, true},
		{3072, DirectionWest, true},
		{3072, DirectionEast | DirectionWest, true},
		{2048, DirectionNone, true},
		{0, DirectionNone, false},
		{-1024, DirectionWest, true},
	}
	for _, tt := range tests {
		got := m.FacingZoneDirection(&Object{Angle: tt.angle}, zone, tt.dir)
		assert.Equal(t, tt.want, got, "angle %d dir %d", tt.angle, tt.dir)
	}
}

func TestMemory_MenuCallsRecorded(t *testing.T) {
	m := NewMemory(DefaultFixture())

	m.NewGame()
	m.SaveGame("slot")
	m.ExitGame(3)
	m.SetGameInputOnce(0x10)

	assert.Equal(t, []Call{
		{Op: "new_game"},
		{Op: "save_game", Text: "slot"},
		{Op: "exit_game", Value: 3},
		{Op: "game_input", Value: 0x10},
	}, m.Calls)

	m.ResetCalls()
	assert.Empty(t, m.Calls)
}
