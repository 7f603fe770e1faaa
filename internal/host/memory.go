package host

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ida/internal/bytecode"
)

// Call is one recorded interaction with Memory.
type Call struct {
	Op     string `yaml:"op" json:"op"`
	Object int    `yaml:"object,omitempty" json:"object,omitempty"`
	Code   []byte `yaml:"code,omitempty" json:"code,omitempty"`
	Value  int64  `yaml:"value,omitempty" json:"value,omitempty"`
	Text   string `yaml:"text,omitempty" json:"text,omitempty"`
}

// LifeResult is a canned life function answer.
type LifeResult struct {
	Value int32 `yaml:"value"`
	Type  uint8 `yaml:"type"`
}

// Fixture describes the initial state of a Memory host.
type Fixture struct {
	Scene       int `yaml:"scene"`
	Island      int `yaml:"island"`
	Planet      int `yaml:"planet"`
	Gold        int `yaml:"gold"`
	Zlitos      int `yaml:"zlitos"`
	Keys        int `yaml:"keys"`
	MagicLevel  int `yaml:"magic_level"`
	MagicPoints int `yaml:"magic_points"`

	MaxObjects   int `yaml:"max_objects"`
	MaxZones     int `yaml:"max_zones"`
	MaxWaypoints int `yaml:"max_waypoints"`

	// SceneVars and GameVars size the variable arrays.
	SceneVars int `yaml:"scene_vars"`
	GameVars  int `yaml:"game_vars"`

	// Entities is the number of 3D entities.
	Entities int `yaml:"entities"`

	StartPos  [3]int32   `yaml:"start_pos,flow"`
	Objects   []Object   `yaml:"objects"`
	Zones     []Zone     `yaml:"zones"`
	Waypoints []Waypoint `yaml:"waypoints"`

	Bodies      map[int]map[uint8]int16 `yaml:"bodies"`
	Animations  map[int][]uint16        `yaml:"animations"`
	LifeResults map[uint8]LifeResult    `yaml:"life_results"`

	// MoveFrames is how many continuations a move lasts. Zero keeps moves
	// running until stopped.
	MoveFrames int `yaml:"move_frames"`
}

// DefaultFixture is a small scene with a hero and room to grow.
func DefaultFixture() Fixture {
	return Fixture{
		MaxObjects:   100,
		MaxZones:     MaxZones,
		MaxWaypoints: MaxWaypoints,
		SceneVars:    256,
		GameVars:     256,
		Entities:     64,
		Objects:      []Object{{LifePoints: 50}},
	}
}

// LoadFixture reads a YAML fixture. Unset limits keep DefaultFixture values.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to read host fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a YAML fixture, rejecting unknown fields.
func ParseFixture(data []byte) (Fixture, error) {
	f := DefaultFixture()
	f.Objects = nil

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return Fixture{}, fmt.Errorf("failed to parse host fixture: %w", err)
	}
	if len(f.Objects) > f.MaxObjects {
		return Fixture{}, fmt.Errorf("fixture has %d objects, maximum is %d", len(f.Objects), f.MaxObjects)
	}
	if len(f.Zones) > f.MaxZones {
		return Fixture{}, fmt.Errorf("fixture has %d zones, maximum is %d", len(f.Zones), f.MaxZones)
	}
	if len(f.Waypoints) > f.MaxWaypoints {
		return Fixture{}, fmt.Errorf("fixture has %d waypoints, maximum is %d", len(f.Waypoints), f.MaxWaypoints)
	}
	return f, nil
}

// Memory is an in-memory simulation implementing Host.
// Every interpreter, menu and palette call is appended to Calls.
//
// Memory is not safe for concurrent use.
type Memory struct {
	fixture Fixture

	objects   *Slice[Object]
	zones     *Slice[Zone]
	waypoints *Slice[Waypoint]

	startPos  [3]int32
	sceneVars []uint8
	gameVars  []int16

	gold, zlitos int

	moves map[int]int

	// Calls records host interactions in order.
	Calls []Call
}

// NewMemory creates a host from a fixture. The fixture slices are copied.
func NewMemory(f Fixture) *Memory {
	m := &Memory{
		fixture:   f,
		startPos:  f.StartPos,
		sceneVars: make([]uint8, f.SceneVars),
		gameVars:  make([]int16, f.GameVars),
		gold:      f.Gold,
		zlitos:    f.Zlitos,
		moves:     make(map[int]int),
	}
	m.objects = NewSlice(append([]Object(nil), f.Objects...), f.MaxObjects, nil)
	m.zones = NewSlice(append([]Zone(nil), f.Zones...), f.MaxZones, nil)
	m.waypoints = NewSlice(append([]Waypoint(nil), f.Waypoints...), f.MaxWaypoints, nil)
	return m
}

func (m *Memory) record(c Call) { m.Calls = append(m.Calls, c) }

// ResetCalls clears the call log.
func (m *Memory) ResetCalls() { m.Calls = nil }

// Objects returns the object table.
func (m *Memory) Objects() Table[Object] { return m.objects }

// Zones returns the zone table.
func (m *Memory) Zones() Table[Zone] { return m.zones }

// Waypoints returns the waypoint table.
func (m *Memory) Waypoints() Table[Waypoint] { return m.waypoints }

// InitObject gives a new slot the defaults of a freshly spawned actor.
func (m *Memory) InitObject(i int) {
	obj, ok := m.objects.At(i)
	if !ok {
		return
	}
	*obj = Object{LifePoints: 50, BodyNum: -1, SceneZone: -1, Entity: -1}
	m.record(Call{Op: "init_object", Object: i})
}

// Update3DModel records the model reload.
func (m *Memory) Update3DModel(i int) {
	m.record(Call{Op: "update_3d_model", Object: i})
}

// StartPos returns the hero start position.
func (m *Memory) StartPos() [3]int32 { return m.startPos }

// SetStartPos sets the hero start position.
func (m *Memory) SetStartPos(pos [3]int32) { m.startPos = pos }

// MaxSceneVar returns the highest scene variable index.
func (m *Memory) MaxSceneVar() int { return len(m.sceneVars) - 1 }

// SceneVar reads a scene variable.
func (m *Memory) SceneVar(i int) (uint8, bool) {
	if i < 0 || i >= len(m.sceneVars) {
		return 0, false
	}
	return m.sceneVars[i], true
}

// SetSceneVar writes a scene variable.
func (m *Memory) SetSceneVar(i int, v uint8) {
	if i >= 0 && i < len(m.sceneVars) {
		m.sceneVars[i] = v
	}
}

// MaxGameVar returns the highest game variable index.
func (m *Memory) MaxGameVar() int { return len(m.gameVars) - 1 }

// GameVar reads a game variable.
func (m *Memory) GameVar(i int) (int16, bool) {
	if i < 0 || i >= len(m.gameVars) {
		return 0, false
	}
	return m.gameVars[i], true
}

// SetGameVar writes a game variable.
func (m *Memory) SetGameVar(i int, v int16) {
	if i >= 0 && i < len(m.gameVars) {
		m.gameVars[i] = v
	}
}

// ExecuteLife records the instruction.
func (m *Memory) ExecuteLife(i int, code []byte) {
	m.record(Call{Op: "life", Object: i, Code: append([]byte(nil), code...)})
}

// ExecuteLifeFunction records the instruction and answers from the fixture.
func (m *Memory) ExecuteLifeFunction(i int, code []byte) (int32, bytecode.ReturnType) {
	m.record(Call{Op: "lifef", Object: i, Code: append([]byte(nil), code...)})
	if len(code) == 0 {
		return 0, bytecode.ReturnInt16
	}
	r, ok := m.fixture.LifeResults[code[0]]
	if !ok {
		return 0, bytecode.ReturnInt16
	}
	return r.Value, bytecode.ReturnType(r.Type)
}

// MoveActive reports whether a move runs for object i.
func (m *Memory) MoveActive(i int) bool {
	_, ok := m.moves[i]
	return ok
}

// ExecuteMove starts a move and records it.
func (m *Memory) ExecuteMove(i int, code []byte) {
	m.record(Call{Op: "move", Object: i, Code: append([]byte(nil), code...)})
	m.moves[i] = m.fixture.MoveFrames
}

// ContinueMove advances a move by one frame. Wait instructions count elapsed
// frames in their timer slot so the progress travels with the buffer.
func (m *Memory) ContinueMove(i int, code []byte) {
	if len(code) >= 6 && isWait(code[0]) {
		elapsed := binary.LittleEndian.Uint32(code[2:6])
		binary.LittleEndian.PutUint32(code[2:6], elapsed+1)
	}
	m.record(Call{Op: "cmove", Object: i, Code: append([]byte(nil), code...)})

	left, ok := m.moves[i]
	if !ok || left == 0 {
		return
	}
	if left == 1 {
		delete(m.moves, i)
		return
	}
	m.moves[i] = left - 1
}

func isWait(op byte) bool {
	switch op {
	case bytecode.MoveWaitNbSecond, bytecode.MoveWaitNbDizieme,
		bytecode.MoveWaitNbSecondRnd, bytecode.MoveWaitNbDiziemeRnd:
		return true
	}
	return false
}

// StopMove ends the move for object i.
func (m *Memory) StopMove(i int) {
	delete(m.moves, i)
	m.record(Call{Op: "stop_move", Object: i})
}

// FacingZoneDirection compares the object angle quadrant with dir. When dir
// is DirectionNone it is read from the zone's third register.
func (m *Memory) FacingZoneDirection(obj *Object, zone *Zone, dir ZoneDirection) bool {
	if dir == DirectionNone {
		dir = ZoneDirection(zone.Registers[2])
	}
	// Angles run 0..4095 with 0 facing south.
	var facing ZoneDirection
	switch a := ((obj.Angle % 4096) + 4096) % 4096; {
	case a < 512 || a >= 3584:
		facing = DirectionSouth
	case a < 1536:
		facing = DirectionEast
	case a < 2560:
		facing = DirectionNorth
	default:
		facing = DirectionWest
	}
	return dir&facing != 0
}

// Num3DEntities returns the entity count.
func (m *Memory) Num3DEntities() int { return m.fixture.Entities }

// Bodies returns the fixture bodies of an entity.
func (m *Memory) Bodies(entity int) (map[uint8]int16, bool) {
	b, ok := m.fixture.Bodies[entity]
	return b, ok
}

// Animations returns the fixture animations of an entity.
func (m *Memory) Animations(entity int) ([]uint16, bool) {
	a, ok := m.fixture.Animations[entity]
	return a, ok
}

// RequestPaletteSync records the request.
func (m *Memory) RequestPaletteSync() { m.record(Call{Op: "palette_sync"}) }

// Scene returns the scene id.
func (m *Memory) Scene() int { return m.fixture.Scene }

// SetScene changes the scene id, as a scene change in the driver would.
func (m *Memory) SetScene(id int) { m.fixture.Scene = id }

// Island returns the island id.
func (m *Memory) Island() int { return m.fixture.Island }

// Planet returns the planet id.
func (m *Memory) Planet() int { return m.fixture.Planet }

// Gold returns the gold counter.
func (m *Memory) Gold() int { return m.gold }

// SetGold sets the gold counter.
func (m *Memory) SetGold(v int) { m.gold = v }

// Zlitos returns the zlitos counter.
func (m *Memory) Zlitos() int { return m.zlitos }

// SetZlitos sets the zlitos counter.
func (m *Memory) SetZlitos(v int) { m.zlitos = v }

// Keys returns the key count.
func (m *Memory) Keys() int { return m.fixture.Keys }

// MagicLevel returns the magic level.
func (m *Memory) MagicLevel() int { return m.fixture.MagicLevel }

// MagicPoints returns the magic points.
func (m *Memory) MagicPoints() int { return m.fixture.MagicPoints }

// ExitProcess records the request.
func (m *Memory) ExitProcess(code int) { m.record(Call{Op: "exit_process", Value: int64(code)}) }

// ExitGame records the request.
func (m *Memory) ExitGame(code int) { m.record(Call{Op: "exit_game", Value: int64(code)}) }

// NewGame records the request.
func (m *Memory) NewGame() { m.record(Call{Op: "new_game"}) }

// SaveGame records the request.
func (m *Memory) SaveGame(name string) { m.record(Call{Op: "save_game", Text: name}) }

// LoadGame records the request.
func (m *Memory) LoadGame(name string) { m.record(Call{Op: "load_game", Text: name}) }

// SkipVideoOnce records the request.
func (m *Memory) SkipVideoOnce() { m.record(Call{Op: "skip_video"}) }

// SetGameInputOnce records the request.
func (m *Memory) SetGameInputOnce(input uint32) {
	m.record(Call{Op: "game_input", Value: int64(input)})
}
