// Package host defines the contract between the scripting bridge and the
// running simulation, plus Memory, a complete in-memory simulation used by
// the CLI, the scenario harness and tests.
//
// The bridge never touches host memory directly. Entity records are reached
// through Table, and instructions are handed over as byte slices that the
// host may read and update in place during the call.
package host

import "github.com/roach88/ida/internal/bytecode"

// Host is the simulation side of the bridge.
type Host interface {
	Entities
	Variables
	Interpreter
	World
	Menu
}

// Entities exposes the scene collections.
type Entities interface {
	Objects() Table[Object]
	Zones() Table[Zone]
	Waypoints() Table[Waypoint]

	// InitObject sets up a freshly added object slot.
	InitObject(i int)

	// Update3DModel reloads the model after an entity change.
	Update3DModel(i int)

	// StartPos returns the hero start position of the scene.
	StartPos() [3]int32
	SetStartPos(pos [3]int32)
}

// Variables exposes the scene-local and game-global variable slots.
type Variables interface {
	// MaxSceneVar is the highest valid scene variable index.
	MaxSceneVar() int
	SceneVar(i int) (uint8, bool)
	SetSceneVar(i int, v uint8)

	// MaxGameVar is the highest valid game variable index.
	MaxGameVar() int
	GameVar(i int) (int16, bool)
	SetGameVar(i int, v int16)
}

// Interpreter runs assembled instructions.
type Interpreter interface {
	// ExecuteLife runs one life instruction for object i.
	ExecuteLife(i int, code []byte)

	// ExecuteLifeFunction evaluates a life function for object i.
	ExecuteLifeFunction(i int, code []byte) (int32, bytecode.ReturnType)

	// MoveActive reports whether a move instruction runs for object i.
	MoveActive(i int) bool

	// ExecuteMove starts a move instruction. The host keeps progress inside
	// code, which the bridge owns and passes again to ContinueMove.
	ExecuteMove(i int, code []byte)
	ContinueMove(i int, code []byte)
	StopMove(i int)
}

// World exposes geometry helpers, resources and scene identity.
type World interface {
	// FacingZoneDirection reports whether obj faces dir relative to zone.
	// DirectionNone makes the host read the direction from the zone.
	FacingZoneDirection(obj *Object, zone *Zone, dir ZoneDirection) bool

	// Num3DEntities is the number of 3D entities available to setEntity.
	Num3DEntities() int

	// Bodies maps body numbers to resource ids for an entity.
	Bodies(entity int) (map[uint8]int16, bool)

	// Animations lists animations usable by an entity.
	Animations(entity int) ([]uint16, bool)

	RequestPaletteSync()

	Scene() int
	Island() int
	Planet() int

	Gold() int
	SetGold(v int)
	Zlitos() int
	SetZlitos(v int)
	Keys() int
	MagicLevel() int
	MagicPoints() int
}

// Menu drives the host front end. Used by the test-mode surface.
type Menu interface {
	ExitProcess(code int)
	ExitGame(code int)
	NewGame()
	SaveGame(name string)
	LoadGame(name string)
	SkipVideoOnce()
	SetGameInputOnce(input uint32)
}
