package host

// Object is one game object record.
type Object struct {
	StaticFlags   uint32   `yaml:"static_flags,omitempty"`
	BonusFlags    int16    `yaml:"bonus_flags,omitempty"`
	Pos           [3]int32 `yaml:"pos,flow"`
	Angle         int32    `yaml:"angle,omitempty"`
	Registers     [4]int32 `yaml:"registers,flow,omitempty"`
	LifePoints    int16    `yaml:"life_points,omitempty"`
	Armor         uint8    `yaml:"armor,omitempty"`
	HitPower      uint8    `yaml:"hit_power,omitempty"`
	RotationSpeed int16    `yaml:"rotation_speed,omitempty"`
	TalkColor     uint8    `yaml:"talk_color,omitempty"`
	Entity        int32    `yaml:"entity,omitempty"`
	Body          uint8    `yaml:"body,omitempty"`
	Animation     uint16   `yaml:"animation,omitempty"`
	BonusQuantity int16    `yaml:"bonus_quantity,omitempty"`
	ControlMode   uint8    `yaml:"control_mode,omitempty"`
	SpriteID      int16    `yaml:"sprite_id,omitempty"`

	// HasLifeScript and HasMoveScript report built-in scripts.
	HasLifeScript bool `yaml:"life_script,omitempty"`
	HasMoveScript bool `yaml:"move_script,omitempty"`

	// Runtime state touched by disable and handleMoveScript.
	Dead             bool  `yaml:"dead,omitempty"`
	BodyNum          int16 `yaml:"body_num,omitempty"`
	SceneZone        int16 `yaml:"scene_zone,omitempty"`
	OffsetTrack      int16 `yaml:"-"`
	MemoLabelTrack   int16 `yaml:"-"`
	OffsetLabelTrack int16 `yaml:"-"`
	LabelTrack       int16 `yaml:"-"`
}

// Zone is one zone record: an axis-aligned box with eight registers.
type Zone struct {
	Pos1      [3]int32 `yaml:"pos1,flow"`
	Pos2      [3]int32 `yaml:"pos2,flow"`
	Registers [8]int32 `yaml:"registers,flow,omitempty"`
	Type      int16    `yaml:"type,omitempty"`
	Value     int16    `yaml:"value,omitempty"`
}

// Waypoint is one track point.
type Waypoint [3]int32

// ZoneDirection is a compass direction used by zone facing tests.
type ZoneDirection uint8

const (
	// DirectionNone makes the host read the direction from the zone.
	DirectionNone  ZoneDirection = 0
	DirectionNorth ZoneDirection = 1
	DirectionSouth ZoneDirection = 2
	DirectionEast  ZoneDirection = 4
	DirectionWest  ZoneDirection = 8
)

// LoopType is the host main loop currently running.
type LoopType uint8

const (
	LoopNone     LoopType = 0
	LoopGameMenu LoopType = 1
	LoopGame     LoopType = 2
)

// String returns the loop name.
func (l LoopType) String() string {
	switch l {
	case LoopGameMenu:
		return "menu"
	case LoopGame:
		return "game"
	default:
		return "none"
	}
}

// Hard limits of the growable collections.
const (
	MaxZones     = 128
	MaxWaypoints = 256
)
