package entity

import (
	"slices"

	"github.com/roach88/ida/internal/bytecode"
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/scripterr"
)

// Game variables that hold engine state and must not be written by mods.
var readOnlyGameVars = []int{
	bytecode.FlagMoney,
	bytecode.FlagACF,
	bytecode.FlagACF2,
	bytecode.FlagACF3,
	bytecode.FlagEsc,
	bytecode.FlagDontUse,
}

// IsReadOnlyGameVar reports whether game variable i rejects writes.
func IsReadOnlyGameVar(i int) bool {
	return slices.Contains(readOnlyGameVars, i)
}

// SceneID returns the current scene id.
func (s *Surface) SceneID() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.Scene(), nil
}

// Island returns the current island.
func (s *Surface) Island() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.Island(), nil
}

// Planet returns the current planet.
func (s *Surface) Planet() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.Planet(), nil
}

// NumObjects returns the object count.
func (s *Surface) NumObjects() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.Objects().Len(), nil
}

// NumZones returns the zone count.
func (s *Surface) NumZones() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.Zones().Len(), nil
}

// NumWaypoints returns the waypoint count.
func (s *Surface) NumWaypoints() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.Waypoints().Len(), nil
}

// Object resolves object i.
func (s *Surface) Object(i int64) (*Object, error) {
	if err := s.check(phase.Getter); err != nil {
		return nil, err
	}
	if err := scripterr.CheckIndex("objectIndex", i, s.host.Objects().Len()); err != nil {
		return nil, err
	}
	if _, err := s.objectRef(int(i)); err != nil {
		return nil, err
	}
	return &Object{s: s, index: int(i)}, nil
}

// Zone resolves zone i.
func (s *Surface) Zone(i int64) (*Zone, error) {
	if err := s.check(phase.Getter); err != nil {
		return nil, err
	}
	if err := scripterr.CheckIndex("zoneIndex", i, s.host.Zones().Len()); err != nil {
		return nil, err
	}
	if _, err := s.zoneRef(int(i)); err != nil {
		return nil, err
	}
	return &Zone{s: s, index: int(i)}, nil
}

// Waypoint returns the coordinates of waypoint i.
func (s *Surface) Waypoint(i int64) ([]int32, error) {
	if err := s.check(phase.Getter); err != nil {
		return nil, err
	}
	if err := scripterr.CheckIndex("waypointIndex", i, s.host.Waypoints().Len()); err != nil {
		return nil, err
	}
	w, err := s.waypointRef(int(i))
	if err != nil {
		return nil, err
	}
	return toSlice(*w), nil
}

// UpdateWaypoint moves waypoint i. Nothing guards against a running track
// reading the same waypoint; the caller owns that ordering.
func (s *Surface) UpdateWaypoint(i int64, pos []int64) error {
	if err := s.check(phase.Getter); err != nil {
		return err
	}
	if err := scripterr.CheckIndex("waypointIndex", i, s.host.Waypoints().Len()); err != nil {
		return err
	}
	p, err := Vec3("pos", pos)
	if err != nil {
		return err
	}
	w, err := s.waypointRef(int(i))
	if err != nil {
		return err
	}
	*w = p
	return nil
}

// StartPos returns the hero start position.
func (s *Surface) StartPos() ([]int32, error) {
	if err := s.check(phase.Getter); err != nil {
		return nil, err
	}
	return toSlice(s.host.StartPos()), nil
}

// SetStartPos sets the hero start position.
func (s *Surface) SetStartPos(pos []int64) error {
	if err := s.check(phase.Setter); err != nil {
		return err
	}
	p, err := Vec3("pos", pos)
	if err != nil {
		return err
	}
	s.host.SetStartPos(p)
	return nil
}

// Variable reads scene variable i.
func (s *Surface) Variable(i int64) (uint8, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	if err := scripterr.CheckRange("variableIndex", i, 0, int64(s.host.MaxSceneVar())); err != nil {
		return 0, err
	}
	v, _ := s.host.SceneVar(int(i))
	return v, nil
}

// SetVariable writes scene variable i. The last index is reserved for the
// save state.
func (s *Surface) SetVariable(i, v int64) error {
	if err := s.check(phase.VariableWriter); err != nil {
		return err
	}
	last := int64(s.host.MaxSceneVar())
	if err := scripterr.CheckRange("variableIndex", i, 0, last); err != nil {
		return err
	}
	if i == last {
		return scripterr.State("The last scene variable cannot be written through Ida. It is used in the game save state.")
	}
	if err := scripterr.CheckUint8("value", v); err != nil {
		return err
	}
	s.host.SetSceneVar(int(i), uint8(v))
	return nil
}

// GameVariable reads game variable i.
func (s *Surface) GameVariable(i int64) (int16, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	if err := scripterr.CheckRange("variableIndex", i, 0, int64(s.host.MaxGameVar())); err != nil {
		return 0, err
	}
	v, _ := s.host.GameVar(int(i))
	return v, nil
}

// SetGameVariable writes game variable i.
func (s *Surface) SetGameVariable(i, v int64) error {
	if err := s.check(phase.VariableWriter); err != nil {
		return err
	}
	if err := scripterr.CheckRange("variableIndex", i, 0, int64(s.host.MaxGameVar())); err != nil {
		return err
	}
	if IsReadOnlyGameVar(int(i)) {
		return scripterr.State("The game variable number %d cannot be written through Ida. See the scene and life API if you need a way to change it.", i)
	}
	if err := scripterr.CheckInt16("value", v); err != nil {
		return err
	}
	s.host.SetGameVar(int(i), int16(v))
	return nil
}

// zeelich reports whether the current planet uses zlitos as local money.
func (s *Surface) zeelich() bool { return s.host.Planet() >= 2 }

// Gold returns the gold counter.
func (s *Surface) Gold() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.Gold(), nil
}

// Zlitos returns the zlitos counter.
func (s *Surface) Zlitos() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.Zlitos(), nil
}

// CurrentMoney returns the money of the current planet.
func (s *Surface) CurrentMoney() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	if s.zeelich() {
		return s.host.Zlitos(), nil
	}
	return s.host.Gold(), nil
}

// ForeignMoney returns the money of the other planet.
func (s *Surface) ForeignMoney() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	if s.zeelich() {
		return s.host.Gold(), nil
	}
	return s.host.Zlitos(), nil
}

// SetGold sets gold. On Zeelich gold is the foreign money and is mirrored
// into the inventory money slot.
func (s *Surface) SetGold(v int64) error {
	if err := s.check(phase.CurrencyWriter); err != nil {
		return err
	}
	if err := scripterr.CheckInt16("gold", v); err != nil {
		return err
	}
	s.host.SetGold(int(v))
	if s.zeelich() {
		s.host.SetGameVar(bytecode.FlagMoney, int16(v))
	}
	return nil
}

// SetZlitos sets zlitos. Off Zeelich zlitos is the foreign money and is
// mirrored into the inventory money slot.
func (s *Surface) SetZlitos(v int64) error {
	if err := s.check(phase.CurrencyWriter); err != nil {
		return err
	}
	if err := scripterr.CheckInt16("zlitos", v); err != nil {
		return err
	}
	s.host.SetZlitos(int(v))
	if !s.zeelich() {
		s.host.SetGameVar(bytecode.FlagMoney, int16(v))
	}
	return nil
}

// SetCurrentMoney sets the money of the current planet.
func (s *Surface) SetCurrentMoney(v int64) error {
	if err := s.check(phase.CurrencyWriter); err != nil {
		return err
	}
	if err := scripterr.CheckInt16("money", v); err != nil {
		return err
	}
	if s.zeelich() {
		s.host.SetZlitos(int(v))
	} else {
		s.host.SetGold(int(v))
	}
	return nil
}

// SetForeignMoney sets the money of the other planet and the inventory slot.
func (s *Surface) SetForeignMoney(v int64) error {
	if err := s.check(phase.CurrencyWriter); err != nil {
		return err
	}
	if err := scripterr.CheckInt16("money", v); err != nil {
		return err
	}
	s.host.SetGameVar(bytecode.FlagMoney, int16(v))
	if s.zeelich() {
		s.host.SetGold(int(v))
	} else {
		s.host.SetZlitos(int(v))
	}
	return nil
}

// NumKeys returns the key count.
func (s *Surface) NumKeys() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.Keys(), nil
}

// MagicLevel returns the magic level.
func (s *Surface) MagicLevel() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.MagicLevel(), nil
}

// MagicPoints returns the magic points.
func (s *Surface) MagicPoints() (int, error) {
	if err := s.check(phase.Getter); err != nil {
		return 0, err
	}
	return s.host.MagicPoints(), nil
}
