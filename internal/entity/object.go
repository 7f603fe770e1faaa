package entity

import (
	"github.com/roach88/ida/internal/handle"
	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/scripterr"
)

// Object is a script handle to one game object. It holds the index only, so
// it stays valid across table growth.
type Object struct {
	s     *Surface
	index int
}

// ObjectAt builds a handle without phase or range checks. The bridge uses it
// to hand objects to handlers it dispatches itself.
func (s *Surface) ObjectAt(i int) *Object {
	return &Object{s: s, index: i}
}

// Index returns the object index.
func (o *Object) Index() int { return o.index }

func (o *Object) get() (*host.Object, error) {
	if err := o.s.check(phase.Getter); err != nil {
		return nil, err
	}
	return o.s.objectRef(o.index)
}

// set runs the setter policy, then validate, then resolves the record.
func (o *Object) set(validate func() error) (*host.Object, error) {
	if err := o.s.check(phase.Setter); err != nil {
		return nil, err
	}
	if validate != nil {
		if err := validate(); err != nil {
			return nil, err
		}
	}
	return o.s.objectRef(o.index)
}

// ID returns the object index.
func (o *Object) ID() (int, error) {
	if err := o.s.check(phase.Getter); err != nil {
		return 0, err
	}
	return o.index, nil
}

// StaticFlags returns the static flags.
func (o *Object) StaticFlags() (uint32, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.StaticFlags, nil
}

// SetStaticFlags sets the static flags.
func (o *Object) SetStaticFlags(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckRange("staticFlags", v, 0, 1<<32-1) })
	if err != nil {
		return err
	}
	obj.StaticFlags = uint32(v)
	return nil
}

// BonusFlags returns the bonus flags.
func (o *Object) BonusFlags() (int16, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.BonusFlags, nil
}

// SetBonusFlags sets the bonus flags.
func (o *Object) SetBonusFlags(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckInt16("bonusFlags", v) })
	if err != nil {
		return err
	}
	obj.BonusFlags = int16(v)
	return nil
}

// BonusQuantity returns the bonus quantity.
func (o *Object) BonusQuantity() (int16, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.BonusQuantity, nil
}

// SetBonusQuantity sets the bonus quantity.
func (o *Object) SetBonusQuantity(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckInt16("bonusQuantity", v) })
	if err != nil {
		return err
	}
	obj.BonusQuantity = int16(v)
	return nil
}

// Pos returns the position.
func (o *Object) Pos() ([]int32, error) {
	obj, err := o.get()
	if err != nil {
		return nil, err
	}
	return toSlice(obj.Pos), nil
}

// SetPos sets the position. The hero is placed by the scene start position,
// so writes to object 0 only log a warning besides taking effect.
func (o *Object) SetPos(pos []int64) error {
	var p [3]int32
	obj, err := o.set(func() (err error) {
		p, err = Vec3("pos", pos)
		return err
	})
	if err != nil {
		return err
	}
	if o.index == 0 {
		o.s.logger.Warn("Setting position of the object 0 (hero object) in the scene loading phase has no effect. Use scene.setStartPos() instead.")
	}
	obj.Pos = p
	return nil
}

// Angle returns the orientation.
func (o *Object) Angle() (int32, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.Angle, nil
}

// SetAngle sets the orientation.
func (o *Object) SetAngle(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckInt32("angle", v) })
	if err != nil {
		return err
	}
	obj.Angle = int32(v)
	return nil
}

// Registers returns the four object registers.
func (o *Object) Registers() ([]int32, error) {
	obj, err := o.get()
	if err != nil {
		return nil, err
	}
	return append([]int32(nil), obj.Registers[:]...), nil
}

// SetRegisters sets the four object registers.
func (o *Object) SetRegisters(regs []int64) error {
	obj, err := o.set(func() error { return checkArray("registers", regs, 4) })
	if err != nil {
		return err
	}
	for i := range obj.Registers {
		obj.Registers[i] = int32(regs[i])
	}
	return nil
}

// LifePoints returns the life points.
func (o *Object) LifePoints() (int16, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.LifePoints, nil
}

// SetLifePoints sets the life points.
func (o *Object) SetLifePoints(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckInt16("lifePoints", v) })
	if err != nil {
		return err
	}
	obj.LifePoints = int16(v)
	return nil
}

// Armor returns the armor.
func (o *Object) Armor() (uint8, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.Armor, nil
}

// SetArmor sets the armor.
func (o *Object) SetArmor(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckUint8("armor", v) })
	if err != nil {
		return err
	}
	obj.Armor = uint8(v)
	return nil
}

// HitPower returns the hit power.
func (o *Object) HitPower() (uint8, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.HitPower, nil
}

// SetHitPower sets the hit power.
func (o *Object) SetHitPower(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckUint8("hitPower", v) })
	if err != nil {
		return err
	}
	obj.HitPower = uint8(v)
	return nil
}

// RotationSpeed returns the rotation speed (1024 * 50 / delay).
func (o *Object) RotationSpeed() (int16, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.RotationSpeed, nil
}

// SetRotationSpeed sets the rotation speed.
func (o *Object) SetRotationSpeed(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckInt16("rotationSpeed", v) })
	if err != nil {
		return err
	}
	obj.RotationSpeed = int16(v)
	return nil
}

// TalkColor returns the dialog color.
func (o *Object) TalkColor() (uint8, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.TalkColor, nil
}

// SetTalkColor sets the dialog color, 0..15.
func (o *Object) SetTalkColor(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckRange("talkColor", v, 0, 15) })
	if err != nil {
		return err
	}
	obj.TalkColor = uint8(v)
	return nil
}

// Entity returns the 3D entity index.
func (o *Object) Entity() (int32, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.Entity, nil
}

// SetEntity sets the 3D entity and reloads the model when it changes.
func (o *Object) SetEntity(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckInt32("entity", v) })
	if err != nil {
		return err
	}
	changed := obj.Entity != int32(v)
	obj.Entity = int32(v)
	if changed {
		o.s.host.Update3DModel(o.index)
	}
	return nil
}

// Body returns the body number.
func (o *Object) Body() (uint8, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.Body, nil
}

// SetBody sets the body number.
func (o *Object) SetBody(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckUint8("body", v) })
	if err != nil {
		return err
	}
	obj.Body = uint8(v)
	return nil
}

// Animation returns the animation. The high byte holds a special actor
// animation number when one is set.
func (o *Object) Animation() (uint16, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.Animation, nil
}

// SetAnimation sets the animation.
func (o *Object) SetAnimation(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckRange("animation", v, 0, scripterr.MaxUint16) })
	if err != nil {
		return err
	}
	obj.Animation = uint16(v)
	return nil
}

// ControlMode returns the control mode.
func (o *Object) ControlMode() (uint8, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.ControlMode, nil
}

// SetControlMode sets the control mode, 0..13.
func (o *Object) SetControlMode(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckRange("controlMode", v, 0, 13) })
	if err != nil {
		return err
	}
	obj.ControlMode = uint8(v)
	return nil
}

// SpriteID returns the sprite id.
func (o *Object) SpriteID() (int16, error) {
	obj, err := o.get()
	if err != nil {
		return 0, err
	}
	return obj.SpriteID, nil
}

// SetSpriteID sets the sprite id.
func (o *Object) SetSpriteID(v int64) error {
	obj, err := o.set(func() error { return scripterr.CheckInt16("spriteId", v) })
	if err != nil {
		return err
	}
	obj.SpriteID = int16(v)
	return nil
}

// LifeScript reports whether the object has a built-in life script.
func (o *Object) LifeScript() (bool, error) {
	obj, err := o.get()
	if err != nil {
		return false, err
	}
	return obj.HasLifeScript, nil
}

// MoveScript reports whether the object has a built-in move script.
func (o *Object) MoveScript() (bool, error) {
	obj, err := o.get()
	if err != nil {
		return false, err
	}
	return obj.HasMoveScript, nil
}

// IsFacingZoneDirection tests whether the object faces dir relative to zone.
// dir is optional; without it the host reads the direction from the zone.
func (o *Object) IsFacingZoneDirection(zone int64, dir ...int64) (bool, error) {
	obj, err := o.get()
	if err != nil {
		return false, err
	}
	if err := scripterr.CheckIndex("zoneIndex", zone, o.s.host.Zones().Len()); err != nil {
		return false, err
	}
	z, err := o.s.zoneRef(int(zone))
	if err != nil {
		return false, err
	}
	d := host.DirectionNone
	if len(dir) > 0 {
		if err := scripterr.CheckRange("direction", dir[0], 0, 8); err != nil {
			return false, err
		}
		d = host.ZoneDirection(dir[0])
	}
	return o.s.host.FacingZoneDirection(obj, z, d), nil
}

// Disable removes the object from the scene.
func (o *Object) Disable() error {
	obj, err := o.set(nil)
	if err != nil {
		return err
	}
	obj.Dead = true
	obj.BodyNum = -1
	obj.SceneZone = -1
	obj.LifePoints = 0
	return nil
}

// IsDisabled reports whether Disable was applied.
func (o *Object) IsDisabled() (bool, error) {
	obj, err := o.get()
	if err != nil {
		return false, err
	}
	return obj.Dead, nil
}

// HandleLifeScript routes the object's life script through ref. A nil ref
// keeps the object handled by the bridge but turns the handler off.
func (o *Object) HandleLifeScript(ref handle.Ref) error {
	if _, err := o.set(nil); err != nil {
		return err
	}
	f := o.s.flags
	f.Set(o.index, FlagLife)
	if ref.IsNil() {
		f.Unset(o.index, FlagLifeEnabled)
	} else {
		f.Set(o.index, FlagLifeEnabled)
	}
	if o.s.handlers != nil {
		o.s.handlers.SetLifeHandler(o.index, ref)
	}
	return nil
}

// HandleMoveScript routes the object's track through the global move handler
// and resets the built-in track position.
func (o *Object) HandleMoveScript() error {
	obj, err := o.set(nil)
	if err != nil {
		return err
	}
	o.s.flags.Set(o.index, FlagMove)
	obj.OffsetTrack = -1
	obj.MemoLabelTrack = -1
	obj.OffsetLabelTrack = -1
	obj.LabelTrack = -1
	return nil
}
