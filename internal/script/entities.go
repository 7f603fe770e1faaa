package script

import (
	"github.com/dop251/goja"

	"github.com/roach88/ida/internal/entity"
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/scripterr"
)

// wrap builds a script handle for entity index i. The index sits under a
// private symbol so scripts cannot retarget the handle.
func (r *Runtime) wrap(proto *goja.Object, i int) *goja.Object {
	obj := r.vm.NewObject()
	_ = obj.SetPrototype(proto)
	_ = obj.DefineDataPropertySymbol(r.indexKey, r.vm.ToValue(i), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
	return obj
}

// receiver returns the entity index behind the call's this.
func (a args) receiver() int {
	this, ok := a.call.This.(*goja.Object)
	if ok {
		if v := this.GetSymbol(a.r.indexKey); v != nil && !goja.IsUndefined(v) {
			return int(v.ToInteger())
		}
	}
	a.r.throw(scripterr.Type("Illegal invocation"))
	return 0
}

func (r *Runtime) sceneBindings() []binding {
	s := r.bridge.Surface()
	get, set := phase.Getter, phase.Setter
	return []binding{
		{"getId", get, func(a args) (any, error) { return s.SceneID() }},
		{"getIsland", get, func(a args) (any, error) { return s.Island() }},
		{"getPlanet", get, func(a args) (any, error) { return s.Planet() }},
		{"getNumObjects", get, func(a args) (any, error) { return s.NumObjects() }},
		{"getObject", get, func(a args) (any, error) { return s.Object(a.int(0, "objectIndex")) }},
		{"getNumZones", get, func(a args) (any, error) { return s.NumZones() }},
		{"getZone", get, func(a args) (any, error) { return s.Zone(a.int(0, "zoneIndex")) }},
		{"getNumWaypoints", get, func(a args) (any, error) { return s.NumWaypoints() }},
		{"getWaypoint", get, func(a args) (any, error) { return s.Waypoint(a.int(0, "waypointIndex")) }},
		{"updateWaypoint", get, func(a args) (any, error) {
			a.need(2)
			return nil, s.UpdateWaypoint(a.int(0, "waypointIndex"), a.ints(1, "pos"))
		}},
		{"getStartPos", get, func(a args) (any, error) { return s.StartPos() }},
		{"setStartPos", set, func(a args) (any, error) { return nil, s.SetStartPos(a.ints(0, "pos")) }},
		{"getVariable", get, func(a args) (any, error) { return s.Variable(a.int(0, "index")) }},
		{"setVariable", phase.VariableWriter, func(a args) (any, error) {
			a.need(2)
			return nil, s.SetVariable(a.int(0, "index"), a.int(1, "value"))
		}},
		{"getGameVariable", get, func(a args) (any, error) { return s.GameVariable(a.int(0, "index")) }},
		{"setGameVariable", phase.VariableWriter, func(a args) (any, error) {
			a.need(2)
			return nil, s.SetGameVariable(a.int(0, "index"), a.int(1, "value"))
		}},
		{"addObjects", set, func(a args) (any, error) { return s.AddObjects(a.optInt(0, "count")...) }},
		{"addZones", set, func(a args) (any, error) { return s.AddZones(a.optInt(0, "count")...) }},
		{"addWaypoints", set, func(a args) (any, error) { return s.AddWaypoints(a.optInt(0, "count")...) }},
		{"getGold", get, func(a args) (any, error) { return s.Gold() }},
		{"getZlitos", get, func(a args) (any, error) { return s.Zlitos() }},
		{"getCurrentMoney", get, func(a args) (any, error) { return s.CurrentMoney() }},
		{"getForeignMoney", get, func(a args) (any, error) { return s.ForeignMoney() }},
		{"setGold", phase.CurrencyWriter, func(a args) (any, error) { return nil, s.SetGold(a.int(0, "value")) }},
		{"setZlitos", phase.CurrencyWriter, func(a args) (any, error) { return nil, s.SetZlitos(a.int(0, "value")) }},
		{"setCurrentMoney", phase.CurrencyWriter, func(a args) (any, error) { return nil, s.SetCurrentMoney(a.int(0, "value")) }},
		{"setForeignMoney", phase.CurrencyWriter, func(a args) (any, error) { return nil, s.SetForeignMoney(a.int(0, "value")) }},
		{"getNumKeys", get, func(a args) (any, error) { return s.NumKeys() }},
		{"getMagicLevel", get, func(a args) (any, error) { return s.MagicLevel() }},
		{"getMagicPoints", get, func(a args) (any, error) { return s.MagicPoints() }},
	}
}

func (r *Runtime) objectBindings() []binding {
	s := r.bridge.Surface()
	obj := func(a args) *entity.Object { return s.ObjectAt(a.receiver()) }
	get, set := phase.Getter, phase.Setter
	return []binding{
		{"getId", get, func(a args) (any, error) { return obj(a).ID() }},
		{"getStaticFlags", get, func(a args) (any, error) { return obj(a).StaticFlags() }},
		{"setStaticFlags", set, func(a args) (any, error) { return nil, obj(a).SetStaticFlags(a.int(0, "staticFlags")) }},
		{"getPos", get, func(a args) (any, error) { return obj(a).Pos() }},
		{"setPos", set, func(a args) (any, error) { return nil, obj(a).SetPos(a.ints(0, "pos")) }},
		{"getRegisters", get, func(a args) (any, error) { return obj(a).Registers() }},
		{"setRegisters", set, func(a args) (any, error) { return nil, obj(a).SetRegisters(a.ints(0, "registers")) }},
		{"getAngle", get, func(a args) (any, error) { return obj(a).Angle() }},
		{"setAngle", set, func(a args) (any, error) { return nil, obj(a).SetAngle(a.int(0, "angle")) }},
		{"getLifePoints", get, func(a args) (any, error) { return obj(a).LifePoints() }},
		{"setLifePoints", set, func(a args) (any, error) { return nil, obj(a).SetLifePoints(a.int(0, "lifePoints")) }},
		{"getArmor", get, func(a args) (any, error) { return obj(a).Armor() }},
		{"setArmor", set, func(a args) (any, error) { return nil, obj(a).SetArmor(a.int(0, "armor")) }},
		{"getHitPower", get, func(a args) (any, error) { return obj(a).HitPower() }},
		{"setHitPower", set, func(a args) (any, error) { return nil, obj(a).SetHitPower(a.int(0, "hitPower")) }},
		{"getRotationSpeed", get, func(a args) (any, error) { return obj(a).RotationSpeed() }},
		{"setRotationSpeed", set, func(a args) (any, error) { return nil, obj(a).SetRotationSpeed(a.int(0, "rotationSpeed")) }},
		{"getTalkColor", get, func(a args) (any, error) { return obj(a).TalkColor() }},
		{"setTalkColor", set, func(a args) (any, error) { return nil, obj(a).SetTalkColor(a.int(0, "talkColor")) }},
		{"getEntity", get, func(a args) (any, error) { return obj(a).Entity() }},
		{"setEntity", set, func(a args) (any, error) { return nil, obj(a).SetEntity(a.int(0, "entity")) }},
		{"getBody", get, func(a args) (any, error) { return obj(a).Body() }},
		{"setBody", set, func(a args) (any, error) { return nil, obj(a).SetBody(a.int(0, "body")) }},
		{"getAnimation", get, func(a args) (any, error) { return obj(a).Animation() }},
		{"setAnimation", set, func(a args) (any, error) { return nil, obj(a).SetAnimation(a.int(0, "animation")) }},
		{"getBonusFlags", get, func(a args) (any, error) { return obj(a).BonusFlags() }},
		{"setBonusFlags", set, func(a args) (any, error) { return nil, obj(a).SetBonusFlags(a.int(0, "bonusFlags")) }},
		{"getBonusQuantity", get, func(a args) (any, error) { return obj(a).BonusQuantity() }},
		{"setBonusQuantity", set, func(a args) (any, error) { return nil, obj(a).SetBonusQuantity(a.int(0, "bonusQuantity")) }},
		{"getControlMode", get, func(a args) (any, error) { return obj(a).ControlMode() }},
		{"setControlMode", set, func(a args) (any, error) { return nil, obj(a).SetControlMode(a.int(0, "controlMode")) }},
		{"getSpriteId", get, func(a args) (any, error) { return obj(a).SpriteID() }},
		{"setSpriteId", set, func(a args) (any, error) { return nil, obj(a).SetSpriteID(a.int(0, "spriteId")) }},
		{"getLifeScript", get, func(a args) (any, error) { return obj(a).LifeScript() }},
		{"getMoveScript", get, func(a args) (any, error) { return obj(a).MoveScript() }},
		{"isFacingZoneDirection", get, func(a args) (any, error) {
			return obj(a).IsFacingZoneDirection(a.int(0, "zoneIndex"), a.optInt(1, "direction")...)
		}},
		{"handleLifeScript", set, func(a args) (any, error) {
			o := obj(a)
			ref := r.handler(a, 0)
			if err := o.HandleLifeScript(ref); err != nil {
				r.Release(ref)
				return nil, err
			}
			return nil, nil
		}},
		{"handleMoveScript", set, func(a args) (any, error) { return nil, obj(a).HandleMoveScript() }},
		{"disable", set, func(a args) (any, error) { return nil, obj(a).Disable() }},
		{"isDisabled", get, func(a args) (any, error) { return obj(a).IsDisabled() }},
	}
}

func (r *Runtime) zoneBindings() []binding {
	s := r.bridge.Surface()
	zone := func(a args) *entity.Zone { return s.ZoneAt(a.receiver()) }
	get, set := phase.Getter, phase.Setter
	return []binding{
		{"getId", get, func(a args) (any, error) { return zone(a).ID() }},
		{"getPos1", get, func(a args) (any, error) { return zone(a).Pos1() }},
		{"setPos1", set, func(a args) (any, error) { return nil, zone(a).SetPos1(a.ints(0, "pos1")) }},
		{"getPos2", get, func(a args) (any, error) { return zone(a).Pos2() }},
		{"setPos2", set, func(a args) (any, error) { return nil, zone(a).SetPos2(a.ints(0, "pos2")) }},
		{"getRegisters", get, func(a args) (any, error) { return zone(a).Registers() }},
		{"setRegisters", set, func(a args) (any, error) { return nil, zone(a).SetRegisters(a.ints(0, "registers")) }},
		{"getType", get, func(a args) (any, error) { return zone(a).Type() }},
		{"setType", set, func(a args) (any, error) { return nil, zone(a).SetType(a.int(0, "type")) }},
		{"getZoneValue", get, func(a args) (any, error) { return zone(a).ZoneValue() }},
		{"setZoneValue", set, func(a args) (any, error) { return nil, zone(a).SetZoneValue(a.int(0, "zoneValue")) }},
	}
}
