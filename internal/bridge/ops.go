package bridge

import (
	"fmt"
	"path/filepath"

	"github.com/roach88/ida/internal/bytecode"
	"github.com/roach88/ida/internal/entity"
	"github.com/roach88/ida/internal/handle"
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/scripterr"
	"github.com/roach88/ida/internal/trace"
)

// Policies of the ida.* operations.
var (
	policyLife       = phase.AllowIn(phase.Life)
	policyMove       = phase.AllowIn(phase.Move)
	policySceneSetup = phase.AllowIn(phase.BeforeSceneLoad)
	policyStartup    = phase.AllowIn(phase.None)
	policyIdle       = phase.AllowIn(phase.None, phase.InScene)
	policyInScene    = phase.Getter
)

var opPolicies = map[string]phase.Policy{
	"life":            policyLife,
	"lifef":           policyLife,
	"_isMoveActive":   policyInScene,
	"_move":           policyMove,
	"_cmove":          policyMove,
	"_stopMove":       policyInScene,
	"_enableMove":     policyInScene,
	"_disableMove":    policyInScene,
	"setStorm":        policySceneSetup,
	"forceIsland":     policySceneSetup,
	"setStartSceneId": policyStartup,
	"setIntroVideo":   policyStartup,
	"_setMoveHandler": policyStartup,
	"halt":            policyIdle,
	"useImages":       policyIdle,
	"_getBodies":      policyInScene,
	"getAnimations":   policyInScene,
}

// Policy returns the phase policy of the ida.* operation named op. Script
// adapters check it before decoding arguments. Unknown names are
// unrestricted.
func Policy(op string) phase.Policy {
	if p, ok := opPolicies[op]; ok {
		return p
	}
	return phase.Unrestricted
}

func (b *Bridge) objectIndex(v int64) (int, error) {
	if err := scripterr.CheckIndex("objectIndex", v, b.host.Objects().Len()); err != nil {
		return 0, err
	}
	return int(v), nil
}

func checkOpcode(v int64) (byte, error) {
	if err := scripterr.CheckUint8("opcode", v); err != nil {
		return 0, err
	}
	return byte(v), nil
}

// Life assembles one life instruction and runs it for object.
func (b *Bridge) Life(object, opcode int64, args []bytecode.Value) error {
	if err := b.guard.Check(policyLife); err != nil {
		return err
	}
	i, err := b.objectIndex(object)
	if err != nil {
		return err
	}
	op, err := checkOpcode(opcode)
	if err != nil {
		return err
	}
	in, err := bytecode.Assemble(bytecode.Life, op, args, b.limits())
	if err != nil {
		return err
	}

	b.lifeCode = in.AppendTo(b.lifeCode[:0])
	b.host.ExecuteLife(i, b.lifeCode)
	b.record(trace.Event{Kind: trace.KindLife, Name: bytecode.Life.Name(op), Object: i, Code: b.lifeCode})
	return nil
}

// LifeFunction assembles one life function, evaluates it for object and
// returns the result narrowed to its declared type.
func (b *Bridge) LifeFunction(object, opcode int64, args []bytecode.Value) (int32, error) {
	if err := b.guard.Check(policyLife); err != nil {
		return 0, err
	}
	i, err := b.objectIndex(object)
	if err != nil {
		return 0, err
	}
	op, err := checkOpcode(opcode)
	if err != nil {
		return 0, err
	}
	in, err := bytecode.Assemble(bytecode.LifeFunction, op, args, b.limits())
	if err != nil {
		return 0, err
	}

	b.lifeCode = in.AppendTo(b.lifeCode[:0])
	v, rt := b.host.ExecuteLifeFunction(i, b.lifeCode)
	result := bytecode.ConvertResult(v, rt)
	b.record(trace.Event{
		Kind:   trace.KindLifeFunction,
		Name:   bytecode.LifeFunction.Name(op),
		Object: i,
		Code:   b.lifeCode,
		Attrs:  map[string]any{"result": result},
	})
	return result, nil
}

// IsMoveActive reports whether a move instruction runs for object.
func (b *Bridge) IsMoveActive(object int64) (bool, error) {
	if err := b.guard.Check(policyInScene); err != nil {
		return false, err
	}
	i, err := b.objectIndex(object)
	if err != nil {
		return false, err
	}
	return b.host.MoveActive(i), nil
}

// Move starts a move instruction for object. A non-empty saved buffer is
// resumed when its opcode matches; otherwise the instruction is assembled
// from args. Starting a move while one is active only logs.
func (b *Bridge) Move(object int64, saved []byte, opcode int64, args []bytecode.Value) error {
	if err := b.guard.Check(policyMove); err != nil {
		return err
	}
	i, err := b.objectIndex(object)
	if err != nil {
		return err
	}
	if b.host.MoveActive(i) {
		b.logger.Error(fmt.Sprintf("A move command is already active for object %d. Cannot execute another move command.", i))
		return nil
	}
	op, err := checkOpcode(opcode)
	if err != nil {
		return err
	}

	resumed := false
	if len(saved) > 0 {
		resumed = b.moves.LoadFromExternal(i, saved, op)
		if !resumed {
			b.logger.Error(fmt.Sprintf("Failed to load saved move operation for object %d with opcode %d. Will execute move command from the beginning.", i, op))
		}
	}
	if !resumed {
		in, err := bytecode.Assemble(bytecode.Move, op, args, b.limits())
		if err != nil {
			return err
		}
		b.moves.Write(i, in)
	}

	code := b.moves.Get(i)
	b.host.ExecuteMove(i, code)
	b.record(trace.Event{
		Kind:   trace.KindMove,
		Name:   bytecode.Move.Name(op),
		Object: i,
		Code:   code,
		Attrs:  map[string]any{"resumed": resumed},
	})
	return nil
}

// ContinueMove advances the running move instruction of object by one frame.
// For persistent instructions it returns a copy of the buffer, which the
// script keeps to resume the instruction after a save game.
func (b *Bridge) ContinueMove(object int64) ([]byte, error) {
	if err := b.guard.Check(policyMove); err != nil {
		return nil, err
	}
	i, err := b.objectIndex(object)
	if err != nil {
		return nil, err
	}
	if !b.host.MoveActive(i) {
		b.logger.Error(fmt.Sprintf("No move command is active for object %d. Cannot continue executing move command.", i))
		return nil, nil
	}
	code := b.moves.Get(i)
	if len(code) == 0 {
		b.logger.Error(fmt.Sprintf("No move operation is stored for object %d. Cannot continue executing move command.", i))
		return nil, nil
	}

	b.host.ContinueMove(i, code)
	b.record(trace.Event{Kind: trace.KindMoveContinue, Name: bytecode.Move.Name(code[0]), Object: i, Code: code})
	if bytecode.IsPersistentMove(code[0]) {
		return b.moves.Copy(i), nil
	}
	return nil, nil
}

// StopMove stops the running move instruction of object, if any.
func (b *Bridge) StopMove(object int64) error {
	if err := b.guard.Check(policyInScene); err != nil {
		return err
	}
	i, err := b.objectIndex(object)
	if err != nil {
		return err
	}
	if !b.host.MoveActive(i) {
		return nil
	}
	b.stopMove(i)
	return nil
}

func (b *Bridge) stopMove(i int) {
	b.host.StopMove(i)
	b.record(trace.Event{Kind: trace.KindMoveStop, Name: "stop", Object: i})
}

func (b *Bridge) moveHandled(i int) error {
	if !b.flags.Has(i, entity.FlagMove) {
		return scripterr.State("The move script for object %d is not set to be controlled by the Ida mod engine. Use obj.handleMoveScript() to set it up.", i)
	}
	return nil
}

// EnableMove lets the move handler drive object.
func (b *Bridge) EnableMove(object int64) error {
	if err := b.guard.Check(policyInScene); err != nil {
		return err
	}
	i, err := b.objectIndex(object)
	if err != nil {
		return err
	}
	if err := b.moveHandled(i); err != nil {
		return err
	}
	b.flags.Set(i, entity.FlagMoveEnabled)
	return nil
}

// DisableMove stops any running move of object and detaches it from the
// move handler.
func (b *Bridge) DisableMove(object int64) error {
	if err := b.guard.Check(policyInScene); err != nil {
		return err
	}
	i, err := b.objectIndex(object)
	if err != nil {
		return err
	}
	if err := b.moveHandled(i); err != nil {
		return err
	}
	if b.host.MoveActive(i) {
		b.stopMove(i)
	}
	b.flags.Unset(i, entity.FlagMoveEnabled)
	return nil
}

// SetStorm forces the storm weather. A change requests a palette sync.
func (b *Bridge) SetStorm(mode int64) error {
	if err := b.guard.Check(policySceneSetup); err != nil {
		return err
	}
	if err := scripterr.CheckRange("stormMode", mode, 0, 2); err != nil {
		return err
	}
	if b.overrides.Storm == int(mode) {
		return nil
	}
	b.overrides.Storm = int(mode)
	b.host.RequestPaletteSync()
	return nil
}

// ForceIsland forces an island model variant.
func (b *Bridge) ForceIsland(island int64) error {
	if err := b.guard.Check(policySceneSetup); err != nil {
		return err
	}
	if err := scripterr.CheckRange("forcedIsland", island, 0, 4); err != nil {
		return err
	}
	b.overrides.Island = int(island)
	return nil
}

// SetStartSceneID sets the scene a new game starts in.
func (b *Bridge) SetStartSceneID(scene int64) error {
	if err := b.guard.Check(policyStartup); err != nil {
		return err
	}
	if err := scripterr.CheckMin("sceneId", scene, 0); err != nil {
		return err
	}
	b.overrides.StartSceneID = int(scene)
	return nil
}

// SetIntroVideo replaces the intro video. An empty name skips it.
func (b *Bridge) SetIntroVideo(name string) error {
	if err := b.guard.Check(policyStartup); err != nil {
		return err
	}
	b.overrides.IntroVideo = name
	return nil
}

// SetLightningDisabled turns the storm lightning off or back on.
func (b *Bridge) SetLightningDisabled(disabled bool) {
	b.overrides.LightningDisabled = disabled
}

// SetLogLevel sets the script log level, 0..4.
func (b *Bridge) SetLogLevel(level int64) error {
	if err := scripterr.CheckRange("logLevel", level, int64(LogDebug), int64(LogNone)); err != nil {
		return err
	}
	b.applyLogLevel(LogLevel(level))
	return nil
}

// LogLevel returns the script log level.
func (b *Bridge) LogLevel() LogLevel { return b.logLevel }

// SetEppEnabled turns phase enforcement on or off.
func (b *Bridge) SetEppEnabled(enabled bool) {
	b.guard.SetEnabled(enabled)
}

// ScriptHalt is ida.halt: the script stops itself.
func (b *Bridge) ScriptHalt() error {
	if err := b.guard.Check(policyIdle); err != nil {
		return err
	}
	b.Halt()
	return nil
}

// UseImages registers the files under the mod's media/images and
// media/sprites directories. Registration happens once per Run.
func (b *Bridge) UseImages() error {
	if err := b.guard.Check(policyIdle); err != nil {
		return err
	}
	if b.media.registered() {
		b.logger.Debug("useImages is called, but images and sprites were already registered in this session, skipping.")
		return nil
	}
	if b.config.ModDir == "" {
		return nil
	}

	dir := filepath.Join(b.config.ModDir, "media")
	images, err := scanMedia(filepath.Join(dir, "images"))
	if err != nil {
		return fmt.Errorf("failed to scan images: %w", err)
	}
	sprites, err := scanMedia(filepath.Join(dir, "sprites"))
	if err != nil {
		return fmt.Errorf("failed to scan sprites: %w", err)
	}
	b.media.images = images
	b.media.sprites = sprites
	b.logger.Debug("media registered", "images", len(images), "sprites", len(sprites))
	return nil
}

// SetMoveHandler sets the global move handler. A nil ref means the script
// passed something other than a function.
func (b *Bridge) SetMoveHandler(ref handle.Ref) error {
	if err := b.guard.Check(policyStartup); err != nil {
		return err
	}
	if ref.IsNil() {
		return scripterr.Type("First argument must be a function")
	}
	b.releaseMoveHandler()
	b.moveHandler = ref
	return nil
}

func (b *Bridge) entityIndex(v int64) (int, error) {
	if err := scripterr.CheckIndex("entityId", v, b.host.Num3DEntities()); err != nil {
		return 0, err
	}
	return int(v), nil
}

// Bodies maps the body numbers of a 3D entity to their resource ids. A
// failed lookup logs and yields an empty map.
func (b *Bridge) Bodies(entityID int64) (map[uint8]int16, error) {
	if err := b.guard.Check(policyInScene); err != nil {
		return nil, err
	}
	e, err := b.entityIndex(entityID)
	if err != nil {
		return nil, err
	}
	bodies, ok := b.host.Bodies(e)
	if !ok {
		b.logger.Warn(fmt.Sprintf("Failed to get bodies for the entity. Make sure your HQR files are from vanilla game, or they are correctly modified. EntityId: %d", e))
		return map[uint8]int16{}, nil
	}
	return bodies, nil
}

// Animations lists the animations of a 3D entity. A failed lookup logs and
// yields an empty list.
func (b *Bridge) Animations(entityID int64) ([]uint16, error) {
	if err := b.guard.Check(policyInScene); err != nil {
		return nil, err
	}
	e, err := b.entityIndex(entityID)
	if err != nil {
		return nil, err
	}
	anims, ok := b.host.Animations(e)
	if !ok {
		b.logger.Warn(fmt.Sprintf("Failed to get animations for the entity. Make sure your HQR files are from vanilla game, that this entity contains animations, or that your HQR modifications are correct. EntityId: %d", e))
		return []uint16{}, nil
	}
	return anims, nil
}

// TextLanguage returns the text language code.
func (b *Bridge) TextLanguage() string { return b.config.TextLanguage }

// VoiceLanguage returns the voice language code.
func (b *Bridge) VoiceLanguage() string { return b.config.VoiceLanguage }

// FirstTextID returns the first text id free for mod texts.
func (b *Bridge) FirstTextID() int { return b.config.FirstTextID }

// FirstImageID returns the id reserved for the mod image.
func (b *Bridge) FirstImageID() int { return b.config.FirstImageID }
