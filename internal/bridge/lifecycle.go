package bridge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/ida/internal/entity"
	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/trace"
)

// Global script objects and events the lifecycle talks to.
const (
	sceneObject = "scene"
	textObject  = "text"
	imageObject = "image"

	eventBeforeLoadScene     = "beforeLoadScene"
	eventAfterLoadScene      = "afterLoadScene"
	eventAfterLoadSavedState = "afterLoadSavedState"
)

// LoadMode is the scene load mode reported to scripts.
type LoadMode int

const (
	NewGameStarted       LoadMode = 0
	PlayerMovedHere      LoadMode = 1
	PlayerTeleportedHere LoadMode = 2

	// WillLoadSavedState replaces the host mode whenever a saved game or a
	// valid position is about to be restored. Scripts must not initialise
	// the scene from scratch in this mode.
	WillLoadSavedState LoadMode = 4
)

// loadMode computes the script-facing mode for a host mode.
func loadMode(hostMode int, isLoadGame, isRestoringValidPos bool) LoadMode {
	if isLoadGame || isRestoringValidPos {
		return WillLoadSavedState
	}
	return LoadMode(hostMode)
}

// SidecarPath returns the JSON file holding the script state of a save file.
func SidecarPath(savePath string) string {
	return strings.TrimSuffix(savePath, filepath.Ext(savePath)) + ".json"
}

// Run resets the bridge and runs the mod entry script. Handlers and object
// flags of the previous script are dropped. Without a mod, or without an
// entry file, the simulation continues vanilla and Run returns nil. A
// failing entry script halts scripting and its error is returned.
func (b *Bridge) Run(ctx context.Context) error {
	b.active = false
	b.clearMedia()
	b.clearSceneLoadOverrides()
	b.clearHandlers()
	b.releaseMoveHandler()
	b.hook("run", nil)

	if b.config.ModDir == "" {
		b.logger.Info("No mod provided; the simulation continues in vanilla mode")
		return nil
	}
	entry := filepath.Join(b.config.ModDir, b.config.Entry)
	if _, err := os.Stat(entry); err != nil {
		b.logger.Warn("File " + entry + " is not found. The mod script will not run.")
		return nil
	}
	if b.runtime == nil {
		return fmt.Errorf("run %s: no script runtime attached", entry)
	}

	b.guard.Set(phase.None)
	b.active = true
	if err := b.runtime.RunEntry(ctx, entry); err != nil {
		b.Halt()
		b.logger.Error("Unable to run the system or mod scripts: one or several errors encountered. The game will continue in vanilla mode.",
			"entry", entry,
			"error", err,
		)
		return fmt.Errorf("run %s: %w", entry, err)
	}
	return nil
}

// Halt stops all script activity until the next Run.
func (b *Bridge) Halt() {
	if !b.active {
		return
	}
	b.active = false
	b.record(trace.Event{Kind: trace.KindHalt, Name: "halt", Object: -1})
}

// ProcessTasks records the host loop type and pumps script macrotasks once.
func (b *Bridge) ProcessTasks(loop host.LoopType) {
	b.loop = loop
	if !b.active {
		return
	}
	if err := b.runtime.ProcessTasks(); err != nil {
		b.scriptError("task", err)
	}
}

// BeforeLoadScene runs before the host loads a scene. Life handlers and
// object flags are dropped even when no script is active.
func (b *Bridge) BeforeLoadScene(sceneID int, savePath string, hostMode int, isLoadGame, isRestoringValidPos bool) {
	b.clearHandlers()
	if !b.active {
		return
	}

	mode := loadMode(hostMode, isLoadGame, isRestoringValidPos)
	b.guard.Set(phase.BeforeSceneLoad)
	b.hook(eventBeforeLoadScene, map[string]any{"scene": sceneID, "mode": int(mode)})

	if mode == WillLoadSavedState {
		b.loadSidecar(savePath)
	}
	b.fire(sceneObject, eventBeforeLoadScene, sceneID, int(mode))
	b.guard.Set(phase.None)
}

// AfterLoadScene runs once the host has loaded the scene; entity shape may
// change while its subscribers run.
func (b *Bridge) AfterLoadScene(sceneID int, hostMode int, isLoadGame, isRestoringValidPos bool) {
	b.clearMediaMemory()
	if !b.active {
		return
	}

	mode := loadMode(hostMode, isLoadGame, isRestoringValidPos)
	b.guard.Set(phase.SceneLoad)
	b.hook(eventAfterLoadScene, map[string]any{"scene": sceneID, "mode": int(mode)})
	b.fire(sceneObject, eventAfterLoadScene, sceneID, int(mode))
	b.guard.Set(phase.InScene)
}

// AfterLoadGame runs after the host restored a saved game.
func (b *Bridge) AfterLoadGame(sceneID int, savePath string) {
	if !b.active {
		return
	}

	b.loadSidecar(savePath)
	b.guard.Set(phase.GameLoad)
	b.hook(eventAfterLoadSavedState, map[string]any{"scene": sceneID, "save": saveName(savePath)})
	b.fire(sceneObject, eventAfterLoadSavedState, sceneID, savePath)
	b.guard.Set(phase.InScene)
}

// AfterSaveGame writes the script state next to the save file. Without a
// script it deletes a sidecar left by an earlier mod session.
func (b *Bridge) AfterSaveGame(savePath string) error {
	sidecar := SidecarPath(savePath)
	if !b.active {
		if err := os.Remove(sidecar); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete stale sidecar: %w", err)
		}
		return nil
	}

	b.hook("afterSaveGame", map[string]any{"save": saveName(savePath)})
	state := ""
	if res, ok := b.callMethod(sceneObject, "__save"); ok && res.Kind == String {
		state = res.Str
	}
	if err := os.WriteFile(sidecar, []byte(state), 0o644); err != nil {
		return fmt.Errorf("failed to write sidecar: %w", err)
	}
	return nil
}

// SaveValidPos asks the script to back up its state alongside the host's
// valid position snapshot.
func (b *Bridge) SaveValidPos() {
	if !b.active {
		return
	}
	b.hook("saveValidPos", nil)
	b.callMethod(sceneObject, "__saveBackup")
}

// RestoreValidPos restores the script backup and reports a saved state load
// with scene -1 and an empty path.
func (b *Bridge) RestoreValidPos() {
	if !b.active {
		return
	}
	b.hook("restoreValidPos", nil)
	b.callMethod(sceneObject, "__loadBackup")

	b.guard.Set(phase.GameLoad)
	b.fire(sceneObject, eventAfterLoadSavedState, -1, "")
	b.guard.Set(phase.InScene)
}

// DoBeforeLife runs the life handler of object. It returns true when the
// host should run the object's built-in life script afterwards.
func (b *Bridge) DoBeforeLife(object int) bool {
	if !b.active {
		return true
	}
	ref, ok := b.lifeHandlers[object]
	if !ok {
		b.logger.Error(fmt.Sprintf("No life handler found for objectId: %d, but it was expected to have one.", object))
		return true
	}

	b.guard.Set(phase.Life)
	res, err := b.runtime.Call(ref, object)
	b.guard.Set(phase.InScene)
	if err != nil {
		b.scriptError("life handler", err, "object", object)
		return false
	}
	return res.IsTrue()
}

// DoTrack runs the move handler for object.
func (b *Bridge) DoTrack(object int) {
	if !b.active {
		return
	}
	if b.moveHandler.IsNil() {
		b.logger.Error("No move handler found, but it was expected to have one.")
		return
	}

	b.guard.Set(phase.Move)
	_, err := b.runtime.Call(b.moveHandler, object)
	b.guard.Set(phase.InScene)
	if err != nil {
		b.scriptError("move handler", err, "object", object)
	}
}

// HandlesLife reports whether the host should call DoBeforeLife for object.
func (b *Bridge) HandlesLife(object int) bool {
	return b.active && b.flags.Has(object, entity.FlagLife|entity.FlagLifeEnabled)
}

// HandlesMove reports whether the host should call DoTrack for object.
func (b *Bridge) HandlesMove(object int) bool {
	return b.active && b.flags.Has(object, entity.FlagMove|entity.FlagMoveEnabled)
}

func (b *Bridge) loadSidecar(savePath string) {
	data, err := os.ReadFile(SidecarPath(savePath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		b.logger.Warn("failed to read sidecar", "path", SidecarPath(savePath), "error", err)
	}
	b.callMethod(sceneObject, "__load", string(data))
}

func (b *Bridge) fire(object, event string, args ...any) {
	if err := b.runtime.FireEvent(object, event, args...); err != nil {
		b.scriptError(object+"."+event, err)
	}
}

// callMethod calls a script method and logs failures. ok is false when the
// call raised.
func (b *Bridge) callMethod(object, method string, args ...any) (Result, bool) {
	res, err := b.runtime.CallMethod(object, method, args...)
	if err != nil {
		b.scriptError(object+"."+method, err)
		return Result{}, false
	}
	return res, true
}

func (b *Bridge) scriptError(where string, err error, attrs ...any) {
	b.logger.Error("script error", append([]any{"in", where, "error", err}, attrs...)...)
}

// saveName is the save file name recorded in traces; the directory depends
// on the host installation.
func saveName(savePath string) string {
	if savePath == "" {
		return ""
	}
	return filepath.Base(savePath)
}
