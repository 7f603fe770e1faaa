package bridge

import (
	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/scripterr"
	"github.com/roach88/ida/internal/trace"
)

// MaxSaveNameLen bounds save and load names passed to the menu.
const MaxSaveNameLen = 100

// The mark.* surface drives the host front end from automated tests. Every
// operation is rejected unless the bridge runs in test mode.

func (b *Bridge) menu(name string, attrs map[string]any) {
	b.record(trace.Event{Kind: trace.KindMenu, Name: name, Object: -1, Attrs: attrs})
}

func (b *Bridge) inMenu(msg string) error {
	if b.loop != host.LoopGameMenu {
		return scripterr.State("%s", msg)
	}
	return nil
}

// ExitProcess terminates the host process with code.
func (b *Bridge) ExitProcess(code int64) error {
	if err := b.guard.Check(phase.TestOnly); err != nil {
		return err
	}
	if err := scripterr.CheckInt32("exitCode", code); err != nil {
		return err
	}
	b.menu("exitProcess", map[string]any{"code": int(code)})
	b.host.ExitProcess(int(code))
	return nil
}

// Exit leaves the game from the main menu. code is optional and defaults to 0.
func (b *Bridge) Exit(code ...int64) error {
	if err := b.guard.Check(phase.TestOnly); err != nil {
		return err
	}
	if err := b.inMenu("Cannot exit the game when not in the main menu."); err != nil {
		return err
	}
	var c int64
	if len(code) > 0 {
		if err := scripterr.CheckRange("exitCode", code[0], 0, 255); err != nil {
			return err
		}
		c = code[0]
	}
	b.menu("exit", map[string]any{"code": int(c)})
	b.host.ExitGame(int(c))
	return nil
}

// NewGame starts a new game from the main menu.
func (b *Bridge) NewGame() error {
	if err := b.guard.Check(phase.TestOnly); err != nil {
		return err
	}
	if err := b.inMenu("Cannot start a new game when not in the main menu."); err != nil {
		return err
	}
	b.menu("newGame", nil)
	b.host.NewGame()
	return nil
}

// SaveGame starts a new game from the main menu and saves it under name.
func (b *Bridge) SaveGame(name string) error {
	if err := b.guard.Check(phase.TestOnly); err != nil {
		return err
	}
	if err := b.inMenu("Cannot start a new game when not in the main menu."); err != nil {
		return err
	}
	if len(name) > MaxSaveNameLen {
		return scripterr.Argument("Save game name is too long. Maximum length is 100 characters.")
	}
	b.menu("saveGame", map[string]any{"name": name})
	b.host.SaveGame(name)
	return nil
}

// LoadGame loads the save called name from the main menu.
func (b *Bridge) LoadGame(name string) error {
	if err := b.guard.Check(phase.TestOnly); err != nil {
		return err
	}
	if err := b.inMenu("Cannot load a game when not in the main menu."); err != nil {
		return err
	}
	if len(name) > MaxSaveNameLen {
		return scripterr.Argument("Load game name is too long. Maximum length is 100 characters.")
	}
	b.menu("loadGame", map[string]any{"name": name})
	b.host.LoadGame(name)
	return nil
}

// SkipVideoOnce skips the next video the host plays.
func (b *Bridge) SkipVideoOnce() error {
	if err := b.guard.Check(phase.TestOnly); err != nil {
		return err
	}
	b.menu("skipVideoOnce", nil)
	b.host.SkipVideoOnce()
	return nil
}

// SetGameInputOnce injects an input bit mask for the next game frame.
func (b *Bridge) SetGameInputOnce(input int64) error {
	if err := b.guard.Check(phase.TestOnly); err != nil {
		return err
	}
	if err := scripterr.CheckRange("input", input, 0, 1<<32-1); err != nil {
		return err
	}
	b.menu("setGameInputOnce", map[string]any{"input": int64(input)})
	b.host.SetGameInputOnce(uint32(input))
	return nil
}

// GameLoop returns the host loop seen by the last ProcessTasks.
func (b *Bridge) GameLoop() (host.LoopType, error) {
	if err := b.guard.Check(phase.TestOnly); err != nil {
		return host.LoopNone, err
	}
	return b.loop, nil
}

// HotReloadEnabled reports the hot reload switch.
func (b *Bridge) HotReloadEnabled() (bool, error) {
	if err := b.guard.Check(phase.TestOnly); err != nil {
		return false, err
	}
	return b.hotReload, nil
}

// SetHotReloadEnabled flips the hot reload switch. The host reads it through
// HotReload when deciding whether to watch the mod directory.
func (b *Bridge) SetHotReloadEnabled(enabled bool) error {
	if err := b.guard.Check(phase.TestOnly); err != nil {
		return err
	}
	b.hotReload = enabled
	return nil
}

// HotReload reports the hot reload switch without a phase check.
func (b *Bridge) HotReload() bool { return b.hotReload }
