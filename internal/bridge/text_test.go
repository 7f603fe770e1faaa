package bridge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/scripterr"
)

func (f *fixture) method(name string, res Result) {
	f.rt.methods[name] = func(...any) (Result, error) { return res, nil }
}

func (f *fixture) media(t *testing.T, kind, name string) string {
	t.Helper()
	dir := filepath.Join(f.dir, "media", kind)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))
	return path
}

func TestTextHooks_InactiveAnswerNeutral(t *testing.T) {
	f := newFixture(t)
	f.method("text.__isReplaced", BoolResult(true))

	assert.False(t, f.b.ControlsDialogText(2000))
	assert.Zero(t, f.b.DialogFlag(5))
	assert.Nil(t, f.b.Text(5))
	assert.Equal(t, DialogColor{Main: ColorNone, Start256: ColorNone, End256: ColorNone}, f.b.TextColor(5))
	_, ok := f.b.Image(1)
	assert.False(t, ok)
	assert.Empty(t, f.rt.calls)
}

func TestControlsDialogText(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	assert.True(t, f.b.ControlsDialogText(1001))
	assert.Empty(t, f.rt.calls, "mod ids never ask the script")

	f.method("text.__isReplaced", IntResult(1))
	assert.False(t, f.b.ControlsDialogText(5))

	f.method("text.__isReplaced", BoolResult(true))
	assert.True(t, f.b.ControlsDialogText(5))
}

func TestDialogFlag(t *testing.T) {
	f := newFixture(t)
	f.start(t)
	f.method("text.__getFlags", IntResult(8))

	assert.Equal(t, uint8(8), f.b.DialogFlag(5))
	assert.Zero(t, f.b.DialogFlag(1001))

	f.method("text.__getFlags", StringResult("8"))
	assert.Zero(t, f.b.DialogFlag(5))
}

func TestText_AppendsTerminator(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	f.method("text.__get", BytesResult([]byte{1, 'H', 'i'}))
	assert.Equal(t, []byte{1, 'H', 'i', 0}, f.b.Text(1002))

	f.method("text.__get", BytesResult(nil))
	assert.Nil(t, f.b.Text(1002))

	f.method("text.__get", StringResult("Hi"))
	assert.Nil(t, f.b.Text(1002))
}

func TestTextColor(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	f.method("text.__getColor", ListResult(IntResult(4), Result{}, Result{}))
	assert.Equal(t, DialogColor{Main: 4, Start256: ColorNone, End256: ColorNone}, f.b.TextColor(5))

	f.method("text.__getColor", ListResult(IntResult(20), IntResult(16), IntResult(300)))
	assert.Equal(t, DialogColor{Main: ColorNone, Start256: 16, End256: ColorNone}, f.b.TextColor(5))
	assert.Contains(t, f.logs.String(), "Dialog color must be in range 0..15")
	assert.Contains(t, f.logs.String(), "Dialog color must be in range 0..255")

	f.method("text.__getColor", ListResult(IntResult(1)))
	assert.Equal(t, ColorNone, f.b.TextColor(5).Main)
}

func TestDialogSprite(t *testing.T) {
	f := newFixture(t)
	path := f.media(t, "sprites", "face.png")
	require.NoError(t, f.b.Run(context.Background()))

	f.method("text.__getSprite", ListResult(StringResult("face.png"), IntResult(10), IntResult(-20)))
	_, ok := f.b.DialogSprite(1002)
	assert.False(t, ok, "sprites are not registered yet")

	require.NoError(t, f.b.UseImages())
	sprite, ok := f.b.DialogSprite(1002)
	require.True(t, ok)
	assert.Equal(t, DialogSprite{Name: "face.png", Path: path, X: 10, Y: -20}, sprite)

	f.method("text.__getSprite", ListResult(StringResult(""), IntResult(0), IntResult(0)))
	_, ok = f.b.DialogSprite(1002)
	assert.False(t, ok)
	assert.Contains(t, f.logs.String(), "Sprite path is empty")

	f.method("text.__getSprite", ListResult(StringResult("missing.png"), IntResult(0), IntResult(0)))
	_, ok = f.b.DialogSprite(1002)
	assert.False(t, ok)

	f.method("text.__getSprite", ListResult())
	_, ok = f.b.DialogSprite(1002)
	assert.False(t, ok)
}

func TestImage(t *testing.T) {
	f := newFixture(t)
	path := f.media(t, "images", "title.png")
	require.NoError(t, f.b.Run(context.Background()))
	require.NoError(t, f.b.UseImages())

	f.method("image.__get", StringResult("title.png"))
	got, ok := f.b.Image(39)
	require.True(t, ok)
	assert.Equal(t, path, got)
	assert.True(t, f.b.media.loaded[path])

	f.b.AfterLoadScene(1, 0, false, false)
	assert.Empty(t, f.b.media.loaded)

	f.method("image.__get", Result{})
	_, ok = f.b.Image(39)
	assert.False(t, ok)
}

func TestUseImages_OncePerRun(t *testing.T) {
	f := newFixture(t)
	f.media(t, "images", "a.png")
	require.NoError(t, f.b.Run(context.Background()))
	require.NoError(t, f.b.UseImages())

	f.media(t, "images", "b.png")
	require.NoError(t, f.b.UseImages())
	assert.Len(t, f.b.media.images, 1)
	assert.Contains(t, f.logs.String(), "useImages is called")

	require.NoError(t, f.b.Run(context.Background()))
	require.NoError(t, f.b.UseImages())
	assert.Len(t, f.b.media.images, 2)
}

func TestEncodeText(t *testing.T) {
	f := newFixture(t)

	out, err := f.b.EncodeText("Olá+", 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 'O', 'l', 160, '.'}, out)
	assert.Contains(t, f.logs.String(), "+ at index 3; ")

	_, err = f.b.EncodeText("x", 256)
	assert.True(t, scripterr.IsRange(err))

	require.NoError(t, f.b.SetEncoding(map[string]int64{"á": 7}))
	out, _ = f.b.EncodeText("á", 0)
	assert.Equal(t, []byte{0, 7}, out)
	assert.True(t, scripterr.IsArgument(f.b.SetEncoding(map[string]int64{"ab": 1})))

	require.NoError(t, f.b.SetEncoding(nil))
	out, _ = f.b.EncodeText("á", 0)
	assert.Equal(t, []byte{0, 160}, out)
}

func TestMark_RequiresTestMode(t *testing.T) {
	f := newFixture(t)
	f.start(t)

	assert.True(t, scripterr.IsPolicy(f.b.NewGame()))
	assert.True(t, scripterr.IsPolicy(f.b.ExitProcess(0)))
	_, err := f.b.GameLoop()
	assert.True(t, scripterr.IsPolicy(err))
	assert.Empty(t, f.mem.Calls)
}

func TestMark_MenuOnlyOperations(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.TestMode = true })
	f.start(t)
	f.b.ProcessTasks(host.LoopGame)

	err := f.b.Exit()
	require.True(t, scripterr.IsState(err))
	assert.Equal(t, "Cannot exit the game when not in the main menu.", err.Error())
	assert.EqualError(t, f.b.LoadGame("a"), "Cannot load a game when not in the main menu.")
	assert.EqualError(t, f.b.NewGame(), "Cannot start a new game when not in the main menu.")

	f.b.ProcessTasks(host.LoopGameMenu)
	loop, err := f.b.GameLoop()
	require.NoError(t, err)
	assert.Equal(t, host.LoopGameMenu, loop)

	require.NoError(t, f.b.Exit(3))
	require.NoError(t, f.b.Exit())
	assert.True(t, scripterr.IsRange(f.b.Exit(256)))
	require.NoError(t, f.b.SaveGame("slot"))
	require.NoError(t, f.b.LoadGame("slot"))

	long := make([]byte, MaxSaveNameLen+1)
	for i := range long {
		long[i] = 'a'
	}
	assert.EqualError(t, f.b.SaveGame(string(long)), "Save game name is too long. Maximum length is 100 characters.")
	assert.EqualError(t, f.b.LoadGame(string(long)), "Load game name is too long. Maximum length is 100 characters.")

	assert.Equal(t, []host.Call{
		{Op: "exit_game", Value: 3},
		{Op: "exit_game"},
		{Op: "save_game", Text: "slot"},
		{Op: "load_game", Text: "slot"},
	}, f.mem.Calls)
}

func TestMark_AnyLoopOperations(t *testing.T) {
	f := newFixture(t, func(c *Config) { c.TestMode = true })
	f.start(t)

	require.NoError(t, f.b.SkipVideoOnce())
	require.NoError(t, f.b.SetGameInputOnce(1<<31))
	assert.True(t, scripterr.IsRange(f.b.SetGameInputOnce(-1)))
	require.NoError(t, f.b.ExitProcess(2))

	require.NoError(t, f.b.SetHotReloadEnabled(true))
	on, err := f.b.HotReloadEnabled()
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, f.b.HotReload())

	assert.Equal(t, "skip_video", f.mem.Calls[0].Op)
	assert.Equal(t, host.Call{Op: "exit_process", Value: 2}, f.lastCall())
}
