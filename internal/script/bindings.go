package script

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/roach88/ida/internal/bridge"
	"github.com/roach88/ida/internal/bytecode"
	"github.com/roach88/ida/internal/handle"
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/scripterr"
)

//go:embed prelude.js
var preludeSource string

var preludeProgram = sync.OnceValues(func() (*goja.Program, error) {
	return goja.Compile("prelude.js", preludeSource, true)
})

// binding is one native method exposed to scripts.
type binding struct {
	name   string
	policy phase.Policy
	fn     func(a args) (any, error)
}

// native wraps fn so that the policy is checked first and Go errors are
// thrown as script exceptions.
func (r *Runtime) native(p phase.Policy, fn func(a args) (any, error)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if err := r.bridge.Guard().Check(p); err != nil {
			r.throw(err)
		}
		v, err := fn(args{r: r, call: call})
		if err != nil {
			r.throw(err)
		}
		return r.toJS(v)
	}
}

func (r *Runtime) define(obj *goja.Object, bindings []binding) error {
	for _, b := range bindings {
		if err := obj.Set(b.name, r.native(b.policy, b.fn)); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b.name, err)
		}
	}
	return nil
}

func (r *Runtime) installNatives() error {
	globals := []struct {
		name     string
		bindings []binding
	}{
		{"ida", r.idaBindings()},
		{"scene", r.sceneBindings()},
		{"mark", r.markBindings()},
	}
	for _, g := range globals {
		obj := r.vm.NewObject()
		if err := r.define(obj, g.bindings); err != nil {
			return err
		}
		if err := r.vm.Set(g.name, obj); err != nil {
			return err
		}
	}

	r.objectProto = r.vm.NewObject()
	if err := r.define(r.objectProto, r.objectBindings()); err != nil {
		return err
	}
	r.zoneProto = r.vm.NewObject()
	return r.define(r.zoneProto, r.zoneBindings())
}

// runPrelude evaluates the bundled script layer. The prelude is a function
// expression that receives the private native helpers.
func (r *Runtime) runPrelude() error {
	prg, err := preludeProgram()
	if err != nil {
		return err
	}
	v, err := r.vm.RunProgram(prg)
	if err != nil {
		return err
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return fmt.Errorf("prelude is not a function")
	}
	helpers := r.vm.NewObject()
	if err := r.define(helpers, r.helperBindings()); err != nil {
		return err
	}
	_, err = fn(goja.Undefined(), helpers)
	return err
}

// handler registers argument i as a handler. A missing argument yields the
// nil reference; anything else that is not a function throws.
func (r *Runtime) handler(a args, i int) handle.Ref {
	if !a.has(i) {
		return handle.Nil
	}
	fn, ok := a.callable(i)
	if !ok {
		r.throw(scripterr.Type("First argument must be a function"))
	}
	return r.register(fn)
}

func (r *Runtime) idaBindings() []binding {
	b := r.bridge
	ops := []binding{
		{name: "getTextLanguage", fn: func(a args) (any, error) { return b.TextLanguage(), nil }},
		{name: "getVoiceLanguage", fn: func(a args) (any, error) { return b.VoiceLanguage(), nil }},
		{name: "getFirstTextId", fn: func(a args) (any, error) { return b.FirstTextID(), nil }},
		{name: "getFirstImageId", fn: func(a args) (any, error) { return b.FirstImageID(), nil }},
		{name: "life", fn: func(a args) (any, error) {
			a.need(2)
			return nil, b.Life(a.int(0, "objectIndex"), a.int(1, "opcode"), a.code(2))
		}},
		{name: "lifef", fn: func(a args) (any, error) {
			a.need(2)
			return b.LifeFunction(a.int(0, "objectIndex"), a.int(1, "opcode"), a.code(2))
		}},
		{name: "setStorm", fn: func(a args) (any, error) { return nil, b.SetStorm(a.int(0, "stormMode")) }},
		{name: "forceIsland", fn: func(a args) (any, error) { return nil, b.ForceIsland(a.int(0, "forcedIsland")) }},
		{name: "enableLightning", fn: func(a args) (any, error) {
			b.SetLightningDisabled(false)
			return nil, nil
		}},
		{name: "disableLightning", fn: func(a args) (any, error) {
			b.SetLightningDisabled(true)
			return nil, nil
		}},
		{name: "getLogLevel", fn: func(a args) (any, error) { return int(b.LogLevel()), nil }},
		{name: "getAnimations", fn: func(a args) (any, error) { return b.Animations(a.int(0, "entityId")) }},
		{name: "halt", fn: func(a args) (any, error) { return nil, b.ScriptHalt() }},
		{name: "useImages", fn: func(a args) (any, error) { return nil, b.UseImages() }},
		{name: "setStartSceneId", fn: func(a args) (any, error) { return nil, b.SetStartSceneID(a.int(0, "sceneId")) }},
		{name: "setIntroVideo", fn: func(a args) (any, error) { return nil, b.SetIntroVideo(a.string(0, "videoName")) }},
		{name: "_isMoveActive", fn: func(a args) (any, error) { return b.IsMoveActive(a.int(0, "objectIndex")) }},
		{name: "_move", fn: func(a args) (any, error) {
			a.need(3)
			return nil, b.Move(a.int(0, "objectIndex"), a.bytes(1, "savedCode"), a.int(2, "opcode"), a.code(3))
		}},
		{name: "_cmove", fn: func(a args) (any, error) { return b.ContinueMove(a.int(0, "objectIndex")) }},
		{name: "_stopMove", fn: func(a args) (any, error) { return nil, b.StopMove(a.int(0, "objectIndex")) }},
		{name: "_enableMove", fn: func(a args) (any, error) { return nil, b.EnableMove(a.int(0, "objectIndex")) }},
		{name: "_disableMove", fn: func(a args) (any, error) { return nil, b.DisableMove(a.int(0, "objectIndex")) }},
		{name: "_setMoveHandler", fn: func(a args) (any, error) {
			var ref handle.Ref
			if fn, ok := a.callable(0); ok {
				ref = r.register(fn)
			}
			if err := b.SetMoveHandler(ref); err != nil {
				r.Release(ref)
				return nil, err
			}
			return nil, nil
		}},
		{name: "_setLogLevel", fn: func(a args) (any, error) { return nil, b.SetLogLevel(a.int(0, "logLevel")) }},
		{name: "_setEppEnabled", fn: func(a args) (any, error) {
			b.SetEppEnabled(a.bool(0, "enabled"))
			return nil, nil
		}},
		{name: "_getBodies", fn: func(a args) (any, error) { return b.Bodies(a.int(0, "entityId")) }},
	}
	for i := range ops {
		ops[i].policy = bridge.Policy(ops[i].name)
	}
	return ops
}

func (r *Runtime) markBindings() []binding {
	b := r.bridge
	ops := []binding{
		{name: "exitProcess", fn: func(a args) (any, error) { return nil, b.ExitProcess(a.int(0, "exitCode")) }},
		{name: "exit", fn: func(a args) (any, error) { return nil, b.Exit(a.optInt(0, "exitCode")...) }},
		{name: "newGame", fn: func(a args) (any, error) { return nil, b.NewGame() }},
		{name: "saveGame", fn: func(a args) (any, error) { return nil, b.SaveGame(a.string(0, "saveName")) }},
		{name: "loadGame", fn: func(a args) (any, error) { return nil, b.LoadGame(a.string(0, "loadName")) }},
		{name: "skipVideoOnce", fn: func(a args) (any, error) { return nil, b.SkipVideoOnce() }},
		{name: "setGameInputOnce", fn: func(a args) (any, error) { return nil, b.SetGameInputOnce(a.int(0, "input")) }},
		{name: "getGameLoop", fn: func(a args) (any, error) { return b.GameLoop() }},
		{name: "isHotReloadEnabled", fn: func(a args) (any, error) { return b.HotReloadEnabled() }},
		{name: "enableHotReload", fn: func(a args) (any, error) { return nil, b.SetHotReloadEnabled(true) }},
		{name: "disableHotReload", fn: func(a args) (any, error) { return nil, b.SetHotReloadEnabled(false) }},
	}
	for i := range ops {
		ops[i].policy = phase.TestOnly
	}
	return ops
}

// opcodeFamilies name the instruction tables exposed as ida.Life and
// ida.Move.
var opcodeFamilies = map[string]struct {
	table  *bytecode.Table
	prefix string
}{
	"life":  {bytecode.Life, "LM_"},
	"lifef": {bytecode.LifeFunction, "LF_"},
	"move":  {bytecode.Move, "TM_"},
}

// helperBindings are the private natives only the prelude sees.
func (r *Runtime) helperBindings() []binding {
	b := r.bridge
	phases := func(a args) []phase.Phase {
		out := make([]phase.Phase, a.len())
		for i := range out {
			name := a.string(i, "phase")
			p, ok := phase.Parse(name)
			if !ok {
				r.throw(scripterr.Argument("Unknown phase %s", name))
			}
			out[i] = p
		}
		return out
	}
	return []binding{
		{name: "allow", fn: func(a args) (any, error) { return nil, b.Guard().Allow(phases(a)...) }},
		{name: "deny", fn: func(a args) (any, error) { return nil, b.Guard().Deny(phases(a)...) }},
		{name: "phase", fn: func(a args) (any, error) { return b.Guard().Current().String(), nil }},
		{name: "eppEnabled", fn: func(a args) (any, error) { return b.Guard().Enabled(), nil }},
		{name: "encodeText", fn: func(a args) (any, error) {
			return b.EncodeText(a.string(0, "text"), a.int(1, "flags"))
		}},
		{name: "opcodes", fn: func(a args) (any, error) {
			fam, ok := opcodeFamilies[a.string(0, "family")]
			if !ok {
				return nil, scripterr.Argument("Unknown opcode family %s", a.string(0, "family"))
			}
			obj := r.vm.NewObject()
			for _, op := range fam.table.Opcodes() {
				_ = obj.Set(fam.prefix+fam.table.Name(op), int(op))
			}
			return obj, nil
		}},
		{name: "setEncoding", fn: func(a args) (any, error) {
			v := a.at(0)
			if goja.IsUndefined(v) || goja.IsNull(v) {
				return nil, b.SetEncoding(nil)
			}
			obj, ok := v.(*goja.Object)
			if !ok {
				return nil, scripterr.Type("encoding must be an object")
			}
			table := make(map[string]int64)
			for _, k := range obj.Keys() {
				n, err := toInt(obj.Get(k), "encoding value")
				if err != nil {
					return nil, err
				}
				table[k] = n
			}
			return nil, b.SetEncoding(table)
		}},
	}
}
