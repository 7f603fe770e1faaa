package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dop251/goja"

	"github.com/roach88/ida/internal/scripterr"
)

// modules is a CommonJS loader confined to the mod directory.
type modules struct {
	r     *Runtime
	root  string
	cache map[string]*goja.Object
}

func newModules(r *Runtime, root string) *modules {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}
	return &modules{r: r, root: abs, cache: make(map[string]*goja.Object)}
}

// resolve maps a require specifier to a file. Relative specifiers resolve
// against dir, everything else against the mod root.
func (m *modules) resolve(dir, spec string) (string, error) {
	base := spec
	switch {
	case filepath.IsAbs(spec):
	case strings.HasPrefix(spec, "./"), strings.HasPrefix(spec, "../"):
		base = filepath.Join(dir, spec)
	default:
		base = filepath.Join(m.root, spec)
	}
	base = filepath.Clean(base)
	if !m.inside(base) {
		return "", scripterr.Reference("Cannot require %s: the module is outside the mod directory", spec)
	}

	for _, p := range []string{base, base + ".js", base + ".json", filepath.Join(base, "index.js")} {
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", scripterr.Reference("Cannot find module '%s'", spec)
}

func (m *modules) inside(p string) bool {
	rel, err := filepath.Rel(m.root, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// load evaluates the module at path once and returns its exports.
func (m *modules) load(path string) (goja.Value, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if mod, ok := m.cache[abs]; ok {
		return mod.Get("exports"), nil
	}
	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read module: %w", err)
	}

	vm := m.r.vm
	module := vm.NewObject()
	exports := vm.NewObject()
	_ = module.Set("exports", exports)
	_ = module.Set("id", abs)

	if strings.EqualFold(filepath.Ext(abs), ".json") {
		parse, _ := goja.AssertFunction(vm.Get("JSON").(*goja.Object).Get("parse"))
		v, err := parse(goja.Undefined(), vm.ToValue(string(src)))
		if err != nil {
			return nil, err
		}
		_ = module.Set("exports", v)
		m.cache[abs] = module
		return v, nil
	}

	wrapped := "(function (exports, require, module, __filename, __dirname) {" + string(src) + "\n})"
	prg, err := goja.Compile(abs, wrapped, false)
	if err != nil {
		return nil, err
	}
	fnv, err := vm.RunProgram(prg)
	if err != nil {
		return nil, err
	}
	fn, ok := goja.AssertFunction(fnv)
	if !ok {
		return nil, fmt.Errorf("module %s did not compile to a function", abs)
	}

	m.cache[abs] = module
	dir := filepath.Dir(abs)
	_, err = fn(exports, exports, m.requireFunc(dir), module, vm.ToValue(abs), vm.ToValue(dir))
	if err != nil {
		delete(m.cache, abs)
		return nil, err
	}
	return module.Get("exports"), nil
}

// requireFunc returns the require function handed to modules in dir.
func (m *modules) requireFunc(dir string) goja.Value {
	return m.r.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		a := args{r: m.r, call: call}
		spec := a.string(0, "module")
		path, err := m.resolve(dir, spec)
		if err != nil {
			m.r.throw(err)
		}
		v, err := m.load(path)
		if err != nil {
			var ex *goja.Exception
			if errors.As(err, &ex) {
				panic(ex)
			}
			m.r.throw(err)
		}
		return v
	})
}

func (r *Runtime) installRequire() {
	_ = r.vm.Set("require", r.modules.requireFunc(r.modules.root))
}
