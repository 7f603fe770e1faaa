// Package manifest loads the mod manifest, mod.cue, from a mod directory.
//
// The manifest is plain CUE. It is unified with a closed schema before it is
// decoded, so unknown fields, out-of-range ids and unsupported languages are
// reported with their source positions. A mod without a manifest runs with
// the bridge defaults.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/ida/internal/bridge"
)

// FileName is the manifest file inside a mod directory.
const FileName = "mod.cue"

// Error codes shared with the CLI.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeLoadFailed  = "E004"
	ErrCodeNotFound    = "E005"
	ErrCodeBuildFailed = "E006"
	ErrCodeInvalid     = "E201"
	ErrCodeEntry       = "E202"
)

// LoadError is a manifest problem, with the CUE position when one is known.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsLoadError reports whether err is a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

var schemaSource = `
#Manifest: close({
	name:           string & !=""
	firstTextId?:   int & >=1001 & <=65535
	firstImageId?:  int & >=0 & <=65535
	textLanguage?:  #Language
	voiceLanguage?: #Language
	testMode?:      bool
	eppEnabled?:    bool
	logLevel?:      "debug" | "info" | "warning" | "error" | "none"
	entry?:         string & =~"\\.js$"
	hotReload?:     bool
})

#Language: ` + languageDisjunction()

func languageDisjunction() string {
	quoted := make([]string, len(bridge.Languages))
	for i, l := range bridge.Languages {
		quoted[i] = strconv.Quote(l)
	}
	return strings.Join(quoted, " | ")
}

// raw mirrors the manifest fields. Pointers tell absent fields apart.
type raw struct {
	Name          string  `json:"name"`
	FirstTextID   *int    `json:"firstTextId"`
	FirstImageID  *int    `json:"firstImageId"`
	TextLanguage  *string `json:"textLanguage"`
	VoiceLanguage *string `json:"voiceLanguage"`
	TestMode      *bool   `json:"testMode"`
	EppEnabled    *bool   `json:"eppEnabled"`
	LogLevel      *string `json:"logLevel"`
	Entry         *string `json:"entry"`
	HotReload     *bool   `json:"hotReload"`
}

var logLevels = map[string]bridge.LogLevel{
	"debug":   bridge.LogDebug,
	"info":    bridge.LogInfo,
	"warning": bridge.LogWarning,
	"error":   bridge.LogError,
	"none":    bridge.LogNone,
}

// Manifest is a loaded mod.
type Manifest struct {
	// Name is the mod name. Without a manifest it is the directory name.
	Name string

	// Path is the manifest file, empty when the mod has none.
	Path string

	// Config is the bridge configuration for the mod.
	Config bridge.Config
}

// EntryPath returns the absolute path of the entry script.
func (m *Manifest) EntryPath() string {
	return filepath.Join(m.Config.ModDir, m.Config.Entry)
}

// Load reads the manifest of the mod in dir and checks that the entry script
// exists.
func Load(dir string) (*Manifest, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("resolving mod directory: %v", err)}
	}
	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("mod directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing mod directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	m := &Manifest{Name: filepath.Base(abs), Config: bridge.DefaultConfig()}
	m.Config.ModDir = abs

	path := filepath.Join(abs, FileName)
	if _, err := os.Stat(path); err == nil {
		m.Path = path
		r, err := decode(abs)
		if err != nil {
			return nil, err
		}
		m.apply(r)
	}

	if !filepath.IsLocal(m.Config.Entry) {
		return nil, &LoadError{Code: ErrCodeEntry, Message: fmt.Sprintf("entry script must stay inside the mod directory: %s", m.Config.Entry)}
	}
	if _, err := os.Stat(m.EntryPath()); err != nil {
		return nil, &LoadError{Code: ErrCodeEntry, Message: fmt.Sprintf("entry script not found: %s", m.Config.Entry)}
	}
	return m, nil
}

func decode(dir string) (*raw, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{FileName}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, convert(ErrCodeLoadFailed, inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, convert(ErrCodeBuildFailed, err)
	}

	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Manifest"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("manifest schema: %v", err)}
	}
	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, convert(ErrCodeInvalid, err)
	}

	var r raw
	if err := unified.Decode(&r); err != nil {
		return nil, convert(ErrCodeInvalid, err)
	}
	return &r, nil
}

func (m *Manifest) apply(r *raw) {
	c := &m.Config
	m.Name = r.Name
	if r.FirstTextID != nil {
		c.FirstTextID = *r.FirstTextID
	}
	if r.FirstImageID != nil {
		c.FirstImageID = *r.FirstImageID
	}
	if r.TextLanguage != nil {
		c.TextLanguage = *r.TextLanguage
	}
	if r.VoiceLanguage != nil {
		c.VoiceLanguage = *r.VoiceLanguage
	}
	if r.TestMode != nil {
		c.TestMode = *r.TestMode
	}
	if r.EppEnabled != nil {
		c.EppEnabled = *r.EppEnabled
	}
	if r.LogLevel != nil {
		c.LogLevel = logLevels[*r.LogLevel]
	}
	if r.Entry != nil {
		c.Entry = filepath.FromSlash(*r.Entry)
	}
	if r.HotReload != nil {
		c.HotReload = *r.HotReload
	}
}

// convert keeps the first CUE error and its position.
func convert(code string, err error) *LoadError {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := list[0]
	format, args := first.Msg()
	msg := fmt.Sprintf(format, args...)
	if path := first.Path(); len(path) > 0 {
		msg = fmt.Sprintf("%s: %s", strings.Join(path, "."), msg)
	}
	return &LoadError{Code: code, Message: msg, Pos: first.Position()}
}
