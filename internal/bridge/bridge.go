// Package bridge is the facade the host simulation drives.
//
// The host calls the lifecycle hooks (Run, BeforeLoadScene, AfterLoadScene,
// DoBeforeLife, DoTrack, ...) at fixed points of its frame loop. The bridge
// moves the phase guard, calls into the script runtime, and serves the
// script-facing operations that flow through the bytecode assembler into the
// host interpreter.
//
// INVARIANTS:
//   - At most one Bridge is live per process.
//   - Only the bridge changes the guard's phase.
//   - Every hook except BeforeLoadScene's handler reset is a no-op while no
//     script is active (never run, failed to run, or halted).
//   - Object flags and life handlers are cleared before every scene load.
package bridge

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/roach88/ida/internal/bytecode"
	"github.com/roach88/ida/internal/continuation"
	"github.com/roach88/ida/internal/dialog"
	"github.com/roach88/ida/internal/entity"
	"github.com/roach88/ida/internal/handle"
	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/phase"
	"github.com/roach88/ida/internal/trace"
)

// ErrAlreadyInitialized is returned by New while another Bridge is live.
var ErrAlreadyInitialized = errors.New("Only one instance of the bridge is allowed")

var (
	instanceMu   sync.Mutex
	instanceLive bool
)

// MinFirstTextID is the lowest id mods may use for their own texts. Id 1000
// marks Escape in dialog choices.
const MinFirstTextID = 1001

// Config carries the per-mod settings the bridge needs.
type Config struct {
	// ModDir is the mod root. Empty means no mod is installed.
	ModDir string

	// Entry is the entry script path relative to ModDir.
	Entry string

	// FirstTextID is the first text id free for mod texts.
	FirstTextID int

	// FirstImageID is the first image id free for mod images.
	FirstImageID int

	TextLanguage  string
	VoiceLanguage string

	TestMode   bool
	EppEnabled bool
	LogLevel   LogLevel

	// HotReload asks the host to rerun the mod when its files change.
	HotReload bool
}

// DefaultConfig returns the settings used when the mod declares none.
func DefaultConfig() Config {
	return Config{
		Entry:         "index.js",
		FirstTextID:   MinFirstTextID,
		FirstImageID:  39,
		TextLanguage:  "en",
		VoiceLanguage: "en",
		EppEnabled:    true,
		LogLevel:      LogInfo,
	}
}

// Fields returns the settings as a plain map for trace storage. ModDir is
// left out so sessions recorded on different machines compare equal.
func (c Config) Fields() map[string]any {
	return map[string]any{
		"entry":         filepath.ToSlash(c.Entry),
		"firstTextId":   c.FirstTextID,
		"firstImageId":  c.FirstImageID,
		"textLanguage":  c.TextLanguage,
		"voiceLanguage": c.VoiceLanguage,
		"testMode":      c.TestMode,
		"eppEnabled":    c.EppEnabled,
		"logLevel":      int(c.LogLevel),
		"hotReload":     c.HotReload,
	}
}

// Bridge connects one host simulation with one script runtime.
//
// Bridge is not safe for concurrent use. Every hook and every script call
// runs on the simulation's logic thread.
type Bridge struct {
	host    host.Host
	config  Config
	guard   *phase.Guard
	moves   *continuation.Store
	flags   *entity.Flags
	surface *entity.Surface
	runtime Runtime

	lifeHandlers map[int]handle.Ref
	moveHandler  handle.Ref

	overrides Overrides
	active    bool
	loop      host.LoopType

	lifeCode []byte
	textBuf  []byte
	media    media

	hotReload bool
	encoder   *dialog.Encoder

	logger   *slog.Logger
	level    *slog.LevelVar
	logLevel LogLevel
	recorder trace.Recorder
	clock    *trace.Clock
	closed   bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithConfig sets the mod settings.
func WithConfig(c Config) Option {
	return func(b *Bridge) {
		b.config = c
	}
}

// WithLogger sets the logger used for script diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = l
	}
}

// WithLevelVar lets the script's log level drive the handler behind the
// logger.
func WithLevelVar(lv *slog.LevelVar) Option {
	return func(b *Bridge) {
		b.level = lv
	}
}

// WithRecorder sets the trace recorder.
func WithRecorder(r trace.Recorder) Option {
	return func(b *Bridge) {
		b.recorder = r
	}
}

// WithClock sets the clock that stamps trace events.
func WithClock(c *trace.Clock) Option {
	return func(b *Bridge) {
		b.clock = c
	}
}

// New creates the process-wide bridge for h.
func New(h host.Host, opts ...Option) (*Bridge, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instanceLive {
		return nil, ErrAlreadyInitialized
	}

	b := &Bridge{
		host:         h,
		config:       DefaultConfig(),
		guard:        phase.NewGuard(),
		lifeHandlers: make(map[int]handle.Ref),
		overrides:    defaultOverrides(),
		logger:       slog.Default(),
		clock:        trace.NewClock(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.config.FirstTextID < MinFirstTextID {
		b.config.FirstTextID = MinFirstTextID
	}
	if b.config.Entry == "" {
		b.config.Entry = "index.js"
	}

	b.guard.SetTestMode(b.config.TestMode)
	b.guard.SetEnabled(b.config.EppEnabled)
	b.moves = continuation.New(continuation.WithLogger(b.logger))
	b.flags = entity.NewFlags(h.Objects().Max())
	b.surface = entity.New(h, b.guard, b.flags,
		entity.WithLogger(b.logger),
		entity.WithLifeHandlers(b),
	)
	b.applyLogLevel(b.config.LogLevel)
	b.hotReload = b.config.HotReload
	b.encoder = dialog.NewEncoder()

	instanceLive = true
	return b, nil
}

// Attach connects the script runtime. It must be called before Run.
func (b *Bridge) Attach(rt Runtime) {
	b.runtime = rt
}

// Close releases handler references, closes the runtime and frees the
// process-wide slot. Close is idempotent.
func (b *Bridge) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.active = false

	var err error
	if b.runtime != nil {
		b.clearHandlers()
		b.releaseMoveHandler()
		err = b.runtime.Close()
	}

	instanceMu.Lock()
	instanceLive = false
	instanceMu.Unlock()
	return err
}

// Host returns the host simulation.
func (b *Bridge) Host() host.Host { return b.host }

// Config returns the effective settings.
func (b *Bridge) Config() Config { return b.config }

// Guard returns the phase guard.
func (b *Bridge) Guard() *phase.Guard { return b.guard }

// Surface returns the entity accessor surface.
func (b *Bridge) Surface() *entity.Surface { return b.surface }

// Moves returns the move continuation store.
func (b *Bridge) Moves() *continuation.Store { return b.moves }

// Flags returns the per-object bridge flags.
func (b *Bridge) Flags() *entity.Flags { return b.flags }

// Logger returns the bridge logger.
func (b *Bridge) Logger() *slog.Logger { return b.logger }

// Active reports whether a script is running.
func (b *Bridge) Active() bool { return b.active }

// Loop returns the loop type last passed to ProcessTasks.
func (b *Bridge) Loop() host.LoopType { return b.loop }

// Overrides returns the forced scene-load overrides.
func (b *Bridge) Overrides() Overrides { return b.overrides }

// SetLifeHandler implements entity.LifeHandlers. A previous handler for the
// object is released.
func (b *Bridge) SetLifeHandler(object int, ref handle.Ref) {
	if old, ok := b.lifeHandlers[object]; ok {
		b.release(old)
		delete(b.lifeHandlers, object)
	}
	if !ref.IsNil() {
		b.lifeHandlers[object] = ref
	}
}

// LifeHandler returns the handler attached to object.
func (b *Bridge) LifeHandler(object int) (handle.Ref, bool) {
	ref, ok := b.lifeHandlers[object]
	return ref, ok
}

// MoveHandler returns the global move handler.
func (b *Bridge) MoveHandler() handle.Ref { return b.moveHandler }

func (b *Bridge) clearHandlers() {
	for _, ref := range b.lifeHandlers {
		b.release(ref)
	}
	clear(b.lifeHandlers)
	b.flags.Reset()
}

func (b *Bridge) releaseMoveHandler() {
	if !b.moveHandler.IsNil() {
		b.release(b.moveHandler)
		b.moveHandler = handle.Nil
	}
}

func (b *Bridge) release(ref handle.Ref) {
	if b.runtime != nil && !ref.IsNil() {
		b.runtime.Release(ref)
	}
}

func (b *Bridge) limits() bytecode.Limits {
	return bytecode.Limits{MaxImageID: int64(b.config.FirstImageID)}
}

// record stamps ev and hands it to the recorder. Recorder failures are
// logged and otherwise ignored.
func (b *Bridge) record(ev trace.Event) {
	if b.recorder == nil {
		return
	}
	ev.Seq = b.clock.Next()
	ev.Phase = b.guard.Current().String()
	if err := b.recorder.Record(ev); err != nil {
		b.logger.Warn("failed to record trace event", "kind", ev.Kind, "error", err)
	}
}

func (b *Bridge) hook(name string, attrs map[string]any) {
	b.record(trace.Event{Kind: trace.KindHook, Name: name, Object: -1, Attrs: attrs})
}
