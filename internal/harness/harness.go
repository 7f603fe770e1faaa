package harness

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/ida/internal/bridge"
	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/manifest"
	"github.com/roach88/ida/internal/script"
	"github.com/roach88/ida/internal/testutil"
	"github.com/roach88/ida/internal/trace"
)

var loopTypes = map[string]host.LoopType{
	"":     host.LoopGame,
	"game": host.LoopGame,
	"menu": host.LoopGameMenu,
	"none": host.LoopNone,
}

// Option configures a run.
type Option func(*options)

type options struct {
	recorders []trace.Recorder
	session   string
}

// WithRecorder also streams the trace into r, for example a store recorder.
func WithRecorder(r trace.Recorder) Option {
	return func(o *options) {
		o.recorders = append(o.recorders, r)
	}
}

// WithSession overrides the scenario's session id.
func WithSession(id string) Option {
	return func(o *options) {
		o.session = id
	}
}

// SessionID returns the fixed session id of the scenario.
func (s *Scenario) SessionID() string {
	return testutil.NewFixedSessionGenerator(s.Session).Generate()
}

// runner drives one bridge through a scenario's steps.
type runner struct {
	b       *bridge.Bridge
	mem     *host.Memory
	clock   *testutil.FrameClock
	saveDir string
}

// Run executes a scenario and returns the result.
//
// Each scenario gets a fresh host, bridge and script runtime. Step failures
// stop the run and are reported in the result together with the assertion
// failures; the error return is reserved for setup problems.
func Run(ctx context.Context, s *Scenario, opts ...Option) (*Result, error) {
	o := options{session: s.SessionID()}
	for _, opt := range opts {
		opt(&o)
	}

	m, err := manifest.Load(s.ModDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load mod: %w", err)
	}
	cfg := m.Config
	if s.TestMode != nil {
		cfg.TestMode = *s.TestMode
	}

	fixture := host.DefaultFixture()
	if s.Fixture != "" {
		if fixture, err = host.LoadFixture(s.resolve(s.Fixture)); err != nil {
			return nil, err
		}
	}
	mem := host.NewMemory(fixture)

	saveDir, err := os.MkdirTemp("", "ida-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	defer os.RemoveAll(saveDir)

	var logs bytes.Buffer
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: dropTime,
	}))

	log := &trace.Log{}
	recorder := trace.Recorder(log)
	if len(o.recorders) > 0 {
		recorder = trace.Multi(append([]trace.Recorder{log}, o.recorders...)...)
	}

	b, err := bridge.New(mem,
		bridge.WithConfig(cfg),
		bridge.WithLogger(logger),
		bridge.WithLevelVar(level),
		bridge.WithRecorder(recorder),
		bridge.WithClock(trace.NewClock()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bridge: %w", err)
	}
	defer b.Close()

	clock := testutil.NewFrameClock()
	script.New(b, script.WithNow(clock.Now))

	r := &runner{b: b, mem: mem, clock: clock, saveDir: saveDir}
	result := NewResult()
	result.Session = o.session
	for i, st := range s.Steps {
		if err := r.step(ctx, st); err != nil {
			result.AddError(fmt.Sprintf("steps[%d] %s: %v", i, st.Do, err))
			break
		}
	}

	result.Trace = log.Events
	result.Logs = logs.String()
	result.Calls = mem.Calls
	result.Host = mem
	for _, msg := range EvaluateAssertions(result, s.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (r *runner) step(ctx context.Context, st Step) error {
	switch st.Do {
	case StepRun:
		err := r.b.Run(ctx)
		if st.ExpectError && err == nil {
			return fmt.Errorf("expected the entry script to fail")
		}
		if !st.ExpectError && err != nil {
			return err
		}
	case StepLoadScene:
		mode := loadModes[st.Mode]
		r.b.BeforeLoadScene(st.Scene, "", mode, false, false)
		r.mem.SetScene(st.Scene)
		r.b.AfterLoadScene(st.Scene, mode, false, false)
	case StepLoadGame:
		path := r.savePath(st.Save)
		r.b.BeforeLoadScene(st.Scene, path, 0, true, false)
		r.mem.SetScene(st.Scene)
		r.b.AfterLoadScene(st.Scene, 0, true, false)
		r.b.AfterLoadGame(st.Scene, path)
	case StepSave:
		return r.b.AfterSaveGame(r.savePath(st.Save))
	case StepSaveValidPos:
		r.b.SaveValidPos()
	case StepRestoreValidPos:
		r.b.RestoreValidPos()
	case StepLife:
		r.b.DoBeforeLife(*st.Object)
	case StepTrack:
		r.b.DoTrack(*st.Object)
	case StepTasks:
		r.b.ProcessTasks(loopTypes[st.Loop])
	case StepFrames:
		for n := 0; n < st.Count; n++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.frame(loopTypes[st.Loop])
		}
	case StepAdvance:
		r.clock.Advance(time.Duration(st.Millis) * time.Millisecond)
	}
	return nil
}

// frame runs one host frame: life then track for every handled object, then
// the script task queue.
func (r *runner) frame(loop host.LoopType) {
	r.clock.Tick()
	for i := 0; i < r.mem.Objects().Len(); i++ {
		if r.b.HandlesLife(i) {
			r.b.DoBeforeLife(i)
		}
		if r.b.HandlesMove(i) {
			r.b.DoTrack(i)
		}
	}
	r.b.ProcessTasks(loop)
}

func (r *runner) savePath(name string) string {
	return filepath.Join(r.saveDir, name)
}

// dropTime removes the timestamp so captured logs are reproducible.
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
