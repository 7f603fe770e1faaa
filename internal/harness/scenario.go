package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is one scripted run of a mod.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Mod is the mod directory, relative to the scenario file.
	Mod string `yaml:"mod"`

	// Fixture is an optional host fixture, relative to the scenario file.
	// Without one the default fixture is used.
	Fixture string `yaml:"fixture,omitempty"`

	// Session fixes the session id. Empty selects the default test session.
	Session string `yaml:"session,omitempty"`

	// TestMode overrides the manifest's testMode.
	TestMode *bool `yaml:"test_mode,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`

	// dir is the directory relative paths resolve against.
	dir string
}

// Step is one host action.
type Step struct {
	Do string `yaml:"do"`

	Scene  int    `yaml:"scene,omitempty"`
	Mode   string `yaml:"mode,omitempty"`
	Object *int   `yaml:"object,omitempty"`
	Count  int    `yaml:"count,omitempty"`
	Loop   string `yaml:"loop,omitempty"`
	Save   string `yaml:"save,omitempty"`
	Millis int    `yaml:"ms,omitempty"`

	// ExpectError accepts a failing run step.
	ExpectError bool `yaml:"expect_error,omitempty"`
}

// Step actions.
const (
	StepRun             = "run"
	StepLoadScene       = "load_scene"
	StepLoadGame        = "load_game"
	StepSave            = "save"
	StepSaveValidPos    = "save_valid_pos"
	StepRestoreValidPos = "restore_valid_pos"
	StepLife            = "life"
	StepTrack           = "track"
	StepTasks           = "tasks"
	StepFrames          = "frames"
	StepAdvance         = "advance"
)

// Assertion validates the trace, the logs or the final host state.
type Assertion struct {
	Type string `yaml:"type"`

	// Kind, Name and Object select trace events. Empty fields match any.
	Kind   string `yaml:"kind,omitempty"`
	Name   string `yaml:"name,omitempty"`
	Object *int   `yaml:"object,omitempty"`

	// Names is the expected order (used by trace_order).
	Names []string `yaml:"names,omitempty"`

	// Count is the expected number of matches (trace_count, host_calls).
	Count int `yaml:"count,omitempty"`

	// Target, Index and Field select a host value (used by final_state).
	Target string `yaml:"target,omitempty"`
	Index  int    `yaml:"index,omitempty"`
	Field  string `yaml:"field,omitempty"`
	Expect *int64 `yaml:"expect,omitempty"`

	// Text is the expected log fragment (used by log_contains).
	Text string `yaml:"text,omitempty"`

	// Op is the host call name (used by host_calls).
	Op string `yaml:"op,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertLogContains   = "log_contains"
	AssertHostCalls     = "host_calls"
)

// Load modes accepted by load_scene.
var loadModes = map[string]int{
	"":           0,
	"new_game":   0,
	"moved":      1,
	"teleported": 2,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve scenario path: %w", err)
	}
	return ParseScenario(data, filepath.Dir(abs))
}

// ParseScenario decodes a scenario whose relative paths resolve against dir.
func ParseScenario(data []byte, dir string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	scenario.dir = dir

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// ModDir returns the resolved mod directory.
func (s *Scenario) ModDir() string {
	return s.resolve(s.Mod)
}

func (s *Scenario) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.dir, filepath.FromSlash(p))
}

// validateScenario checks that all required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Mod == "" {
		return fmt.Errorf("mod is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if info, err := os.Stat(s.ModDir()); err != nil || !info.IsDir() {
		return fmt.Errorf("mod directory not found: %s", s.Mod)
	}
	if s.Fixture != "" {
		if _, err := os.Stat(s.resolve(s.Fixture)); err != nil {
			return fmt.Errorf("fixture file not found: %s", s.Fixture)
		}
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, st *Step) error {
	switch st.Do {
	case StepRun, StepSaveValidPos, StepRestoreValidPos, StepTasks:
	case StepLoadScene:
		if _, ok := loadModes[st.Mode]; !ok {
			return fmt.Errorf("steps[%d]: unknown load mode %q", index, st.Mode)
		}
	case StepLoadGame, StepSave:
		if st.Save == "" {
			return fmt.Errorf("steps[%d]: save is required for %s", index, st.Do)
		}
		if !filepath.IsLocal(st.Save) {
			return fmt.Errorf("steps[%d]: save must be a plain relative name", index)
		}
	case StepLife, StepTrack:
		if st.Object == nil {
			return fmt.Errorf("steps[%d]: object is required for %s", index, st.Do)
		}
	case StepFrames:
		if st.Count <= 0 {
			return fmt.Errorf("steps[%d]: count must be positive for frames", index)
		}
	case StepAdvance:
		if st.Millis <= 0 {
			return fmt.Errorf("steps[%d]: ms must be positive for advance", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: do is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown step %q", index, st.Do)
	}
	if st.Loop != "" {
		if _, ok := loopTypes[st.Loop]; !ok {
			return fmt.Errorf("steps[%d]: unknown loop %q", index, st.Loop)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" && a.Name == "" {
			return fmt.Errorf("assertions[%d]: kind or name is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Names) == 0 {
			return fmt.Errorf("assertions[%d]: names list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" && a.Name == "" {
			return fmt.Errorf("assertions[%d]: kind or name is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if _, ok := stateTargets[a.Target]; !ok {
			return fmt.Errorf("assertions[%d]: unknown final_state target %q", index, a.Target)
		}
		if a.Target == "object" {
			if _, ok := objectFields[a.Field]; !ok {
				return fmt.Errorf("assertions[%d]: unknown object field %q", index, a.Field)
			}
		}
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertLogContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for log_contains", index)
		}
	case AssertHostCalls:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for host_calls", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
