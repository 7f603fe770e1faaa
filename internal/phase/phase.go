// Package phase implements the execution phase guard.
//
// The bridge moves through a fixed set of lifecycle phases while the host
// loads scenes, restores saved games and ticks objects. Every operation that
// script code can reach declares the phases in which it is legal; the Guard
// evaluates those declarations against the single current phase.
//
// INVARIANTS:
//   - Exactly one phase is current at any instant.
//   - Only the bridge facade changes the phase.
//   - A disabled guard permits every Allow and Deny check.
//   - Test-only checks depend on the test mode flag alone.
package phase

import "strings"

// Phase is a discrete lifecycle stage.
type Phase uint8

const (
	// None is the phase outside any scene lifecycle hook (mod start-up, between hooks).
	None Phase = iota
	// BeforeSceneLoad is active while beforeLoadScene subscribers run.
	BeforeSceneLoad
	// SceneLoad is active while afterLoadScene subscribers run; entity shape may change.
	SceneLoad
	// GameLoad is active while afterLoadSavedState subscribers run.
	GameLoad
	// InScene is the steady state while the scene is simulated.
	InScene
	// Life is active while a per-object life handler runs.
	Life
	// Move is active while the move handler runs.
	Move
)

// All lists every phase in order.
var All = []Phase{None, BeforeSceneLoad, SceneLoad, GameLoad, InScene, Life, Move}

var names = [...]string{
	None:            "None",
	BeforeSceneLoad: "BeforeLoadScene",
	SceneLoad:       "AfterLoadScene",
	GameLoad:        "AfterLoadSavedState",
	InScene:         "InScene",
	Life:            "LifeScript",
	Move:            "MoveScript",
}

// String returns the display name used in script errors and traces.
func (p Phase) String() string {
	if int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}

// Valid reports whether p is one of the declared phases.
func (p Phase) Valid() bool {
	return int(p) < len(names)
}

// Parse returns the phase with the given display name or Go identifier.
func Parse(s string) (Phase, bool) {
	for _, p := range All {
		if strings.EqualFold(s, p.String()) {
			return p, true
		}
	}
	goNames := map[string]Phase{
		"none": None, "beforesceneload": BeforeSceneLoad, "sceneload": SceneLoad,
		"gameload": GameLoad, "inscene": InScene, "life": Life, "move": Move,
	}
	p, ok := goNames[strings.ToLower(s)]
	return p, ok
}

// Names joins the display names of ps with ", ".
func Names(ps []Phase) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// Except returns every phase not in ps, in declaration order.
func Except(ps []Phase) []Phase {
	out := make([]Phase, 0, len(All))
	for _, p := range All {
		if !contains(ps, p) {
			out = append(out, p)
		}
	}
	return out
}

func contains(ps []Phase, p Phase) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}
