package phase

// Mode selects how a Policy's phase list is interpreted.
type Mode uint8

const (
	// ModeAny places no phase restriction on the operation.
	ModeAny Mode = iota
	// ModeAllow permits the operation only in the listed phases.
	ModeAllow
	// ModeDeny forbids the operation in the listed phases.
	ModeDeny
	// ModeTest permits the operation only in test mode.
	ModeTest
)

// Policy is a static phase declaration attached to an operation.
type Policy struct {
	Mode   Mode
	Phases []Phase
}

// AllowIn declares an allow-list.
func AllowIn(ps ...Phase) Policy {
	return Policy{Mode: ModeAllow, Phases: ps}
}

// DenyIn declares a deny-list.
func DenyIn(ps ...Phase) Policy {
	return Policy{Mode: ModeDeny, Phases: ps}
}

// Shared policies used across the accessor surface.
var (
	// Getter is denied until a scene context exists.
	Getter = DenyIn(None, BeforeSceneLoad)

	// Setter is the default for entity shape: only while the scene loads.
	Setter = AllowIn(SceneLoad)

	// VariableWriter lets gameplay scripts mutate counters at runtime.
	VariableWriter = AllowIn(SceneLoad, Life, Move)

	// CurrencyWriter covers the gold/zlitos writers.
	CurrencyWriter = AllowIn(SceneLoad, Life)

	// TestOnly gates the diagnostic surface.
	TestOnly = Policy{Mode: ModeTest}

	// Unrestricted places no restriction.
	Unrestricted = Policy{Mode: ModeAny}
)

// Permits reports whether the policy would pass in phase p with an enabled guard.
// Test-only policies report false.
func (p Policy) Permits(ph Phase) bool {
	switch p.Mode {
	case ModeAllow:
		return contains(p.Phases, ph)
	case ModeDeny:
		return !contains(p.Phases, ph)
	case ModeTest:
		return false
	default:
		return true
	}
}
