package phase

import "github.com/roach88/ida/internal/scripterr"

// Guard records the current phase and evaluates phase policies.
//
// Guard is not safe for concurrent use. The bridge runs every hook and every
// script call on the simulation's logic thread.
type Guard struct {
	current  Phase
	enabled  bool
	testMode bool
}

// NewGuard creates an enabled guard in phase None.
func NewGuard() *Guard {
	return &Guard{current: None, enabled: true}
}

// Set makes p the current phase.
func (g *Guard) Set(p Phase) {
	g.current = p
}

// Current returns the current phase.
func (g *Guard) Current() Phase {
	return g.current
}

// SetEnabled turns policy enforcement on or off.
func (g *Guard) SetEnabled(enabled bool) {
	g.enabled = enabled
}

// Enabled reports whether policies are enforced.
func (g *Guard) Enabled() bool {
	return g.enabled
}

// SetTestMode turns test mode on or off.
func (g *Guard) SetTestMode(on bool) {
	g.testMode = on
}

// TestMode reports whether test-only operations are permitted.
func (g *Guard) TestMode() bool {
	return g.testMode
}

// Allow returns nil when the guard is disabled or the current phase is in ps.
func (g *Guard) Allow(ps ...Phase) error {
	if !g.enabled || contains(ps, g.current) {
		return nil
	}
	return violation(ps)
}

// Deny returns nil when the guard is disabled or the current phase is not in ps.
// The error lists the phases where the call would be legal.
func (g *Guard) Deny(ps ...Phase) error {
	if !g.enabled || !contains(ps, g.current) {
		return nil
	}
	return violation(Except(ps))
}

// TestOnly returns nil when test mode is on.
func (g *Guard) TestOnly() error {
	if g.testMode {
		return nil
	}
	return scripterr.Policy("Execution of this function is only allowed in test mode.")
}

// Check evaluates a declared policy.
func (g *Guard) Check(p Policy) error {
	switch p.Mode {
	case ModeAllow:
		return g.Allow(p.Phases...)
	case ModeDeny:
		return g.Deny(p.Phases...)
	case ModeTest:
		return g.TestOnly()
	default:
		return nil
	}
}

func violation(allowed []Phase) error {
	return scripterr.Policy("Execution of this function is only allowed in the following phases: " + Names(allowed))
}
