package testutil

// DefaultSession is the id FixedSessionGenerator falls back to.
const DefaultSession = "test-session-default"

// FixedSessionGenerator returns the same session id every time.
//
// Event ids hash the session id, so a fixed one is what makes recorded
// traces byte-identical across runs.
//
// Thread-safety: FixedSessionGenerator is stateless and safe for concurrent use.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a generator for id. An empty id selects
// DefaultSession.
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = DefaultSession
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session id.
//
// Implements trace.SessionGenerator.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
