package harness

import (
	"github.com/roach88/ida/internal/host"
	"github.com/roach88/ida/internal/trace"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step and assertion succeeded.
	Pass bool `json:"pass"`

	// Session is the session id the trace was recorded under.
	Session string `json:"session"`

	// Trace holds the recorded events in seq order.
	Trace []trace.Event `json:"trace"`

	// Errors contains step and assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Logs is the captured log output.
	Logs string `json:"logs,omitempty"`

	// Calls are the host interactions in order.
	Calls []host.Call `json:"calls,omitempty"`

	// Host is the in-memory host after the last step.
	Host *host.Memory `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []trace.Event{},
		Errors: []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
