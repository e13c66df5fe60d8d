package testsupport

import (
	"context"
	"slices"
	"sync"
)

// Call records one invocation seen by a StubRunner.
type Call struct {
	Name string
	Args []string
}

// StubRunner satisfies command.Runner without executing anything. Output and
// errors are looked up by binary name.
type StubRunner struct {
	mu     sync.Mutex
	calls  []Call
	Output map[string][]byte
	Errors map[string]error
}

// Run records the call and returns the canned response for name.
func (r *StubRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Name: name, Args: slices.Clone(args)})
	return r.Output[name], r.Errors[name]
}

// Calls returns a snapshot of the recorded invocations.
func (r *StubRunner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// CallsTo returns the recorded invocations of one binary.
func (r *StubRunner) CallsTo(name string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}
