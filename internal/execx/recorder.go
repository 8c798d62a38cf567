package execx

import (
	"context"
	"sync"
)

// Recorder is a Runner for tests. It records every Spec it receives and
// answers from a table of stubbed results instead of spawning processes.
type Recorder struct {
	mu      sync.Mutex
	calls   []Spec
	stubs   map[string]stub
	Default Result
}

type stub struct {
	result Result
	err    error
}

// NewRecorder returns a Recorder whose unstubbed commands succeed with an
// empty, zero-exit Result.
func NewRecorder() *Recorder {
	return &Recorder{stubs: make(map[string]stub)}
}

// Stub registers the result (and optional error) returned whenever the
// given command name is run.
func (r *Recorder) Stub(command string, result Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stubs[command] = stub{result: result, err: err}
}

// Run implements Runner.
func (r *Recorder) Run(ctx context.Context, spec Spec) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, spec)

	if s, ok := r.stubs[spec.Command]; ok {
		res := s.result
		return &res, s.err
	}
	res := r.Default
	return &res, nil
}

// Calls returns a copy of all recorded invocations in order.
func (r *Recorder) Calls() []Spec {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Spec, len(r.calls))
	copy(out, r.calls)
	return out
}

// Commands returns just the command names of all recorded invocations.
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Command
	}
	return out
}
