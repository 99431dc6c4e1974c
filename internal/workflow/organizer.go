package workflow

import "context"

// Step is one unit of work in an organized chain. A step reads and mutates
// the shared run, either attaching results or marking the run failed. Steps
// that fail must leave valid partial state behind (for example a built but
// unsaved record) so the caller can inspect it.
type Step func(ctx context.Context, run *Run)

// Run is the shared mutable context threaded through a chain of steps.
// It carries a success flag, a human-readable failure message and named
// values attached by steps.
type Run struct {
	values  map[string]any
	failed  bool
	message string
}

// NewRun creates an empty run.
func NewRun() *Run {
	return &Run{values: make(map[string]any)}
}

// Fail marks the run failed with the given message. The message may be
// empty when the attached record's validation errors tell the story.
func (r *Run) Fail(message string) {
	r.failed = true
	r.message = message
}

// Failed reports whether a step aborted the run.
func (r *Run) Failed() bool {
	return r.failed
}

// Success reports whether every executed step completed.
func (r *Run) Success() bool {
	return !r.failed
}

// Message returns the failure message, empty on success.
func (r *Run) Message() string {
	return r.message
}

// Set attaches a named value to the run.
func (r *Run) Set(key string, value any) {
	r.values[key] = value
}

// Get returns a named value.
func (r *Run) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Organizer is an ordered sequence of steps sharing one run.
type Organizer struct {
	name  string
	steps []Step
}

// Organize composes steps into a named organizer.
func Organize(name string, steps ...Step) Organizer {
	return Organizer{name: name, steps: steps}
}

// Name returns the organizer's name.
func (o Organizer) Name() string {
	return o.name
}

// Call runs the steps in order, short-circuiting on the first failure.
// Steps that already ran are not rolled back; callers needing atomicity
// across persistence steps must bring their own transaction.
func (o Organizer) Call(ctx context.Context, run *Run) *Run {
	for _, step := range o.steps {
		step(ctx, run)
		if run.Failed() {
			break
		}
	}
	return run
}
