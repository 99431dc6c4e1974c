package workflow

import (
	"context"
	"testing"
)

func TestOrganizerShortCircuits(t *testing.T) {
	var order []string
	record := func(name string, fail bool) Step {
		return func(ctx context.Context, run *Run) {
			order = append(order, name)
			if fail {
				run.Fail(name + " failed")
			}
		}
	}

	run := Organize("test",
		record("first", false),
		record("second", true),
		record("third", false),
	).Call(context.Background(), NewRun())

	if run.Success() {
		t.Fatal("expected failure")
	}
	if run.Message() != "second failed" {
		t.Errorf("message = %q", run.Message())
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("executed steps = %v, want first two only", order)
	}
}

func TestOrganizerRunsAllStepsOnSuccess(t *testing.T) {
	count := 0
	step := func(ctx context.Context, run *Run) { count++ }

	run := Organize("test", step, step, step).Call(context.Background(), NewRun())

	if !run.Success() {
		t.Fatal("expected success")
	}
	if count != 3 {
		t.Errorf("executed %d steps, want 3", count)
	}
}

func TestRunValues(t *testing.T) {
	run := NewRun()
	run.Set("answer", 42)
	v, ok := run.Get("answer")
	if !ok || v.(int) != 42 {
		t.Errorf("Get = %v, %v", v, ok)
	}
	if _, ok := run.Get("missing"); ok {
		t.Error("unexpected value for missing key")
	}
	if run.Ticket() != nil || run.Comment() != nil {
		t.Error("typed accessors should be nil on an empty run")
	}
}
