package workflow

import (
	"errors"
	"testing"

	"lon-tracker/internal/types"
)

func TestAttemptTransitionAllowed(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{types.StatusTodo, types.StatusInProgress},
		{types.StatusInProgress, types.StatusReview},
		{types.StatusInProgress, types.StatusTodo},
		{types.StatusReview, types.StatusDone},
		{types.StatusReview, types.StatusInProgress},
		{types.StatusDone, types.StatusReview},
	}
	for _, c := range cases {
		if err := AttemptTransition(c.from, c.to); err != nil {
			t.Errorf("AttemptTransition(%q, %q) = %v, want nil", c.from, c.to, err)
		}
	}
}

func TestAttemptTransitionSelfIsNoOp(t *testing.T) {
	for _, status := range types.ValidTaskStatuses {
		if err := AttemptTransition(status, status); err != nil {
			t.Errorf("AttemptTransition(%q, %q) = %v, want nil", status, status, err)
		}
	}
}

func TestAttemptTransitionRejected(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{types.StatusTodo, types.StatusReview},
		{types.StatusTodo, types.StatusDone},
		{types.StatusInProgress, types.StatusDone},
		{types.StatusReview, types.StatusTodo},
		{types.StatusDone, types.StatusTodo},
		{types.StatusDone, types.StatusInProgress},
		{types.StatusTodo, "archived"},
	}
	for _, c := range cases {
		err := AttemptTransition(c.from, c.to)
		if err == nil {
			t.Errorf("AttemptTransition(%q, %q) = nil, want error", c.from, c.to)
			continue
		}
		var te *TransitionError
		if !errors.As(err, &te) {
			t.Errorf("AttemptTransition(%q, %q) returned %T, want *TransitionError", c.from, c.to, err)
			continue
		}
		if te.From != c.from || te.To != c.to {
			t.Errorf("TransitionError carries (%q, %q), want (%q, %q)", te.From, te.To, c.from, c.to)
		}
	}
}

func TestAllowedTargets(t *testing.T) {
	targets := AllowedTargets(types.StatusInProgress)
	if len(targets) != 2 {
		t.Fatalf("AllowedTargets(in_progress) = %v, want 2 entries", targets)
	}

	// Mutating the returned slice must not affect the table.
	targets[0] = "corrupted"
	if err := AttemptTransition(types.StatusInProgress, types.StatusReview); err != nil {
		t.Errorf("transition table changed after mutating AllowedTargets result: %v", err)
	}
}
