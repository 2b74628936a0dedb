package workflow

import "lon-tracker/internal/types"

// transitions is the single source of truth for permitted task status changes.
// Both the full-edit path and the dedicated change-status path validate against
// this table; there is deliberately no second copy anywhere in the codebase.
var transitions = map[string][]string{
	types.StatusTodo:       {types.StatusInProgress},
	types.StatusInProgress: {types.StatusReview, types.StatusTodo},
	types.StatusReview:     {types.StatusDone, types.StatusInProgress},
	types.StatusDone:       {types.StatusReview},
}

// AttemptTransition validates a status change request. Requesting the current
// status is a no-op success. An unlisted target fails with a *TransitionError
// carrying the offending pair.
func AttemptTransition(current, requested string) error {
	if requested == current {
		return nil
	}
	for _, allowed := range transitions[current] {
		if requested == allowed {
			return nil
		}
	}
	return &TransitionError{From: current, To: requested}
}

// AllowedTargets returns the statuses reachable from current, excluding the
// idempotent self-transition.
func AllowedTargets(current string) []string {
	targets := transitions[current]
	out := make([]string, len(targets))
	copy(out, targets)
	return out
}
