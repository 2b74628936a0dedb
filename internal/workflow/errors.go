package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthorized is returned when the actor lacks the capability an
	// operation requires. It is never downgraded to an empty result here;
	// the edge layer decides how to present it.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidDateRange is returned when a start date falls after an end date.
	ErrInvalidDateRange = errors.New("start date cannot be after end date")

	// ErrPayloadTooLarge is returned when a document exceeds MaxDocumentSize.
	ErrPayloadTooLarge = errors.New("document exceeds maximum file size")

	// ErrInvariantViolation is returned when an entity reference does not hold,
	// e.g. a task handed in with the wrong project or an assignee outside the team.
	ErrInvariantViolation = errors.New("entity invariant violation")
)

// TransitionError reports a status change that is not in the transition table.
// It carries the offending pair so callers can render "cannot go from X to Y".
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot go from %q to %q", e.From, e.To)
}

// IsTransitionError reports whether err wraps a TransitionError.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}
