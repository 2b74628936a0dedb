package workflow

import (
	"fmt"
	"strings"
	"time"

	"lon-tracker/internal/repository"
	"lon-tracker/internal/types"
)

// DelayStatus renders a human-readable late/remaining message for an open
// task, or "" for done tasks and tasks without an end date. The numeric
// computation lives in TimeDifference; this only formats.
func DelayStatus(task *repository.Task, now time.Time) string {
	if task.Status == types.StatusDone {
		return ""
	}
	delta, ok := TimeDifference(task, now)
	if !ok {
		return ""
	}
	if delta.IsLate {
		return strings.TrimSpace("Late by " + formatDelta(delta))
	}
	return strings.TrimSpace(formatDelta(delta) + " left")
}

// CompletionStatus renders the completion summary for a done task, or "" for
// tasks that are not done.
func CompletionStatus(task *repository.Task, now time.Time) string {
	if task.Status != types.StatusDone {
		return ""
	}
	delta, ok := TimeDifference(task, now)
	if !ok {
		return ""
	}
	completed := task.UpdatedAt.Format("02/01/2006 at 15:04")
	if delta.IsLate {
		return fmt.Sprintf("Completed on %s, %s late", completed, formatDelta(delta))
	}
	return fmt.Sprintf("Completed on %s, %s early", completed, formatDelta(delta))
}

func formatDelta(delta TimeDelta) string {
	var parts []string
	if delta.Days > 0 {
		unit := "day"
		if delta.Days > 1 {
			unit = "days"
		}
		parts = append(parts, fmt.Sprintf("%d %s", delta.Days, unit))
	}
	if delta.Hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", delta.Hours))
	}
	if delta.Minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dmin", delta.Minutes))
	}
	if len(parts) == 0 {
		return "0min"
	}
	return strings.Join(parts, " ")
}
