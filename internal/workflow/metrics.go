package workflow

import (
	"math"
	"time"

	"lon-tracker/internal/repository"
	"lon-tracker/internal/types"
)

// TaskStats holds per-status counts for a project's tasks.
type TaskStats struct {
	Total          int     `json:"total"`
	Todo           int     `json:"todo"`
	InProgress     int     `json:"inProgress"`
	Review         int     `json:"review"`
	Done           int     `json:"done"`
	CompletionRate float64 `json:"completionRate"`
}

// TimeDelta is the decomposed difference between a reference time and a task
// deadline. Days, hours and minutes are the absolute decomposition of the
// signed difference; IsLate is true when the reference is past the deadline.
type TimeDelta struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	IsLate  bool `json:"isLate"`
}

// progressWeights maps each status to its contribution to project progress.
var progressWeights = map[string]float64{
	types.StatusDone:       1.0,
	types.StatusReview:     0.75,
	types.StatusInProgress: 0.5,
	types.StatusTodo:       0.0,
}

// TaskStatistics counts tasks per status and derives the completion rate.
// An empty task list yields a rate of 0, not an error.
func TaskStatistics(tasks []*repository.Task) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case types.StatusTodo:
			stats.Todo++
		case types.StatusInProgress:
			stats.InProgress++
		case types.StatusReview:
			stats.Review++
		case types.StatusDone:
			stats.Done++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Done) / float64(stats.Total) * 100
	}
	return stats
}

// Progress computes the weighted completion percentage across tasks,
// rounded to one decimal. 0 when there are no tasks.
func Progress(tasks []*repository.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	var weighted float64
	for _, t := range tasks {
		weighted += progressWeights[t.Status]
	}
	progress := weighted / float64(len(tasks)) * 100
	return math.Round(progress*10) / 10
}

// IsDelayed reports whether any non-done task has an end date before today.
func IsDelayed(tasks []*repository.Task, now time.Time) bool {
	for _, t := range tasks {
		if IsOverdue(t, now) {
			return true
		}
	}
	return false
}

// IsOverdue reports whether a task's end date has passed and it is not done.
// Comparison is by calendar date.
func IsOverdue(task *repository.Task, now time.Time) bool {
	if task.EndDate == nil || task.Status == types.StatusDone {
		return false
	}
	return dateOf(now).After(dateOf(*task.EndDate))
}

// DelayDays returns the number of whole days the task is past its end date,
// or 0 when it is not overdue.
func DelayDays(task *repository.Task, now time.Time) int {
	if !IsOverdue(task, now) {
		return 0
	}
	return int(dateOf(now).Sub(dateOf(*task.EndDate)).Hours() / 24)
}

// TimeDifference compares the task deadline (end date at 23:59:59) against
// the reference time: updated_at for done tasks, now otherwise. A task that
// left done returns to being measured against now. The second return value
// is false when the task has no end date.
func TimeDifference(task *repository.Task, now time.Time) (TimeDelta, bool) {
	if task.EndDate == nil {
		return TimeDelta{}, false
	}
	y, m, d := task.EndDate.Date()
	deadline := time.Date(y, m, d, 23, 59, 59, 0, task.EndDate.Location())

	ref := now
	if task.Status == types.StatusDone {
		ref = task.UpdatedAt
	}

	diff := ref.Sub(deadline)
	late := diff > 0
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / (24 * time.Hour))
	diff -= time.Duration(days) * 24 * time.Hour
	hours := int(diff / time.Hour)
	diff -= time.Duration(hours) * time.Hour
	minutes := int(diff / time.Minute)

	return TimeDelta{Days: days, Hours: hours, Minutes: minutes, IsLate: late}, true
}

// DurationDays returns the planned duration in days, inclusive of both ends,
// or nil when either date is missing.
func DurationDays(task *repository.Task) *int {
	if task.StartDate == nil || task.EndDate == nil {
		return nil
	}
	days := int(dateOf(*task.EndDate).Sub(dateOf(*task.StartDate)).Hours()/24) + 1
	return &days
}

// ProgressDays returns the number of days elapsed since the task started,
// inclusive, or nil when there is no start date.
func ProgressDays(task *repository.Task, now time.Time) *int {
	if task.StartDate == nil {
		return nil
	}
	days := int(dateOf(now).Sub(dateOf(*task.StartDate)).Hours()/24) + 1
	return &days
}

// ElapsedHours returns the hours since the task was created, to two decimals.
func ElapsedHours(task *repository.Task, now time.Time) float64 {
	hours := now.Sub(task.CreatedAt).Hours()
	return math.Round(hours*100) / 100
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
