package workflow

import (
	"testing"
	"time"

	"lon-tracker/internal/repository"
	"lon-tracker/internal/types"
)

func taskWithStatus(status string) *repository.Task {
	return &repository.Task{Status: status}
}

func TestTaskStatistics(t *testing.T) {
	tasks := []*repository.Task{
		taskWithStatus(types.StatusDone),
		taskWithStatus(types.StatusDone),
		taskWithStatus(types.StatusReview),
		taskWithStatus(types.StatusTodo),
	}

	stats := TaskStatistics(tasks)
	if stats.Total != 4 || stats.Done != 2 || stats.Review != 1 || stats.Todo != 1 {
		t.Errorf("TaskStatistics counts = %+v", stats)
	}
	if stats.CompletionRate != 50.0 {
		t.Errorf("CompletionRate = %v, want 50.0", stats.CompletionRate)
	}
}

func TestTaskStatisticsEmpty(t *testing.T) {
	stats := TaskStatistics(nil)
	if stats.Total != 0 || stats.CompletionRate != 0 {
		t.Errorf("TaskStatistics(nil) = %+v, want zeros", stats)
	}
}

func TestProgress(t *testing.T) {
	cases := []struct {
		name     string
		statuses []string
		want     float64
	}{
		{"mixed", []string{types.StatusDone, types.StatusDone, types.StatusReview, types.StatusTodo}, 68.8},
		{"all done", []string{types.StatusDone, types.StatusDone}, 100},
		{"all todo", []string{types.StatusTodo}, 0},
		{"half", []string{types.StatusInProgress}, 50},
		{"empty", nil, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var tasks []*repository.Task
			for _, s := range c.statuses {
				tasks = append(tasks, taskWithStatus(s))
			}
			if got := Progress(tasks); got != c.want {
				t.Errorf("Progress = %v, want %v", got, c.want)
			}
		})
	}
}

func TestIsOverdueByCalendarDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	yesterday := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		task *repository.Task
		want bool
	}{
		{"ends today, late evening", &repository.Task{Status: types.StatusTodo, EndDate: &today}, false},
		{"ended yesterday", &repository.Task{Status: types.StatusTodo, EndDate: &yesterday}, true},
		{"ended yesterday but done", &repository.Task{Status: types.StatusDone, EndDate: &yesterday}, false},
		{"no end date", &repository.Task{Status: types.StatusTodo}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsOverdue(c.task, now); got != c.want {
				t.Errorf("IsOverdue = %v, want %v", got, c.want)
			}
		})
	}
}

func TestDelayDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	task := &repository.Task{Status: types.StatusInProgress, EndDate: &end}
	if got := DelayDays(task, now); got != 3 {
		t.Errorf("DelayDays = %d, want 3", got)
	}

	done := &repository.Task{Status: types.StatusDone, EndDate: &end}
	if got := DelayDays(done, now); got != 0 {
		t.Errorf("DelayDays of done task = %d, want 0", got)
	}
}

func TestTimeDifferenceOpenTask(t *testing.T) {
	// Deadline is yesterday 23:59:59; measured at 10:00 today the task is
	// 10 hours late.
	end := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 9, 59, 59, 0, time.UTC)
	task := &repository.Task{Status: types.StatusInProgress, EndDate: &end}

	delta, ok := TimeDifference(task, now)
	if !ok {
		t.Fatal("TimeDifference returned ok=false")
	}
	if !delta.IsLate {
		t.Error("IsLate = false, want true")
	}
	if delta.Days != 0 || delta.Hours != 10 || delta.Minutes != 0 {
		t.Errorf("delta = %+v, want 0d 10h 0min", delta)
	}
}

func TestTimeDifferenceDoneUsesUpdatedAt(t *testing.T) {
	end := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	completed := time.Date(2026, 3, 8, 11, 59, 59, 0, time.UTC)
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	task := &repository.Task{Status: types.StatusDone, EndDate: &end, UpdatedAt: completed}

	delta, ok := TimeDifference(task, now)
	if !ok {
		t.Fatal("TimeDifference returned ok=false")
	}
	if delta.IsLate {
		t.Error("IsLate = true, want false (finished before deadline)")
	}
	if delta.Days != 1 || delta.Hours != 12 || delta.Minutes != 0 {
		t.Errorf("delta = %+v, want 1d 12h 0min", delta)
	}
}

func TestTimeDifferenceNoEndDate(t *testing.T) {
	task := &repository.Task{Status: types.StatusTodo}
	if _, ok := TimeDifference(task, time.Now()); ok {
		t.Error("TimeDifference without end date: ok = true, want false")
	}
}

func TestDurationDaysInclusive(t *testing.T) {
	start := time.Date(2026, 1, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 3, 8, 0, 0, 0, time.UTC)
	task := &repository.Task{StartDate: &start, EndDate: &end}

	got := DurationDays(task)
	if got == nil || *got != 3 {
		t.Errorf("DurationDays = %v, want 3", got)
	}

	sameDay := &repository.Task{StartDate: &start, EndDate: &start}
	got = DurationDays(sameDay)
	if got == nil || *got != 1 {
		t.Errorf("DurationDays same day = %v, want 1", got)
	}

	if DurationDays(&repository.Task{StartDate: &start}) != nil {
		t.Error("DurationDays without end date should be nil")
	}
}

func TestIsDelayed(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	past := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	onTrack := []*repository.Task{
		{Status: types.StatusTodo, EndDate: &future},
		{Status: types.StatusDone, EndDate: &past},
	}
	if IsDelayed(onTrack, now) {
		t.Error("IsDelayed = true for on-track project")
	}

	delayed := append(onTrack, &repository.Task{Status: types.StatusReview, EndDate: &past})
	if !IsDelayed(delayed, now) {
		t.Error("IsDelayed = false with an overdue open task")
	}
}

func TestDelayStatusFormatting(t *testing.T) {
	end := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 9, 59, 59, 0, time.UTC)
	task := &repository.Task{Status: types.StatusInProgress, EndDate: &end}

	if got := DelayStatus(task, now); got != "Late by 10h" {
		t.Errorf("DelayStatus = %q, want %q", got, "Late by 10h")
	}

	done := &repository.Task{Status: types.StatusDone, EndDate: &end}
	if got := DelayStatus(done, now); got != "" {
		t.Errorf("DelayStatus of done task = %q, want empty", got)
	}
}
