package types

// Task status values
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
)

// Task priority values
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Project status values
const (
	ProjectNew        = "NEW"
	ProjectSigned     = "SIGNED"
	ProjectInProgress = "IN_PROGRESS"
	ProjectPaid       = "PAID"
	ProjectLost       = "LOST"
)

// Valid values for validation
var ValidTaskStatuses = []string{
	StatusTodo, StatusInProgress, StatusReview, StatusDone,
}

var ValidPriorities = []string{
	PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent,
}

var ValidProjectStatuses = []string{
	ProjectNew, ProjectSigned, ProjectInProgress, ProjectPaid, ProjectLost,
}

// Helper functions for validation
func IsValidTaskStatus(status string) bool {
	for _, s := range ValidTaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidPriority(priority string) bool {
	for _, p := range ValidPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

func IsValidProjectStatus(status string) bool {
	for _, s := range ValidProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}
