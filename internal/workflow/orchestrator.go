package workflow

import (
	"time"

	"lon-tracker/internal/repository"
	"lon-tracker/internal/types"
)

// MaxDocumentSize is the upper bound for an attached document, in bytes.
const MaxDocumentSize = 10 * 1024 * 1024

// The orchestrator composes the access resolver, the state machine and the
// metrics engine into per-use-case decisions. Every function here is pure:
// it takes fully loaded entities plus the actor, and either returns an
// approved snapshot for the caller to persist or a typed failure. Nothing is
// mutated on failure.

// TaskDraft carries the caller-supplied fields for a new task.
type TaskDraft struct {
	Title       string
	Description *string
	AssignedTo  *string
	Status      string
	Priority    string
	StartDate   *time.Time
	EndDate     *time.Time
}

// TaskEdit carries the optional fields of a full task edit. Nil means
// "leave unchanged".
type TaskEdit struct {
	Title       *string
	Description *string
	AssignedTo  *string
	Status      *string
	Priority    *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// DocumentDraft carries the caller-supplied fields for a new task document.
type DocumentDraft struct {
	Title    string
	FileName string
	FilePath string
	FileSize int64
}

// Dashboard aggregates the derived figures for a project.
type Dashboard struct {
	Stats    TaskStats `json:"statistics"`
	Progress float64   `json:"progress"`
	Delayed  bool      `json:"delayed"`
}

// ChangeTaskStatus services the lightweight status action. The actor needs
// CanChangeStatus (manager or assignee); the requested status must be
// reachable in the transition table. On success the returned copy carries the
// new status and a refreshed UpdatedAt for the collaborator to persist.
func ChangeTaskStatus(actor *repository.User, task *repository.Task, project *repository.Project, requested string, now time.Time) (*repository.Task, error) {
	if task.ProjectID != project.ID {
		return nil, ErrInvariantViolation
	}
	if !TaskCapabilities(actor, task, project).CanChangeStatus {
		return nil, ErrNotAuthorized
	}
	if !types.IsValidTaskStatus(requested) {
		return nil, &TransitionError{From: task.Status, To: requested}
	}
	if err := AttemptTransition(task.Status, requested); err != nil {
		return nil, err
	}
	updated := *task
	updated.Status = requested
	updated.UpdatedAt = now
	return &updated, nil
}

// EditTask services the full edit form, which is manager-only. A status
// change goes through the same transition table as ChangeTaskStatus, and an
// assignee must belong to the project team.
func EditTask(actor *repository.User, task *repository.Task, project *repository.Project, edit *TaskEdit, now time.Time) (*repository.Task, error) {
	if task.ProjectID != project.ID {
		return nil, ErrInvariantViolation
	}
	if !TaskCapabilities(actor, task, project).CanEdit {
		return nil, ErrNotAuthorized
	}

	updated := *task
	if edit.Title != nil {
		updated.Title = *edit.Title
	}
	if edit.Description != nil {
		updated.Description = edit.Description
	}
	if edit.Priority != nil {
		if !types.IsValidPriority(*edit.Priority) {
			return nil, ErrInvariantViolation
		}
		updated.Priority = *edit.Priority
	}
	if edit.StartDate != nil {
		updated.StartDate = edit.StartDate
	}
	if edit.EndDate != nil {
		updated.EndDate = edit.EndDate
	}
	if err := validateDateRange(updated.StartDate, updated.EndDate); err != nil {
		return nil, err
	}
	if edit.AssignedTo != nil {
		if *edit.AssignedTo == "" {
			updated.AssignedTo = nil
		} else {
			if !isTeamMember(*edit.AssignedTo, project) {
				return nil, ErrInvariantViolation
			}
			updated.AssignedTo = edit.AssignedTo
		}
	}
	if edit.Status != nil {
		if !types.IsValidTaskStatus(*edit.Status) {
			return nil, &TransitionError{From: task.Status, To: *edit.Status}
		}
		if err := AttemptTransition(task.Status, *edit.Status); err != nil {
			return nil, err
		}
		updated.Status = *edit.Status
	}

	updated.UpdatedAt = now
	return &updated, nil
}

// NewTask services task creation. The actor must manage at least one project
// (managedCount) and the chosen project must be one they manage or belong to.
func NewTask(actor *repository.User, project *repository.Project, draft *TaskDraft, managedCount int, now time.Time) (*repository.Task, error) {
	if !CanCreateTasks(managedCount) {
		return nil, ErrNotAuthorized
	}
	if !CanUseProjectForTask(actor, project) {
		return nil, ErrNotAuthorized
	}
	if draft.Title == "" {
		return nil, ErrInvariantViolation
	}
	if err := validateDateRange(draft.StartDate, draft.EndDate); err != nil {
		return nil, err
	}

	status := draft.Status
	if status == "" {
		status = types.StatusTodo
	}
	if !types.IsValidTaskStatus(status) {
		return nil, ErrInvariantViolation
	}
	priority := draft.Priority
	if priority == "" {
		priority = types.PriorityMedium
	}
	if !types.IsValidPriority(priority) {
		return nil, ErrInvariantViolation
	}

	task := &repository.Task{
		ProjectID:   project.ID,
		CreatedBy:   &actor.ID,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      status,
		Priority:    priority,
		StartDate:   draft.StartDate,
		EndDate:     draft.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if draft.AssignedTo != nil && *draft.AssignedTo != "" {
		if !isTeamMember(*draft.AssignedTo, project) {
			return nil, ErrInvariantViolation
		}
		task.AssignedTo = draft.AssignedTo
	}
	return task, nil
}

// AttachDocument services adding a document to a task. Managers and team
// members may attach; the file must not exceed MaxDocumentSize.
func AttachDocument(actor *repository.User, task *repository.Task, project *repository.Project, draft *DocumentDraft, now time.Time) (*repository.TaskDocument, error) {
	if task.ProjectID != project.ID {
		return nil, ErrInvariantViolation
	}
	if !TaskCapabilities(actor, task, project).CanAddDocument {
		return nil, ErrNotAuthorized
	}
	if draft.Title == "" || draft.FileName == "" {
		return nil, ErrInvariantViolation
	}
	if draft.FileSize > MaxDocumentSize {
		return nil, ErrPayloadTooLarge
	}
	return &repository.TaskDocument{
		TaskID:     task.ID,
		Title:      draft.Title,
		FileName:   draft.FileName,
		FilePath:   draft.FilePath,
		FileSize:   draft.FileSize,
		UploadedBy: &actor.ID,
		UploadedAt: now,
	}, nil
}

// RemoveDocument authorizes deleting a task document.
func RemoveDocument(actor *repository.User, doc *repository.TaskDocument, project *repository.Project) error {
	if !CanDeleteDocument(actor, doc, project) {
		return ErrNotAuthorized
	}
	return nil
}

// LogTime services the assignee-only time accounting action, accumulating
// hours onto the task.
func LogTime(actor *repository.User, task *repository.Task, hours float64, now time.Time) (*repository.Task, error) {
	if task.AssignedTo == nil || *task.AssignedTo != actor.ID {
		return nil, ErrNotAuthorized
	}
	if hours <= 0 {
		return nil, ErrInvariantViolation
	}
	updated := *task
	updated.TimeSpent += hours
	updated.UpdatedAt = now
	return &updated, nil
}

// VisibleTasks filters tasks down to those the actor may view: tasks
// assigned to them plus tasks of projects they manage or belong to.
// Projects are keyed by id; tasks whose project is absent are dropped.
func VisibleTasks(actor *repository.User, tasks []*repository.Task, projects map[string]*repository.Project) []*repository.Task {
	var visible []*repository.Task
	for _, t := range tasks {
		project, ok := projects[t.ProjectID]
		if !ok {
			continue
		}
		if TaskCapabilities(actor, t, project).CanView {
			visible = append(visible, t)
		}
	}
	return visible
}

// KanbanBoard groups the actor's visible tasks by status.
func KanbanBoard(actor *repository.User, tasks []*repository.Task, projects map[string]*repository.Project) map[string][]*repository.Task {
	board := map[string][]*repository.Task{
		types.StatusTodo:       {},
		types.StatusInProgress: {},
		types.StatusReview:     {},
		types.StatusDone:       {},
	}
	for _, t := range VisibleTasks(actor, tasks, projects) {
		board[t.Status] = append(board[t.Status], t)
	}
	return board
}

// ProjectDashboard derives the aggregate figures for a project from its
// loaded task set.
func ProjectDashboard(tasks []*repository.Task, now time.Time) Dashboard {
	return Dashboard{
		Stats:    TaskStatistics(tasks),
		Progress: Progress(tasks),
		Delayed:  IsDelayed(tasks, now),
	}
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && dateOf(*start).After(dateOf(*end)) {
		return ErrInvalidDateRange
	}
	return nil
}
