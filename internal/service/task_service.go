package service

import (
	"context"
	"errors"
	"log"
	"time"

	"lon-tracker/internal/config"
	"lon-tracker/internal/db"
	"lon-tracker/internal/email"
	"lon-tracker/internal/notification"
	"lon-tracker/internal/repository"
	"lon-tracker/internal/socket"
	"lon-tracker/internal/workflow"
)

// ============================================
// Task Service
// ============================================

// TaskDetail is a task plus the derived figures the detail view renders.
type TaskDetail struct {
	Task         *repository.Task    `json:"task"`
	Capabilities workflow.TaskCaps   `json:"capabilities"`
	TimeDelta    *workflow.TimeDelta `json:"timeDifference,omitempty"`
	DelayStatus  string              `json:"delayStatus,omitempty"`
	Completion   string              `json:"completionStatus,omitempty"`
	DurationDays *int                `json:"durationDays,omitempty"`
	Documents    []*repository.TaskDocument `json:"documents"`
}

type TaskService interface {
	Create(ctx context.Context, actorID, projectID string, draft *workflow.TaskDraft) (*repository.Task, error)
	GetByID(ctx context.Context, actorID, taskID string) (*TaskDetail, error)
	ListByProject(ctx context.Context, actorID, projectID string, filters *repository.TaskFilters) ([]*repository.Task, error)
	ListMine(ctx context.Context, actorID string) ([]*repository.Task, error)
	Kanban(ctx context.Context, actorID string) (map[string][]*repository.Task, error)
	Update(ctx context.Context, actorID, taskID string, edit *workflow.TaskEdit) (*repository.Task, error)
	ChangeStatus(ctx context.Context, actorID, taskID, requested string) (*repository.Task, error)
	LogTime(ctx context.Context, actorID, taskID string, hours float64) (*repository.Task, error)
	Delete(ctx context.Context, actorID, taskID string) error
	AddDocument(ctx context.Context, actorID, taskID string, draft *workflow.DocumentDraft) (*repository.TaskDocument, error)
	DeleteDocument(ctx context.Context, actorID, documentID string) error
}

type taskService struct {
	cfg         *config.Config
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	docRepo     repository.DocumentRepository
	redis       *db.RedisDB
	notifSvc    *notification.Service
	emailSvc    *email.Service
	broadcaster *socket.Broadcaster
}

func NewTaskService(
	cfg *config.Config,
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	docRepo repository.DocumentRepository,
	redis *db.RedisDB,
	notifSvc *notification.Service,
	emailSvc *email.Service,
	broadcaster *socket.Broadcaster,
) TaskService {
	return &taskService{
		cfg:         cfg,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		docRepo:     docRepo,
		redis:       redis,
		notifSvc:    notifSvc,
		emailSvc:    emailSvc,
		broadcaster: broadcaster,
	}
}

// mapWorkflowError translates core decision failures into service errors the
// handlers know how to present. Transition errors pass through so the edge can
// render the offending pair.
func mapWorkflowError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, workflow.ErrNotAuthorized):
		return ErrForbidden
	case errors.Is(err, workflow.ErrPayloadTooLarge):
		return ErrPayloadTooLarge
	case errors.Is(err, workflow.ErrInvalidDateRange), errors.Is(err, workflow.ErrInvariantViolation):
		return ErrInvalidInput
	default:
		return err
	}
}

// loadTask loads a task with its project; the caller checks capabilities.
func (s *taskService) loadTask(ctx context.Context, actorID, taskID string) (*repository.User, *repository.Task, *repository.Project, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, nil, nil, err
	}
	if actor == nil {
		return nil, nil, nil, ErrUnauthorized
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, nil, err
	}
	if task == nil {
		return nil, nil, nil, ErrNotFound
	}

	project, err := s.projectRepo.FindByID(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, nil, err
	}
	if project == nil {
		return nil, nil, nil, ErrNotFound
	}
	return actor, task, project, nil
}

func (s *taskService) Create(ctx context.Context, actorID, projectID string, draft *workflow.TaskDraft) (*repository.Task, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrUnauthorized
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}

	managedCount, err := s.projectRepo.CountManagedBy(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task, err := workflow.NewTask(actor, project, draft, managedCount, time.Now())
	if err != nil {
		return nil, mapWorkflowError(err)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx, projectID)
	s.notifyAssigned(ctx, task, project, actor)
	if s.notifSvc != nil {
		if err := s.notifSvc.SendTaskCreated(ctx, project.TeamMemberIDs, actorID, task.Title); err != nil {
			log.Printf("[Task] Failed to send created notifications: %v", err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskCreated(projectID, taskPayload(task), actorID)
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, actorID, taskID string) (*TaskDetail, error) {
	actor, task, project, err := s.loadTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	caps := workflow.TaskCapabilities(actor, task, project)
	if !caps.CanView {
		return nil, ErrForbidden
	}

	docs, err := s.docRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*repository.TaskDocument{}
	}

	now := time.Now()
	detail := &TaskDetail{
		Task:         task,
		Capabilities: caps,
		DelayStatus:  workflow.DelayStatus(task, now),
		Completion:   workflow.CompletionStatus(task, now),
		DurationDays: workflow.DurationDays(task),
		Documents:    docs,
	}
	if delta, ok := workflow.TimeDifference(task, now); ok {
		detail.TimeDelta = &delta
	}
	return detail, nil
}

func (s *taskService) ListByProject(ctx context.Context, actorID, projectID string, filters *repository.TaskFilters) ([]*repository.Task, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrUnauthorized
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if !workflow.ProjectCapabilities(actor, project).CanView {
		return nil, ErrForbidden
	}

	return s.taskRepo.FindByProjectID(ctx, projectID, filters)
}

func (s *taskService) ListMine(ctx context.Context, actorID string) ([]*repository.Task, error) {
	return s.taskRepo.FindVisibleTo(ctx, actorID)
}

// Kanban groups the actor's visible tasks by status, with every column
// present even when empty.
func (s *taskService) Kanban(ctx context.Context, actorID string) (map[string][]*repository.Task, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrUnauthorized
	}

	tasks, err := s.taskRepo.FindVisibleTo(ctx, actorID)
	if err != nil {
		return nil, err
	}

	projects := make(map[string]*repository.Project)
	for _, t := range tasks {
		if _, ok := projects[t.ProjectID]; ok {
			continue
		}
		project, err := s.projectRepo.FindByID(ctx, t.ProjectID)
		if err != nil {
			return nil, err
		}
		if project != nil {
			projects[t.ProjectID] = project
		}
	}

	return workflow.KanbanBoard(actor, tasks, projects), nil
}

func (s *taskService) Update(ctx context.Context, actorID, taskID string, edit *workflow.TaskEdit) (*repository.Task, error) {
	actor, task, project, err := s.loadTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := workflow.EditTask(actor, task, project, edit, time.Now())
	if err != nil {
		return nil, mapWorkflowError(err)
	}

	if err := s.taskRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx, project.ID)
	if updated.AssignedTo != nil && (task.AssignedTo == nil || *task.AssignedTo != *updated.AssignedTo) {
		s.notifyAssigned(ctx, updated, project, actor)
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskUpdated(project.ID, taskPayload(updated), actorID)
	}
	return updated, nil
}

// ChangeStatus runs the status action. Persistence is guarded on the status
// the decision was made against; a concurrent transition surfaces as a
// conflict rather than silently overwriting.
func (s *taskService) ChangeStatus(ctx context.Context, actorID, taskID, requested string) (*repository.Task, error) {
	actor, task, project, err := s.loadTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := workflow.ChangeTaskStatus(actor, task, project, requested, time.Now())
	if err != nil {
		return nil, mapWorkflowError(err)
	}

	if updated.Status == task.Status {
		// Same-status request is a no-op success.
		return task, nil
	}

	err = s.taskRepo.UpdateStatus(ctx, task.ID, task.Status, updated.Status, updated.UpdatedAt)
	if errors.Is(err, repository.ErrStaleStatus) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}

	s.invalidateDashboard(ctx, project.ID)
	if s.notifSvc != nil {
		recipients := []string{project.ManagerID}
		if task.AssignedTo != nil {
			recipients = append(recipients, *task.AssignedTo)
		}
		if err := s.notifSvc.SendTaskStatusChanged(ctx, recipients, actorID, task.Title, task.Status, updated.Status); err != nil {
			log.Printf("[Task] Failed to send status change notifications: %v", err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskStatusChanged(project.ID, taskPayload(updated), task.Status, updated.Status, actorID)
	}
	return updated, nil
}

func (s *taskService) LogTime(ctx context.Context, actorID, taskID string, hours float64) (*repository.Task, error) {
	actor, task, _, err := s.loadTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := workflow.LogTime(actor, task, hours, time.Now())
	if err != nil {
		return nil, mapWorkflowError(err)
	}

	if err := s.taskRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a task; manager-only, like the full edit form.
func (s *taskService) Delete(ctx context.Context, actorID, taskID string) error {
	actor, task, project, err := s.loadTask(ctx, actorID, taskID)
	if err != nil {
		return err
	}
	if !workflow.TaskCapabilities(actor, task, project).CanEdit {
		return ErrForbidden
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return err
	}

	s.invalidateDashboard(ctx, project.ID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskDeleted(project.ID, taskID, actorID)
	}
	return nil
}

func (s *taskService) AddDocument(ctx context.Context, actorID, taskID string, draft *workflow.DocumentDraft) (*repository.TaskDocument, error) {
	actor, task, project, err := s.loadTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	doc, err := workflow.AttachDocument(actor, task, project, draft, time.Now())
	if err != nil {
		return nil, mapWorkflowError(err)
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	if s.notifSvc != nil && task.AssignedTo != nil && *task.AssignedTo != actorID {
		if err := s.notifSvc.SendDocumentAdded(ctx, *task.AssignedTo, actor.Name, task.Title); err != nil {
			log.Printf("[Task] Failed to send document notification: %v", err)
		}
	}
	return doc, nil
}

func (s *taskService) DeleteDocument(ctx context.Context, actorID, documentID string) error {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return ErrUnauthorized
	}

	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}

	task, err := s.taskRepo.FindByID(ctx, doc.TaskID)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrNotFound
	}

	project, err := s.projectRepo.FindByID(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrNotFound
	}

	if err := workflow.RemoveDocument(actor, doc, project); err != nil {
		return mapWorkflowError(err)
	}
	return s.docRepo.Delete(ctx, documentID)
}

// notifyAssigned informs a newly assigned user, over notification and email.
func (s *taskService) notifyAssigned(ctx context.Context, task *repository.Task, project *repository.Project, actor *repository.User) {
	if task.AssignedTo == nil || *task.AssignedTo == actor.ID {
		return
	}

	if s.notifSvc != nil {
		if err := s.notifSvc.SendTaskAssigned(ctx, *task.AssignedTo, task.Title); err != nil {
			log.Printf("[Task] Failed to send assigned notification: %v", err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastTaskAssigned(*task.AssignedTo, taskPayload(task), actor.Name)
	}
	if s.emailSvc != nil {
		assignee, err := s.userRepo.FindByID(ctx, *task.AssignedTo)
		if err != nil || assignee == nil {
			return
		}
		data := email.TaskAssignedData{
			AssigneeName: assignee.Name,
			TaskTitle:    task.Title,
			ProjectName:  project.Name,
			Priority:     task.Priority,
			TaskURL:      s.cfg.FrontendURL + "/tasks/" + task.ID,
		}
		if task.EndDate != nil {
			data.DueDate = task.EndDate.Format("02/01/2006")
		}
		if err := s.emailSvc.SendTaskAssigned(assignee.Email, data); err != nil {
			log.Printf("[Task] Failed to send assigned email: %v", err)
		}
	}
}

func (s *taskService) invalidateDashboard(ctx context.Context, projectID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.InvalidateCache(ctx, "dashboard:"+projectID); err != nil {
		log.Printf("[Task] Failed to invalidate dashboard cache for %s: %v", projectID, err)
	}
}

func taskPayload(task *repository.Task) map[string]interface{} {
	payload := map[string]interface{}{
		"id":        task.ID,
		"projectId": task.ProjectID,
		"title":     task.Title,
		"status":    task.Status,
		"priority":  task.Priority,
	}
	if task.AssignedTo != nil {
		payload["assignedTo"] = *task.AssignedTo
	}
	return payload
}
