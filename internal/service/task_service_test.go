package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lon-tracker/internal/config"
	"lon-tracker/internal/repository"
	"lon-tracker/internal/types"
	"lon-tracker/internal/workflow"
)

type testEnv struct {
	repos    *repository.Repositories
	services *Services
	manager  *repository.User
	member   *repository.User
	outsider *repository.User
	project  *repository.Project
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	repos := repository.NewRepositories()

	manager := &repository.User{Email: "manager@test.local", Name: "Manager"}
	member := &repository.User{Email: "member@test.local", Name: "Member"}
	outsider := &repository.User{Email: "outsider@test.local", Name: "Outsider"}
	for _, u := range []*repository.User{manager, member, outsider} {
		if err := repos.UserRepo.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	client := &repository.Client{Name: "Test Client"}
	if err := repos.ClientRepo.Create(ctx, client); err != nil {
		t.Fatalf("create client: %v", err)
	}

	project := &repository.Project{
		Name:          "Test Project",
		ClientID:      client.ID,
		Status:        types.ProjectInProgress,
		StartDate:     time.Now().AddDate(0, -1, 0),
		EndDate:       time.Now().AddDate(0, 1, 0),
		ManagerID:     manager.ID,
		TeamMemberIDs: []string{member.ID},
	}
	if err := repos.ProjectRepo.Create(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	services := NewServices(&ServiceDeps{
		Config: &config.Config{UploadDir: t.TempDir(), FrontendURL: "http://localhost:5173"},
		Repos:  repos,
	})

	return &testEnv{
		repos:    repos,
		services: services,
		manager:  manager,
		member:   member,
		outsider: outsider,
		project:  project,
	}
}

func (e *testEnv) createTask(t *testing.T, assignee *string) *repository.Task {
	t.Helper()
	task, err := e.services.Task.Create(context.Background(), e.manager.ID, e.project.ID, &workflow.TaskDraft{
		Title:      "Fit out meeting room",
		AssignedTo: assignee,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestTaskCreateRequiresProjectTie(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.services.Task.Create(ctx, env.outsider.ID, env.project.ID, &workflow.TaskDraft{Title: "x"})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider create: err = %v, want ErrForbidden", err)
	}

	task := env.createTask(t, &env.member.ID)
	if task.Status != types.StatusTodo || task.Priority != types.PriorityMedium {
		t.Errorf("defaults = %q/%q", task.Status, task.Priority)
	}
}

func TestTaskChangeStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := env.createTask(t, &env.member.ID)

	// The assignee may run the status action.
	updated, err := env.services.Task.ChangeStatus(ctx, env.member.ID, task.ID, types.StatusInProgress)
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if updated.Status != types.StatusInProgress {
		t.Errorf("status = %q", updated.Status)
	}

	// Same-status request is a no-op success.
	again, err := env.services.Task.ChangeStatus(ctx, env.member.ID, task.ID, types.StatusInProgress)
	if err != nil {
		t.Fatalf("same-status ChangeStatus: %v", err)
	}
	if again.Status != types.StatusInProgress {
		t.Errorf("status after no-op = %q", again.Status)
	}

	// Skipping review is rejected with the offending pair.
	_, err = env.services.Task.ChangeStatus(ctx, env.member.ID, task.ID, types.StatusDone)
	if !workflow.IsTransitionError(err) {
		t.Errorf("err = %v, want TransitionError", err)
	}

	// An outsider never gets through.
	_, err = env.services.Task.ChangeStatus(ctx, env.outsider.ID, task.ID, types.StatusReview)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider err = %v, want ErrForbidden", err)
	}
}

// staleTaskRepo reports every guarded status write as lost.
type staleTaskRepo struct {
	repository.TaskRepository
}

func (r *staleTaskRepo) UpdateStatus(context.Context, string, string, string, time.Time) error {
	return repository.ErrStaleStatus
}

func TestTaskChangeStatusConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := env.createTask(t, &env.member.ID)

	svc := NewTaskService(
		&config.Config{},
		&staleTaskRepo{TaskRepository: env.repos.TaskRepo},
		env.repos.ProjectRepo,
		env.repos.UserRepo,
		env.repos.DocumentRepo,
		nil, nil, nil, nil,
	)

	_, err := svc.ChangeStatus(ctx, env.member.ID, task.ID, types.StatusInProgress)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestTaskLogTimeAssigneeOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := env.createTask(t, &env.member.ID)

	updated, err := env.services.Task.LogTime(ctx, env.member.ID, task.ID, 2.5)
	if err != nil {
		t.Fatalf("LogTime: %v", err)
	}
	if updated.TimeSpent != 2.5 {
		t.Errorf("TimeSpent = %v", updated.TimeSpent)
	}

	updated, err = env.services.Task.LogTime(ctx, env.member.ID, task.ID, 1.5)
	if err != nil {
		t.Fatalf("LogTime second: %v", err)
	}
	if updated.TimeSpent != 4.0 {
		t.Errorf("TimeSpent = %v, want 4.0", updated.TimeSpent)
	}

	if _, err := env.services.Task.LogTime(ctx, env.manager.ID, task.ID, 1); !errors.Is(err, ErrForbidden) {
		t.Errorf("manager LogTime err = %v, want ErrForbidden", err)
	}
}

func TestTaskUpdateManagerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := env.createTask(t, &env.member.ID)

	title := "Renamed"
	_, err := env.services.Task.Update(ctx, env.member.ID, task.ID, &workflow.TaskEdit{Title: &title})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("assignee Update err = %v, want ErrForbidden", err)
	}

	updated, err := env.services.Task.Update(ctx, env.manager.ID, task.ID, &workflow.TaskEdit{Title: &title})
	if err != nil {
		t.Fatalf("manager Update: %v", err)
	}
	if updated.Title != title {
		t.Errorf("title = %q", updated.Title)
	}
}

func TestTaskGetByIDDerivedFigures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	start := time.Now().AddDate(0, 0, -10)
	end := time.Now().AddDate(0, 0, -2)
	task, err := env.services.Task.Create(ctx, env.manager.ID, env.project.ID, &workflow.TaskDraft{
		Title:      "Late survey",
		AssignedTo: &env.member.ID,
		StartDate:  &start,
		EndDate:    &end,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	detail, err := env.services.Task.GetByID(ctx, env.member.ID, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if detail.TimeDelta == nil || !detail.TimeDelta.IsLate {
		t.Errorf("TimeDelta = %+v, want late", detail.TimeDelta)
	}
	if detail.DelayStatus == "" {
		t.Error("DelayStatus empty for overdue task")
	}
	if detail.DurationDays == nil || *detail.DurationDays != 9 {
		t.Errorf("DurationDays = %v, want 9", detail.DurationDays)
	}
	if !detail.Capabilities.CanChangeStatus || detail.Capabilities.CanEdit {
		t.Errorf("assignee capabilities = %+v", detail.Capabilities)
	}

	if _, err := env.services.Task.GetByID(ctx, env.outsider.ID, task.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider GetByID err = %v, want ErrForbidden", err)
	}
}

func TestTaskKanban(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createTask(t, &env.member.ID)
	task := env.createTask(t, &env.member.ID)
	if _, err := env.services.Task.ChangeStatus(ctx, env.member.ID, task.ID, types.StatusInProgress); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	board, err := env.services.Task.Kanban(ctx, env.member.ID)
	if err != nil {
		t.Fatalf("Kanban: %v", err)
	}
	if len(board) != 4 {
		t.Fatalf("board has %d columns, want 4", len(board))
	}
	if len(board[types.StatusTodo]) != 1 || len(board[types.StatusInProgress]) != 1 {
		t.Errorf("columns todo=%d in_progress=%d, want 1/1",
			len(board[types.StatusTodo]), len(board[types.StatusInProgress]))
	}

	// The outsider sees an empty board, not an error.
	board, err = env.services.Task.Kanban(ctx, env.outsider.ID)
	if err != nil {
		t.Fatalf("outsider Kanban: %v", err)
	}
	for status, column := range board {
		if len(column) != 0 {
			t.Errorf("outsider sees %d tasks in %q", len(column), status)
		}
	}
}

func TestTaskDocuments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := env.createTask(t, &env.member.ID)

	doc, err := env.services.Task.AddDocument(ctx, env.member.ID, task.ID, &workflow.DocumentDraft{
		Title:    "Site photos",
		FileName: "photos.zip",
		FilePath: "uploads/photos.zip",
		FileSize: 2048,
	})
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}

	_, err = env.services.Task.AddDocument(ctx, env.member.ID, task.ID, &workflow.DocumentDraft{
		Title:    "Raw footage",
		FileName: "footage.mov",
		FileSize: workflow.MaxDocumentSize + 1,
	})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("oversized err = %v, want ErrPayloadTooLarge", err)
	}

	// Only the uploader or the manager may delete.
	other := &repository.User{Email: "other@test.local", Name: "Other"}
	if err := env.repos.UserRepo.Create(ctx, other); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := env.repos.ProjectRepo.AddMember(ctx, env.project.ID, other.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := env.services.Task.DeleteDocument(ctx, other.ID, doc.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-uploader delete err = %v, want ErrForbidden", err)
	}
	if err := env.services.Task.DeleteDocument(ctx, env.member.ID, doc.ID); err != nil {
		t.Fatalf("uploader delete: %v", err)
	}

	detail, err := env.services.Task.GetByID(ctx, env.member.ID, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(detail.Documents) != 0 {
		t.Errorf("documents remaining = %d, want 0", len(detail.Documents))
	}
}
