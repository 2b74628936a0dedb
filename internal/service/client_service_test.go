package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lon-tracker/internal/repository"
	"lon-tracker/internal/types"
)

func TestClientDeleteBlockedByProjects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// env.project references this client.
	if err := env.services.Client.Delete(ctx, env.project.ClientID); !errors.Is(err, ErrClientInUse) {
		t.Errorf("err = %v, want ErrClientInUse", err)
	}

	// A client without projects deletes cleanly.
	spare, err := env.services.Client.Create(ctx, &repository.Client{Name: "Spare Client"})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	if err := env.services.Client.Delete(ctx, spare.ID); err != nil {
		t.Fatalf("delete spare client: %v", err)
	}
	if _, err := env.services.Client.GetByID(ctx, spare.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete err = %v, want ErrNotFound", err)
	}
}

func TestClientCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.services.Client.Create(context.Background(), &repository.Client{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestProjectAccessControl(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.services.Project.GetByID(ctx, env.outsider.ID, env.project.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider GetByID err = %v, want ErrForbidden", err)
	}
	if _, err := env.services.Project.GetByID(ctx, env.member.ID, env.project.ID); err != nil {
		t.Errorf("member GetByID err = %v", err)
	}

	// Members view but do not manage.
	err := env.services.Project.AddMember(ctx, env.member.ID, env.project.ID, env.outsider.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("member AddMember err = %v, want ErrForbidden", err)
	}
	if err := env.services.Project.AddMember(ctx, env.manager.ID, env.project.ID, env.outsider.ID); err != nil {
		t.Fatalf("manager AddMember: %v", err)
	}
	if _, err := env.services.Project.GetByID(ctx, env.outsider.ID, env.project.ID); err != nil {
		t.Errorf("new member GetByID err = %v", err)
	}
}

func TestProjectCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := repository.Project{
		Name:      "Another Project",
		ClientID:  env.project.ClientID,
		StartDate: time.Now(),
		EndDate:   time.Now().AddDate(0, 1, 0),
	}

	created, err := env.services.Project.Create(ctx, env.member.ID, cloneProject(base))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ManagerID != env.member.ID {
		t.Errorf("ManagerID = %q, want creator", created.ManagerID)
	}
	if created.Status != types.ProjectNew {
		t.Errorf("default status = %q, want %q", created.Status, types.ProjectNew)
	}

	bad := cloneProject(base)
	bad.EndDate = bad.StartDate.AddDate(0, 0, -1)
	if _, err := env.services.Project.Create(ctx, env.member.ID, bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("inverted dates err = %v, want ErrInvalidInput", err)
	}

	bad = cloneProject(base)
	bad.ClientID = "missing-client"
	if _, err := env.services.Project.Create(ctx, env.member.ID, bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown client err = %v, want ErrInvalidInput", err)
	}

	bad = cloneProject(base)
	bad.Status = "ARCHIVED"
	if _, err := env.services.Project.Create(ctx, env.member.ID, bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad status err = %v, want ErrInvalidInput", err)
	}
}

func TestProjectDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createTask(t, &env.member.ID)
	task := env.createTask(t, &env.member.ID)
	if _, err := env.services.Task.ChangeStatus(ctx, env.member.ID, task.ID, types.StatusInProgress); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	dashboard, err := env.services.Project.Dashboard(ctx, env.member.ID, env.project.ID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dashboard.Stats.Total != 2 || dashboard.Stats.Todo != 1 || dashboard.Stats.InProgress != 1 {
		t.Errorf("stats = %+v", dashboard.Stats)
	}
	if dashboard.Progress != 25.0 {
		t.Errorf("Progress = %v, want 25.0", dashboard.Progress)
	}

	if _, err := env.services.Project.Dashboard(ctx, env.outsider.ID, env.project.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider Dashboard err = %v, want ErrForbidden", err)
	}
}

func cloneProject(p repository.Project) *repository.Project {
	cp := p
	return &cp
}
