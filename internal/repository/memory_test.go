package repository

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemTaskUpdateStatusGuard(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	task := &Task{ProjectID: "p1", Title: "Guarded", Status: "todo", Priority: "medium"}
	if err := repos.TaskRepo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now()
	if err := repos.TaskRepo.UpdateStatus(ctx, task.ID, "todo", "in_progress", now); err != nil {
		t.Fatalf("first guarded update: %v", err)
	}

	// A second writer still expecting "todo" lost the race.
	err := repos.TaskRepo.UpdateStatus(ctx, task.ID, "todo", "in_progress", now)
	if !errors.Is(err, ErrStaleStatus) {
		t.Errorf("stale update err = %v, want ErrStaleStatus", err)
	}

	if err := repos.TaskRepo.UpdateStatus(ctx, "missing", "todo", "in_progress", now); !errors.Is(err, ErrStaleStatus) {
		t.Errorf("missing task err = %v, want ErrStaleStatus", err)
	}

	loaded, err := repos.TaskRepo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.Status != "in_progress" {
		t.Errorf("status = %q, want in_progress", loaded.Status)
	}
}

func TestMemTaskVisibility(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	project := &Project{Name: "P", ManagerID: "manager", TeamMemberIDs: []string{"member"}}
	if err := repos.ProjectRepo.Create(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}

	assignee := "assignee"
	tasks := []*Task{
		{ProjectID: project.ID, Title: "A", Status: "todo", Priority: "low", AssignedTo: &assignee},
		{ProjectID: project.ID, Title: "B", Status: "todo", Priority: "low"},
		{ProjectID: "elsewhere", Title: "C", Status: "todo", Priority: "low"},
	}
	for _, task := range tasks {
		if err := repos.TaskRepo.Create(ctx, task); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	cases := []struct {
		user string
		want int
	}{
		{"manager", 2},
		{"member", 2},
		{"assignee", 1},
		{"stranger", 0},
	}
	for _, c := range cases {
		visible, err := repos.TaskRepo.FindVisibleTo(ctx, c.user)
		if err != nil {
			t.Fatalf("FindVisibleTo(%s): %v", c.user, err)
		}
		if len(visible) != c.want {
			t.Errorf("FindVisibleTo(%s) = %d tasks, want %d", c.user, len(visible), c.want)
		}
	}
}

func TestMemProjectMembershipUpdatesOnlyViaMemberCalls(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	project := &Project{Name: "P", ManagerID: "manager", TeamMemberIDs: []string{"a"}}
	if err := repos.ProjectRepo.Create(ctx, project); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Update must not rewrite the member list.
	edited := *project
	edited.Name = "P2"
	edited.TeamMemberIDs = []string{"x", "y", "z"}
	if err := repos.ProjectRepo.Update(ctx, &edited); err != nil {
		t.Fatalf("update: %v", err)
	}

	loaded, _ := repos.ProjectRepo.FindByID(ctx, project.ID)
	if loaded.Name != "P2" {
		t.Errorf("name = %q", loaded.Name)
	}
	if len(loaded.TeamMemberIDs) != 1 || loaded.TeamMemberIDs[0] != "a" {
		t.Errorf("members = %v, want [a]", loaded.TeamMemberIDs)
	}

	if err := repos.ProjectRepo.AddMember(ctx, project.ID, "b"); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := repos.ProjectRepo.RemoveMember(ctx, project.ID, "a"); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	loaded, _ = repos.ProjectRepo.FindByID(ctx, project.ID)
	if len(loaded.TeamMemberIDs) != 1 || loaded.TeamMemberIDs[0] != "b" {
		t.Errorf("members = %v, want [b]", loaded.TeamMemberIDs)
	}
}
