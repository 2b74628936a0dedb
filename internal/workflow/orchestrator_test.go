package workflow

import (
	"errors"
	"testing"
	"time"

	"lon-tracker/internal/repository"
	"lon-tracker/internal/types"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestChangeTaskStatus(t *testing.T) {
	project := testProject()

	t.Run("assignee advances", func(t *testing.T) {
		task := testTask()
		updated, err := ChangeTaskStatus(assignee, task, project, types.StatusInProgress, testNow)
		if err != nil {
			t.Fatalf("ChangeTaskStatus: %v", err)
		}
		if updated.Status != types.StatusInProgress {
			t.Errorf("updated.Status = %q", updated.Status)
		}
		if !updated.UpdatedAt.Equal(testNow) {
			t.Errorf("UpdatedAt = %v, want %v", updated.UpdatedAt, testNow)
		}
		if task.Status != types.StatusTodo {
			t.Errorf("input task mutated: %q", task.Status)
		}
	})

	t.Run("member without assignment forbidden", func(t *testing.T) {
		task := testTask()
		_, err := ChangeTaskStatus(member, task, project, types.StatusInProgress, testNow)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("manager of another project forbidden", func(t *testing.T) {
		task := testTask()
		otherManager := &repository.User{ID: "u-other"}
		_, err := ChangeTaskStatus(otherManager, task, project, types.StatusInProgress, testNow)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("skipping a step rejected", func(t *testing.T) {
		task := testTask()
		_, err := ChangeTaskStatus(manager, task, project, types.StatusDone, testNow)
		if !IsTransitionError(err) {
			t.Errorf("err = %v, want TransitionError", err)
		}
		if task.Status != types.StatusTodo {
			t.Errorf("task mutated on failure: %q", task.Status)
		}
	})

	t.Run("wrong project reference", func(t *testing.T) {
		task := testTask()
		other := &repository.Project{ID: "p2", ManagerID: manager.ID}
		_, err := ChangeTaskStatus(manager, task, other, types.StatusInProgress, testNow)
		if !errors.Is(err, ErrInvariantViolation) {
			t.Errorf("err = %v, want ErrInvariantViolation", err)
		}
	})
}

func TestEditTask(t *testing.T) {
	project := testProject()

	t.Run("manager edits fields", func(t *testing.T) {
		task := testTask()
		title := "Reworked title"
		priority := types.PriorityUrgent
		updated, err := EditTask(manager, task, project, &TaskEdit{Title: &title, Priority: &priority}, testNow)
		if err != nil {
			t.Fatalf("EditTask: %v", err)
		}
		if updated.Title != title || updated.Priority != priority {
			t.Errorf("updated = %+v", updated)
		}
		if task.Title == title {
			t.Error("input task mutated")
		}
	})

	t.Run("assignee cannot use full edit", func(t *testing.T) {
		task := testTask()
		title := "nope"
		_, err := EditTask(assignee, task, project, &TaskEdit{Title: &title}, testNow)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("assignee outside team rejected", func(t *testing.T) {
		task := testTask()
		stranger := "u-stranger"
		_, err := EditTask(manager, task, project, &TaskEdit{AssignedTo: &stranger}, testNow)
		if !errors.Is(err, ErrInvariantViolation) {
			t.Errorf("err = %v, want ErrInvariantViolation", err)
		}
	})

	t.Run("empty assignee clears assignment", func(t *testing.T) {
		task := testTask()
		empty := ""
		updated, err := EditTask(manager, task, project, &TaskEdit{AssignedTo: &empty}, testNow)
		if err != nil {
			t.Fatalf("EditTask: %v", err)
		}
		if updated.AssignedTo != nil {
			t.Errorf("AssignedTo = %v, want nil", *updated.AssignedTo)
		}
	})

	t.Run("start after end rejected", func(t *testing.T) {
		task := testTask()
		start := testNow
		end := testNow.AddDate(0, 0, -2)
		_, err := EditTask(manager, task, project, &TaskEdit{StartDate: &start, EndDate: &end}, testNow)
		if !errors.Is(err, ErrInvalidDateRange) {
			t.Errorf("err = %v, want ErrInvalidDateRange", err)
		}
	})

	t.Run("status change follows transition table", func(t *testing.T) {
		task := testTask()
		done := types.StatusDone
		_, err := EditTask(manager, task, project, &TaskEdit{Status: &done}, testNow)
		if !IsTransitionError(err) {
			t.Errorf("err = %v, want TransitionError", err)
		}
	})
}

func TestNewTask(t *testing.T) {
	project := testProject()

	t.Run("defaults applied", func(t *testing.T) {
		task, err := NewTask(manager, project, &TaskDraft{Title: "Order materials"}, 1, testNow)
		if err != nil {
			t.Fatalf("NewTask: %v", err)
		}
		if task.Status != types.StatusTodo || task.Priority != types.PriorityMedium {
			t.Errorf("defaults = %q/%q", task.Status, task.Priority)
		}
		if task.CreatedBy == nil || *task.CreatedBy != manager.ID {
			t.Error("CreatedBy not set to actor")
		}
	})

	t.Run("requires a managed project somewhere", func(t *testing.T) {
		_, err := NewTask(member, project, &TaskDraft{Title: "x"}, 0, testNow)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("chosen project must be managed or joined", func(t *testing.T) {
		// The actor manages some other project but has no tie to this one.
		stranger := &repository.User{ID: "u-elsewhere"}
		_, err := NewTask(stranger, project, &TaskDraft{Title: "x"}, 2, testNow)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("member with a managed project may use joined project", func(t *testing.T) {
		if _, err := NewTask(member, project, &TaskDraft{Title: "x"}, 1, testNow); err != nil {
			t.Errorf("NewTask: %v", err)
		}
	})

	t.Run("title required", func(t *testing.T) {
		_, err := NewTask(manager, project, &TaskDraft{}, 1, testNow)
		if !errors.Is(err, ErrInvariantViolation) {
			t.Errorf("err = %v, want ErrInvariantViolation", err)
		}
	})

	t.Run("assignee must be on the team", func(t *testing.T) {
		stranger := "u-stranger"
		_, err := NewTask(manager, project, &TaskDraft{Title: "x", AssignedTo: &stranger}, 1, testNow)
		if !errors.Is(err, ErrInvariantViolation) {
			t.Errorf("err = %v, want ErrInvariantViolation", err)
		}
	})
}

func TestAttachDocument(t *testing.T) {
	project := testProject()

	t.Run("member attaches", func(t *testing.T) {
		task := testTask()
		doc, err := AttachDocument(member, task, project, &DocumentDraft{
			Title:    "Floor plan",
			FileName: "plan.pdf",
			FilePath: "uploads/plan.pdf",
			FileSize: 1024,
		}, testNow)
		if err != nil {
			t.Fatalf("AttachDocument: %v", err)
		}
		if doc.UploadedBy == nil || *doc.UploadedBy != member.ID {
			t.Error("UploadedBy not set")
		}
	})

	t.Run("size limit enforced", func(t *testing.T) {
		task := testTask()
		_, err := AttachDocument(member, task, project, &DocumentDraft{
			Title:    "Raw scan",
			FileName: "scan.tiff",
			FileSize: MaxDocumentSize + 1,
		}, testNow)
		if !errors.Is(err, ErrPayloadTooLarge) {
			t.Errorf("err = %v, want ErrPayloadTooLarge", err)
		}
	})

	t.Run("outsider forbidden", func(t *testing.T) {
		task := testTask()
		_, err := AttachDocument(outsider, task, project, &DocumentDraft{
			Title: "x", FileName: "x.txt",
		}, testNow)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})
}

func TestLogTime(t *testing.T) {
	t.Run("assignee accumulates", func(t *testing.T) {
		task := testTask()
		task.TimeSpent = 2.5
		updated, err := LogTime(assignee, task, 1.5, testNow)
		if err != nil {
			t.Fatalf("LogTime: %v", err)
		}
		if updated.TimeSpent != 4.0 {
			t.Errorf("TimeSpent = %v, want 4.0", updated.TimeSpent)
		}
		if task.TimeSpent != 2.5 {
			t.Error("input task mutated")
		}
	})

	t.Run("manager is not the assignee", func(t *testing.T) {
		task := testTask()
		_, err := LogTime(manager, task, 1, testNow)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Errorf("err = %v, want ErrNotAuthorized", err)
		}
	})

	t.Run("non-positive hours rejected", func(t *testing.T) {
		task := testTask()
		if _, err := LogTime(assignee, task, 0, testNow); !errors.Is(err, ErrInvariantViolation) {
			t.Errorf("err = %v, want ErrInvariantViolation", err)
		}
	})
}

func TestKanbanBoard(t *testing.T) {
	project := testProject()
	projects := map[string]*repository.Project{project.ID: project}

	assigneeID := assignee.ID
	tasks := []*repository.Task{
		{ID: "t1", ProjectID: project.ID, Status: types.StatusTodo, AssignedTo: &assigneeID},
		{ID: "t2", ProjectID: project.ID, Status: types.StatusDone},
		{ID: "t3", ProjectID: "p-unknown", Status: types.StatusTodo, AssignedTo: &assigneeID},
	}

	board := KanbanBoard(assignee, tasks, projects)
	if len(board) != 4 {
		t.Fatalf("board has %d columns, want 4", len(board))
	}
	if len(board[types.StatusTodo]) != 1 {
		t.Errorf("todo column = %d tasks, want 1 (unknown project dropped)", len(board[types.StatusTodo]))
	}
	if len(board[types.StatusDone]) != 1 {
		t.Errorf("done column = %d tasks, want 1", len(board[types.StatusDone]))
	}
	if len(board[types.StatusReview]) != 0 || len(board[types.StatusInProgress]) != 0 {
		t.Error("empty columns missing or populated")
	}
}

func TestProjectDashboard(t *testing.T) {
	past := testNow.AddDate(0, 0, -5)
	tasks := []*repository.Task{
		{Status: types.StatusDone},
		{Status: types.StatusDone},
		{Status: types.StatusReview, EndDate: &past},
		{Status: types.StatusTodo},
	}

	dashboard := ProjectDashboard(tasks, testNow)
	if dashboard.Progress != 68.8 {
		t.Errorf("Progress = %v, want 68.8", dashboard.Progress)
	}
	if dashboard.Stats.CompletionRate != 50.0 {
		t.Errorf("CompletionRate = %v, want 50.0", dashboard.Stats.CompletionRate)
	}
	if !dashboard.Delayed {
		t.Error("Delayed = false with an overdue review task")
	}
}
