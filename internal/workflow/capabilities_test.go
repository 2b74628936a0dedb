package workflow

import (
	"testing"

	"lon-tracker/internal/repository"
	"lon-tracker/internal/types"
)

var (
	manager  = &repository.User{ID: "u-manager", Name: "Manager"}
	member   = &repository.User{ID: "u-member", Name: "Member"}
	assignee = &repository.User{ID: "u-assignee", Name: "Assignee"}
	outsider = &repository.User{ID: "u-outsider", Name: "Outsider"}
)

func testProject() *repository.Project {
	return &repository.Project{
		ID:            "p1",
		ManagerID:     manager.ID,
		TeamMemberIDs: []string{member.ID, assignee.ID},
	}
}

func testTask() *repository.Task {
	id := assignee.ID
	return &repository.Task{
		ID:         "t1",
		ProjectID:  "p1",
		AssignedTo: &id,
		Status:     types.StatusTodo,
		Priority:   types.PriorityMedium,
	}
}

func TestProjectCapabilities(t *testing.T) {
	project := testProject()

	cases := []struct {
		name      string
		actor     *repository.User
		canView   bool
		canManage bool
	}{
		{"manager", manager, true, true},
		{"member", member, true, false},
		{"outsider", outsider, false, false},
		{"nil actor", nil, false, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			caps := ProjectCapabilities(c.actor, project)
			if caps.CanView != c.canView || caps.CanManage != c.canManage {
				t.Errorf("caps = %+v, want view=%v manage=%v", caps, c.canView, c.canManage)
			}
		})
	}
}

func TestTaskCapabilities(t *testing.T) {
	project := testProject()
	task := testTask()

	cases := []struct {
		name  string
		actor *repository.User
		want  TaskCaps
	}{
		{"manager", manager, TaskCaps{CanView: true, CanEdit: true, CanAddDocument: true, CanChangeStatus: true}},
		{"member", member, TaskCaps{CanView: true, CanAddDocument: true}},
		{"assignee", assignee, TaskCaps{CanView: true, CanAddDocument: true, CanChangeStatus: true}},
		{"outsider", outsider, TaskCaps{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := TaskCapabilities(c.actor, task, project); got != c.want {
				t.Errorf("caps = %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestTaskCapabilitiesAssigneeOutsideTeam(t *testing.T) {
	// An assignee keeps view and status rights even if no longer on the team.
	project := &repository.Project{ID: "p1", ManagerID: manager.ID}
	task := testTask()

	caps := TaskCapabilities(assignee, task, project)
	if !caps.CanView || !caps.CanChangeStatus {
		t.Errorf("assignee outside team: caps = %+v", caps)
	}
	if caps.CanEdit || caps.CanAddDocument {
		t.Errorf("assignee outside team gained extra rights: %+v", caps)
	}
}

func TestCanDeleteDocument(t *testing.T) {
	project := testProject()
	uploaderID := member.ID
	doc := &repository.TaskDocument{ID: "d1", TaskID: "t1", UploadedBy: &uploaderID}

	if !CanDeleteDocument(member, doc, project) {
		t.Error("uploader cannot delete own document")
	}
	if !CanDeleteDocument(manager, doc, project) {
		t.Error("manager cannot delete document")
	}
	if CanDeleteDocument(assignee, doc, project) {
		t.Error("non-uploader member can delete document")
	}
	if CanDeleteDocument(outsider, doc, project) {
		t.Error("outsider can delete document")
	}
}

func TestCanCreateTasks(t *testing.T) {
	if CanCreateTasks(0) {
		t.Error("actor managing no projects can create tasks")
	}
	if !CanCreateTasks(1) {
		t.Error("manager of one project cannot create tasks")
	}
}

func TestCanUseProjectForTask(t *testing.T) {
	project := testProject()
	if !CanUseProjectForTask(manager, project) {
		t.Error("manager rejected")
	}
	if !CanUseProjectForTask(member, project) {
		t.Error("team member rejected")
	}
	if CanUseProjectForTask(outsider, project) {
		t.Error("outsider accepted")
	}
}
