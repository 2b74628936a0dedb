package workflow

import (
	"lon-tracker/internal/repository"
)

// ProjectCaps is the capability set an actor holds over a project.
type ProjectCaps struct {
	CanView   bool
	CanManage bool
}

// TaskCaps is the capability set an actor holds over a task.
//
// CanChangeStatus is distinct from CanEdit: the lightweight status action is
// open to the assignee while the full edit form is manager-only.
type TaskCaps struct {
	CanView         bool `json:"canView"`
	CanEdit         bool `json:"canEdit"`
	CanAddDocument  bool `json:"canAddDocument"`
	CanChangeStatus bool `json:"canChangeStatus"`
}

// ProjectCapabilities computes the capability set for a project. The project
// must be handed in with its team member ids loaded.
func ProjectCapabilities(actor *repository.User, project *repository.Project) ProjectCaps {
	if actor == nil || project == nil {
		return ProjectCaps{}
	}
	isManager := project.ManagerID == actor.ID
	return ProjectCaps{
		CanView:   isManager || isTeamMember(actor.ID, project),
		CanManage: isManager,
	}
}

// TaskCapabilities computes the capability set for a task within its project.
func TaskCapabilities(actor *repository.User, task *repository.Task, project *repository.Project) TaskCaps {
	if actor == nil || task == nil || project == nil {
		return TaskCaps{}
	}
	isManager := project.ManagerID == actor.ID
	isMember := isTeamMember(actor.ID, project)
	isAssignee := task.AssignedTo != nil && *task.AssignedTo == actor.ID
	return TaskCaps{
		CanView:         isAssignee || isManager || isMember,
		CanEdit:         isManager,
		CanAddDocument:  isManager || isMember,
		CanChangeStatus: isManager || isAssignee,
	}
}

// CanDeleteDocument reports whether the actor may delete a task document:
// only the uploader or the owning project's manager.
func CanDeleteDocument(actor *repository.User, doc *repository.TaskDocument, project *repository.Project) bool {
	if actor == nil || doc == nil || project == nil {
		return false
	}
	if doc.UploadedBy != nil && *doc.UploadedBy == actor.ID {
		return true
	}
	return project.ManagerID == actor.ID
}

// CanCreateTasks is the global precondition for task creation: the actor must
// manage at least one project. The chosen project is checked separately with
// CanUseProjectForTask once it is known.
func CanCreateTasks(managedProjectCount int) bool {
	return managedProjectCount > 0
}

// CanUseProjectForTask reports whether the actor may create a task in the
// chosen project: they must manage it or belong to its team.
func CanUseProjectForTask(actor *repository.User, project *repository.Project) bool {
	if actor == nil || project == nil {
		return false
	}
	return project.ManagerID == actor.ID || isTeamMember(actor.ID, project)
}

func isTeamMember(userID string, project *repository.Project) bool {
	for _, id := range project.TeamMemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
