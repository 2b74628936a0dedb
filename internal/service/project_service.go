package service

import (
	"context"
	"log"
	"time"

	"lon-tracker/internal/db"
	"lon-tracker/internal/notification"
	"lon-tracker/internal/repository"
	"lon-tracker/internal/socket"
	"lon-tracker/internal/types"
	"lon-tracker/internal/workflow"
)

// ============================================
// Project Service
// ============================================

const dashboardCacheTTL = 5 * time.Minute

type ProjectService interface {
	Create(ctx context.Context, actorID string, project *repository.Project) (*repository.Project, error)
	GetByID(ctx context.Context, actorID, projectID string) (*repository.Project, error)
	GetMine(ctx context.Context, actorID string) ([]*repository.Project, error)
	Update(ctx context.Context, actorID string, project *repository.Project) (*repository.Project, error)
	Delete(ctx context.Context, actorID, projectID string) error
	AddMember(ctx context.Context, actorID, projectID, userID string) error
	RemoveMember(ctx context.Context, actorID, projectID, userID string) error
	Dashboard(ctx context.Context, actorID, projectID string) (*workflow.Dashboard, error)
	InvalidateDashboard(ctx context.Context, projectID string)
}

type projectService struct {
	projectRepo repository.ProjectRepository
	clientRepo  repository.ClientRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	redis       *db.RedisDB
	notifSvc    *notification.Service
	broadcaster *socket.Broadcaster
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	clientRepo repository.ClientRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	redis *db.RedisDB,
	notifSvc *notification.Service,
	broadcaster *socket.Broadcaster,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		redis:       redis,
		notifSvc:    notifSvc,
		broadcaster: broadcaster,
	}
}

// loadProjectFor loads a project and verifies the actor may at least view it.
func (s *projectService) loadProjectFor(ctx context.Context, actorID, projectID string) (*repository.User, *repository.Project, error) {
	actor, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	if actor == nil {
		return nil, nil, ErrUnauthorized
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, ErrNotFound
	}

	if !workflow.ProjectCapabilities(actor, project).CanView {
		return nil, nil, ErrForbidden
	}
	return actor, project, nil
}

func (s *projectService) Create(ctx context.Context, actorID string, project *repository.Project) (*repository.Project, error) {
	if project.Name == "" || project.ClientID == "" {
		return nil, ErrInvalidInput
	}
	if project.EndDate.Before(project.StartDate) {
		return nil, ErrInvalidInput
	}
	if project.Status == "" {
		project.Status = types.ProjectNew
	}
	if !types.IsValidProjectStatus(project.Status) {
		return nil, ErrInvalidInput
	}

	client, err := s.clientRepo.FindByID(ctx, project.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrInvalidInput
	}

	// The creator becomes the project manager.
	project.ManagerID = actorID

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	if s.notifSvc != nil {
		actor, _ := s.userRepo.FindByID(ctx, actorID)
		adderName := ""
		if actor != nil {
			adderName = actor.Name
		}
		for _, memberID := range project.TeamMemberIDs {
			if memberID == actorID {
				continue
			}
			if err := s.notifSvc.SendProjectMemberAdded(ctx, memberID, project.Name, adderName); err != nil {
				log.Printf("[Project] Failed to notify member %s: %v", memberID, err)
			}
		}
	}

	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, actorID, projectID string) (*repository.Project, error) {
	_, project, err := s.loadProjectFor(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetMine(ctx context.Context, actorID string) ([]*repository.Project, error) {
	return s.projectRepo.FindByUserID(ctx, actorID)
}

func (s *projectService) Update(ctx context.Context, actorID string, project *repository.Project) (*repository.Project, error) {
	actor, existing, err := s.loadProjectFor(ctx, actorID, project.ID)
	if err != nil {
		return nil, err
	}
	if !workflow.ProjectCapabilities(actor, existing).CanManage {
		return nil, ErrForbidden
	}

	if project.Name == "" {
		return nil, ErrInvalidInput
	}
	if project.EndDate.Before(project.StartDate) {
		return nil, ErrInvalidInput
	}
	if !types.IsValidProjectStatus(project.Status) {
		return nil, ErrInvalidInput
	}
	if project.ClientID != existing.ClientID {
		client, err := s.clientRepo.FindByID(ctx, project.ClientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, ErrInvalidInput
		}
	}

	project.ManagerID = existing.ManagerID
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.InvalidateDashboard(ctx, project.ID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastProjectUpdated(project.ID, map[string]interface{}{
			"id":     project.ID,
			"name":   project.Name,
			"status": project.Status,
		}, actorID)
	}
	return s.projectRepo.FindByID(ctx, project.ID)
}

func (s *projectService) Delete(ctx context.Context, actorID, projectID string) error {
	actor, project, err := s.loadProjectFor(ctx, actorID, projectID)
	if err != nil {
		return err
	}
	if !workflow.ProjectCapabilities(actor, project).CanManage {
		return ErrForbidden
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}
	s.InvalidateDashboard(ctx, projectID)
	return nil
}

func (s *projectService) AddMember(ctx context.Context, actorID, projectID, userID string) error {
	actor, project, err := s.loadProjectFor(ctx, actorID, projectID)
	if err != nil {
		return err
	}
	if !workflow.ProjectCapabilities(actor, project).CanManage {
		return ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.projectRepo.AddMember(ctx, projectID, userID); err != nil {
		return err
	}

	if s.notifSvc != nil {
		if err := s.notifSvc.SendProjectMemberAdded(ctx, userID, project.Name, actor.Name); err != nil {
			log.Printf("[Project] Failed to notify member %s: %v", userID, err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberAdded(projectID, map[string]interface{}{
			"userId": userID,
			"name":   user.Name,
		}, actorID)
	}
	return nil
}

func (s *projectService) RemoveMember(ctx context.Context, actorID, projectID, userID string) error {
	actor, project, err := s.loadProjectFor(ctx, actorID, projectID)
	if err != nil {
		return err
	}
	if !workflow.ProjectCapabilities(actor, project).CanManage {
		return ErrForbidden
	}

	if err := s.projectRepo.RemoveMember(ctx, projectID, userID); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMemberRemoved(projectID, userID, actorID)
	}
	return nil
}

// Dashboard computes the project's derived figures, serving from the Redis
// cache when possible. Figures involve "now", so the cache TTL keeps staleness
// bounded.
func (s *projectService) Dashboard(ctx context.Context, actorID, projectID string) (*workflow.Dashboard, error) {
	if _, _, err := s.loadProjectFor(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	cacheKey := "dashboard:" + projectID
	if s.redis != nil {
		var cached workflow.Dashboard
		if err := s.redis.GetCache(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	tasks, err := s.taskRepo.FindByProjectID(ctx, projectID, nil)
	if err != nil {
		return nil, err
	}

	dashboard := workflow.ProjectDashboard(tasks, time.Now())

	if s.redis != nil {
		if err := s.redis.SetCache(ctx, cacheKey, dashboard, dashboardCacheTTL); err != nil {
			log.Printf("[Project] Failed to cache dashboard for %s: %v", projectID, err)
		}
	}
	return &dashboard, nil
}

// InvalidateDashboard drops the cached dashboard after task mutations.
func (s *projectService) InvalidateDashboard(ctx context.Context, projectID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.InvalidateCache(ctx, "dashboard:"+projectID); err != nil {
		log.Printf("[Project] Failed to invalidate dashboard cache for %s: %v", projectID, err)
	}
}
