package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lon-tracker/internal/config"
	"lon-tracker/internal/models"
	"lon-tracker/internal/repository"
	"lon-tracker/internal/service"
	"lon-tracker/internal/workflow"
)

// ============================================
// Handlers Container
// ============================================

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Client       *ClientHandler
	Project      *ProjectHandler
	Task         *TaskHandler
	Notification *NotificationHandler
}

func NewHandlers(cfg *config.Config, services *service.Services) *Handlers {
	return &Handlers{
		Auth:         &AuthHandler{authService: services.Auth},
		User:         &UserHandler{userService: services.User},
		Client:       &ClientHandler{clientService: services.Client},
		Project:      &ProjectHandler{projectService: services.Project},
		Task:         &TaskHandler{cfg: cfg, taskService: services.Task},
		Notification: &NotificationHandler{notificationService: services.Notification},
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	var transitionErr *workflow.TransitionError

	switch {
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrUserExists),
		errors.Is(err, service.ErrClientInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPayloadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": transitionErr.Error()})
	default:
		log.Printf("❌ [API] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(user *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		Function:  user.Function,
		Company:   user.Company,
		CreatedAt: user.CreatedAt,
	}
}

func toUserResponses(users []*repository.User) []models.UserResponse {
	responses := make([]models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}
	return responses
}

func toClientResponse(client *repository.Client) models.ClientResponse {
	return models.ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Company:   client.Company,
		CreatedAt: client.CreatedAt,
	}
}

func toClientResponses(clients []*repository.Client) []models.ClientResponse {
	responses := make([]models.ClientResponse, 0, len(clients))
	for _, cl := range clients {
		responses = append(responses, toClientResponse(cl))
	}
	return responses
}

func toProjectResponse(project *repository.Project) models.ProjectResponse {
	members := project.TeamMemberIDs
	if members == nil {
		members = []string{}
	}
	return models.ProjectResponse{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		ClientID:      project.ClientID,
		Location:      project.Location,
		Status:        project.Status,
		StartDate:     project.StartDate,
		EndDate:       project.EndDate,
		Budget:        project.Budget,
		ManagerID:     project.ManagerID,
		TeamMemberIDs: members,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}
}

func toProjectResponses(projects []*repository.Project) []models.ProjectResponse {
	responses := make([]models.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, toProjectResponse(p))
	}
	return responses
}

func toTaskResponse(task *repository.Task) models.TaskResponse {
	return models.TaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		CreatedBy:   task.CreatedBy,
		AssignedTo:  task.AssignedTo,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		StartDate:   task.StartDate,
		EndDate:     task.EndDate,
		TimeSpent:   task.TimeSpent,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func toTaskResponses(tasks []*repository.Task) []models.TaskResponse {
	responses := make([]models.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, toTaskResponse(t))
	}
	return responses
}

func toDocumentResponse(doc *repository.TaskDocument) models.DocumentResponse {
	return models.DocumentResponse{
		ID:         doc.ID,
		TaskID:     doc.TaskID,
		Title:      doc.Title,
		FileName:   doc.FileName,
		FileSize:   doc.FileSize,
		UploadedBy: doc.UploadedBy,
		UploadedAt: doc.UploadedAt,
	}
}

func toDocumentResponses(docs []*repository.TaskDocument) []models.DocumentResponse {
	responses := make([]models.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		responses = append(responses, toDocumentResponse(d))
	}
	return responses
}

func toNotificationResponse(n *repository.Notification) models.NotificationResponse {
	return models.NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func toNotificationResponses(notifications []*repository.Notification) []models.NotificationResponse {
	responses := make([]models.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, toNotificationResponse(n))
	}
	return responses
}
