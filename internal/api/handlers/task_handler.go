package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lon-tracker/internal/api/middleware"
	"lon-tracker/internal/config"
	"lon-tracker/internal/models"
	"lon-tracker/internal/repository"
	"lon-tracker/internal/service"
	"lon-tracker/internal/workflow"
)

// ============================================
// Task Handler
// ============================================

type TaskHandler struct {
	cfg         *config.Config
	taskService service.TaskService
}

// Create adds a task to a project
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), userID, req.ProjectID, &workflow.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// List returns the tasks visible to the actor
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// ListByProject returns a project's tasks, with optional filters
func (h *TaskHandler) ListByProject(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	filters := &repository.TaskFilters{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}

	tasks, err := h.taskService.ListByProject(c.Request.Context(), userID, c.Param("id"), filters)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// Kanban returns the actor's visible tasks grouped by status
func (h *TaskHandler) Kanban(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	board, err := h.taskService.Kanban(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make(map[string][]models.TaskResponse, len(board))
	for status, tasks := range board {
		response[status] = toTaskResponses(tasks)
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns a task with its capabilities, derived figures and documents
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	detail, err := h.taskService.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := gin.H{
		"task":         toTaskResponse(detail.Task),
		"capabilities": detail.Capabilities,
		"documents":    toDocumentResponses(detail.Documents),
	}
	if detail.TimeDelta != nil {
		response["timeDifference"] = detail.TimeDelta
	}
	if detail.DelayStatus != "" {
		response["delayStatus"] = detail.DelayStatus
	}
	if detail.Completion != "" {
		response["completionStatus"] = detail.Completion
	}
	if detail.DurationDays != nil {
		response["durationDays"] = *detail.DurationDays
	}
	c.JSON(http.StatusOK, response)
}

// Update applies a partial edit (manager only)
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), userID, c.Param("id"), &workflow.TaskEdit{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// ChangeStatus runs the lightweight status action
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.ChangeStatus(c.Request.Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// LogTime accumulates hours onto a task (assignee only)
func (h *TaskHandler) LogTime(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.LogTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.taskService.LogTime(c.Request.Context(), userID, c.Param("id"), req.Hours)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete removes a task (manager only)
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// UploadDocument attaches an uploaded file to a task
func (h *TaskHandler) UploadDocument(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File required"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = file.Filename
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		handleServiceError(c, err)
		return
	}
	storedName := uuid.New().String() + filepath.Ext(file.Filename)
	storedPath := filepath.Join(h.cfg.UploadDir, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		handleServiceError(c, err)
		return
	}

	doc, err := h.taskService.AddDocument(c.Request.Context(), userID, c.Param("id"), &workflow.DocumentDraft{
		Title:    title,
		FileName: file.Filename,
		FilePath: storedPath,
		FileSize: file.Size,
	})
	if err != nil {
		os.Remove(storedPath)
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toDocumentResponse(doc))
}

// DeleteDocument removes a task document (uploader or manager)
func (h *TaskHandler) DeleteDocument(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteDocument(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
