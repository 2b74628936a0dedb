package models

import "time"

// ============================================
// Tasks
// ============================================

type CreateTaskRequest struct {
	ProjectID   string     `json:"projectId" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assignedTo"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// UpdateTaskRequest is a partial edit; absent fields stay unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assignedTo"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type LogTimeRequest struct {
	Hours float64 `json:"hours" binding:"required"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	CreatedBy   *string    `json:"createdBy,omitempty"`
	AssignedTo  *string    `json:"assignedTo,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	TimeSpent   float64    `json:"timeSpent"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type DocumentResponse struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"taskId"`
	Title      string    `json:"title"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	UploadedBy *string   `json:"uploadedBy,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}
