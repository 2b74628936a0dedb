package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================
// Clients
// ============================================

type CreateClientRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

type UpdateClientRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Company   *string   `json:"company,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ============================================
// Projects
// ============================================

type CreateProjectRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   *string         `json:"description"`
	ClientID      string          `json:"clientId" binding:"required"`
	Location      string          `json:"location"`
	Status        string          `json:"status"`
	StartDate     time.Time       `json:"startDate" binding:"required"`
	EndDate       time.Time       `json:"endDate" binding:"required"`
	Budget        decimal.Decimal `json:"budget"`
	TeamMemberIDs []string        `json:"teamMemberIds"`
}

type UpdateProjectRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description *string         `json:"description"`
	ClientID    string          `json:"clientId" binding:"required"`
	Location    string          `json:"location"`
	Status      string          `json:"status" binding:"required"`
	StartDate   time.Time       `json:"startDate" binding:"required"`
	EndDate     time.Time       `json:"endDate" binding:"required"`
	Budget      decimal.Decimal `json:"budget"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type ProjectResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	ClientID      string          `json:"clientId"`
	Location      string          `json:"location"`
	Status        string          `json:"status"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       time.Time       `json:"endDate"`
	Budget        decimal.Decimal `json:"budget"`
	ManagerID     string          `json:"managerId"`
	TeamMemberIDs []string        `json:"teamMemberIds"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
