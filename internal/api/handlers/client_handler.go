package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lon-tracker/internal/api/middleware"
	"lon-tracker/internal/models"
	"lon-tracker/internal/repository"
	"lon-tracker/internal/service"
)

// ============================================
// Client Handler
// ============================================

type ClientHandler struct {
	clientService service.ClientService
}

// Create registers a new client
func (h *ClientHandler) Create(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), &repository.Client{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toClientResponse(client))
}

// List returns all clients
func (h *ClientHandler) List(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	clients, err := h.clientService.GetAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClientResponses(clients))
}

// GetByID returns a single client
func (h *ClientHandler) GetByID(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClientResponse(client))
}

// Update replaces a client's details
func (h *ClientHandler) Update(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	var req models.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), &repository.Client{
		ID:      c.Param("id"),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toClientResponse(client))
}

// Delete removes a client without projects
func (h *ClientHandler) Delete(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}
