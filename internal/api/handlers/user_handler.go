package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lon-tracker/internal/api/middleware"
	"lon-tracker/internal/models"
	"lon-tracker/internal/service"
)

// ============================================
// User Handler
// ============================================

type UserHandler struct {
	userService service.UserService
}

// Me returns the authenticated user's profile
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// List returns all users (for assignment pickers)
func (h *UserHandler) List(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	if query := c.Query("search"); query != "" {
		found, err := h.userService.Search(c.Request.Context(), query)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, toUserResponses(found))
		return
	}

	users, err := h.userService.GetAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponses(users))
}

// GetByID returns a single user by id
func (h *UserHandler) GetByID(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile updates the authenticated user's profile fields
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, &service.ProfileUpdate{
		Name:     req.Name,
		Phone:    req.Phone,
		Function: req.Function,
		Company:  req.Company,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword updates the authenticated user's password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
