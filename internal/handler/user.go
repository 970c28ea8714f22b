package handler

import (
	"net/http"

	"campushub/internal/middleware"
	"campushub/internal/model"
	"campushub/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves account-level endpoints for the authenticated user
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new User handler
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Memberships lists the caller's club memberships
// @Router /:code/users/memberships [get]
func (h *UserHandler) Memberships(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Not authorized"))
		return
	}

	memberships, err := h.users.ListMemberships(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	if memberships == nil {
		memberships = []*model.ClubMembership{}
	}
	c.JSON(http.StatusOK, memberships)
}

// EventRegistrations lists the caller's event registrations
// @Router /:code/users/event-registrations [get]
func (h *UserHandler) EventRegistrations(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Not authorized"))
		return
	}

	registrations, err := h.users.ListRegistrations(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	if registrations == nil {
		registrations = []*model.EventRegistration{}
	}
	c.JSON(http.StatusOK, registrations)
}

// DeleteMe deletes the caller's account after password re-confirmation
// @Router /:code/users/me [delete]
func (h *UserHandler) DeleteMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Not authorized"))
		return
	}

	var req model.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Password is required to delete account"))
		return
	}

	if err := h.users.DeleteAccount(c.Request.Context(), user, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
