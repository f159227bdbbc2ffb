package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samsapp/sams-backend/internal/model"
	"github.com/samsapp/sams-backend/internal/response"
	"github.com/samsapp/sams-backend/internal/service"
)

// UserHandler handles directory listings.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers godoc
// GET /api/v1/users?role=&department=
// Lists users, newest first, with optional role and department filters.
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := model.UserFilter{
		Role:       model.Role(c.Query("role")),
		Department: c.Query("department"),
	}

	users, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"users":       users,
		"total_count": len(users),
	})
}
