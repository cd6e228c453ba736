package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carenote/carenote-api/internal/handler"
	userService "github.com/carenote/carenote-api/internal/service/user"
)

// Handler serves the admin-facing user directory.
type Handler struct {
	service *userService.Service
}

func NewHandler(service *userService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users", h.ListUsers)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}
