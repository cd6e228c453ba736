package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carenote/carenote-api/internal/handler"
	"github.com/carenote/carenote-api/internal/middleware"
	"github.com/carenote/carenote-api/internal/model"
	userService "github.com/carenote/carenote-api/internal/service/user"
)

// Handler serves the patient-side surface: browsing doctors, picking one,
// and the patient's own overview.
type Handler struct {
	users *userService.Service
}

func NewHandler(users *userService.Service) *Handler {
	return &Handler{users: users}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/doctors", h.ListDoctors)
	r.POST("/doctors/select", h.SelectDoctor)
	r.GET("/me", h.Overview)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.users.ListDoctors(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) SelectDoctor(c *gin.Context) {
	var req model.SelectDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor_id"))
		return
	}

	if err := h.users.SelectDoctor(c.Request.Context(), middleware.UserID(c), doctorID); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// Overview returns the calling patient's steps and reminders.
func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.users.PatientOverview(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(overview))
}
