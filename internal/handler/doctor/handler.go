package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carenote/carenote-api/internal/handler"
	"github.com/carenote/carenote-api/internal/middleware"
	"github.com/carenote/carenote-api/internal/model"
	noteService "github.com/carenote/carenote-api/internal/service/note"
	userService "github.com/carenote/carenote-api/internal/service/user"
)

// Handler serves the doctor-side surface: the assigned patient roster and
// note submission.
type Handler struct {
	users *userService.Service
	notes *noteService.Service
}

func NewHandler(users *userService.Service, notes *noteService.Service) *Handler {
	return &Handler{users: users, notes: notes}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/patients", h.ListPatients)
	r.POST("/patients/notes", h.SubmitNote)
}

// ListPatients returns the calling doctor's assigned patients with their
// current steps and latest note.
func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.users.ListDoctorPatients(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

// SubmitNote ingests a note for one of the doctor's patients and returns
// the steps extracted from it.
func (h *Handler) SubmitNote(c *gin.Context) {
	var req model.SubmitNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient_id"))
		return
	}

	steps, err := h.notes.IngestNote(c.Request.Context(), middleware.UserID(c), patientID, req.Note)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(steps))
}
