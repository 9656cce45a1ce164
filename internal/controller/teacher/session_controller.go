package teacher

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haduong/smartmcq/internal/controller"
	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/service"
	"github.com/rs/zerolog/log"
)

type SessionController struct {
	sessionSvc service.SessionService
	resultSvc  service.ResultService
}

func NewSessionController(sessionSvc service.SessionService, resultSvc service.ResultService) *SessionController {
	return &SessionController{sessionSvc: sessionSvc, resultSvc: resultSvc}
}

// CreateSession godoc
// @Summary (Teacher) Schedule a test session
// @Description Creates a session for one of the teacher's tests with a fresh access code. Start time must be in the future.
// @Tags Teacher - Sessions
// @Accept json
// @Produce json
// @Param session body dto.SessionCreateDTO true "Session definition"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} dto.ErrorResponse "Start time in the past"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /teacher/sessions [post]
func (ctrl *SessionController) CreateSession(c *gin.Context) {
	var req dto.SessionCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SessionCreateDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.sessionSvc.CreateSession(req)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSession godoc
// @Summary (Teacher) Get one of the teacher's sessions
// @Tags Teacher - Sessions
// @Produce json
// @Param id path int true "Session ID"
// @Param teacher_id query int true "Teacher ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /teacher/sessions/{id} [get]
func (ctrl *SessionController) GetSession(c *gin.Context) {
	sessionID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	teacherID, ok := controller.ParseIDQuery(c, "teacher_id")
	if !ok {
		return
	}

	resp, err := ctrl.sessionSvc.GetSession(sessionID, teacherID)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSessions godoc
// @Summary (Teacher) List the teacher's sessions
// @Tags Teacher - Sessions
// @Produce json
// @Param teacher_id query int true "Teacher ID"
// @Success 200 {array} dto.SessionResponse
// @Router /teacher/sessions [get]
func (ctrl *SessionController) ListSessions(c *gin.Context) {
	teacherID, ok := controller.ParseIDQuery(c, "teacher_id")
	if !ok {
		return
	}

	resp, err := ctrl.sessionSvc.ListSessions(teacherID)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelSession godoc
// @Summary (Teacher) Cancel a session
// @Description Deactivates the session and frees its access code for reuse. Cancelling an already cancelled session is a no-op.
// @Tags Teacher - Sessions
// @Produce json
// @Param id path int true "Session ID"
// @Param teacher_id query int true "Teacher ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /teacher/sessions/{id} [delete]
func (ctrl *SessionController) CancelSession(c *gin.Context) {
	sessionID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	teacherID, ok := controller.ParseIDQuery(c, "teacher_id")
	if !ok {
		return
	}

	if err := ctrl.sessionSvc.CancelSession(sessionID, teacherID); err != nil {
		controller.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SessionResults godoc
// @Summary (Teacher) View all attempt results for a session
// @Description Scored summaries for every attempt in the session, visible to the owning teacher regardless of release state.
// @Tags Teacher - Results
// @Produce json
// @Param id path int true "Session ID"
// @Param teacher_id query int true "Teacher ID"
// @Success 200 {object} dto.SessionResultsResponse
// @Failure 403 {object} dto.ErrorResponse "Session owned by another teacher"
// @Router /teacher/sessions/{id}/results [get]
func (ctrl *SessionController) SessionResults(c *gin.Context) {
	sessionID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	teacherID, ok := controller.ParseIDQuery(c, "teacher_id")
	if !ok {
		return
	}

	resp, err := ctrl.resultSvc.SessionResults(sessionID, teacherID)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
