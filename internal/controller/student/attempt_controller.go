package student

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haduong/smartmcq/internal/controller"
	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptSvc    service.AttemptService
	submissionSvc service.SubmissionService
	resultSvc     service.ResultService
}

func NewAttemptController(
	attemptSvc service.AttemptService,
	submissionSvc service.SubmissionService,
	resultSvc service.ResultService,
) *AttemptController {
	return &AttemptController{
		attemptSvc:    attemptSvc,
		submissionSvc: submissionSvc,
		resultSvc:     resultSvc,
	}
}

// JoinSession godoc
// @Summary (Student) Join a test session with an access code
// @Description Redeems a 6-character access code against an active session and creates the student's attempt.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param join body dto.JoinSessionRequest true "Student ID and access code"
// @Success 201 {object} dto.AttemptResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed access code"
// @Failure 404 {object} dto.ErrorResponse "No active session for this code"
// @Failure 409 {object} dto.ErrorResponse "Session not started / expired / already joined"
// @Router /sessions/join [post]
func (ctrl *AttemptController) JoinSession(c *gin.Context) {
	var req dto.JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind JoinSessionRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	attempt, err := ctrl.attemptSvc.JoinSession(req)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attempt)
}

// GetCurrentQuestion godoc
// @Summary (Student) Get the attempt's current question
// @Description Returns the question at the attempt's current index without correctness flags, plus progress and remaining seconds.
// @Tags Student - Attempts
// @Produce json
// @Param id path int true "Attempt ID"
// @Param student_id query int true "Student ID"
// @Success 200 {object} dto.CurrentQuestionResponse
// @Failure 403 {object} dto.ErrorResponse "Attempt owned by another student"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{id}/current-question [get]
func (ctrl *AttemptController) GetCurrentQuestion(c *gin.Context) {
	attemptID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	studentID, ok := controller.ParseIDQuery(c, "student_id")
	if !ok {
		return
	}

	resp, err := ctrl.attemptSvc.GetCurrentQuestion(attemptID, studentID)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Navigate godoc
// @Summary (Student) Move to the next or previous question
// @Description Moves the current-question pointer. Out-of-range moves are no-ops; a submitted attempt rejects navigation.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param id path int true "Attempt ID"
// @Param navigate body dto.NavigateRequest true "Direction: next or previous"
// @Success 200 {object} dto.AttemptResponse
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /attempts/{id}/navigate [post]
func (ctrl *AttemptController) Navigate(c *gin.Context) {
	attemptID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.attemptSvc.Navigate(attemptID, req)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaveAnswer godoc
// @Summary (Student) Save an answer for a question
// @Description Upserts the answer for (attempt, question). Correctness is recomputed server-side on every save.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param id path int true "Attempt ID"
// @Param answer body dto.SaveAnswerRequest true "Question, selected choice and time spent"
// @Success 200 {object} dto.SaveAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid choice label"
// @Failure 409 {object} dto.ErrorResponse "Attempt already submitted"
// @Router /attempts/{id}/answers [post]
func (ctrl *AttemptController) SaveAnswer(c *gin.Context) {
	attemptID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SaveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SaveAnswerRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.attemptSvc.SaveAnswer(attemptID, req)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Submit godoc
// @Summary (Student) Submit the attempt
// @Description Finalizes the attempt. Manual submits need an active session; auto submits are honored only after the server-computed deadline and report remaining seconds otherwise.
// @Tags Student - Attempts
// @Accept json
// @Produce json
// @Param id path int true "Attempt ID"
// @Param submit body dto.SubmitRequest true "Student ID and trigger (manual|auto)"
// @Success 200 {object} dto.SubmitResultResponse
// @Failure 409 {object} dto.ErrorResponse "Already submitted, session closed, or not yet expired (includes remaining_seconds)"
// @Router /attempts/{id}/submit [post]
func (ctrl *AttemptController) Submit(c *gin.Context) {
	attemptID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SubmitRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.submissionSvc.Submit(attemptID, req)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CanViewResults godoc
// @Summary (Student) Check whether the attempt's results are viewable
// @Tags Student - Results
// @Produce json
// @Param id path int true "Attempt ID"
// @Param student_id query int true "Student ID"
// @Success 200 {object} dto.CanViewResultsResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{id}/can-view-results [get]
func (ctrl *AttemptController) CanViewResults(c *gin.Context) {
	attemptID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	studentID, ok := controller.ParseIDQuery(c, "student_id")
	if !ok {
		return
	}

	resp, err := ctrl.resultSvc.CanViewResults(attemptID, studentID)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetResult godoc
// @Summary (Student) Get the attempt's released result
// @Description Full scored review of the attempt, available only once the release policy allows it.
// @Tags Student - Results
// @Produce json
// @Param id path int true "Attempt ID"
// @Param student_id query int true "Student ID"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 403 {object} dto.ErrorResponse "Results not yet available"
// @Failure 409 {object} dto.ErrorResponse "Attempt not submitted"
// @Router /attempts/{id}/result [get]
func (ctrl *AttemptController) GetResult(c *gin.Context) {
	attemptID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	studentID, ok := controller.ParseIDQuery(c, "student_id")
	if !ok {
		return
	}

	resp, err := ctrl.resultSvc.GetAttemptResult(attemptID, studentID)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
