package teacher

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/haduong/smartmcq/internal/controller"
	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/service"
	"github.com/rs/zerolog/log"
)

type ResultController struct {
	resultSvc service.ResultService
}

func NewResultController(resultSvc service.ResultService) *ResultController {
	return &ResultController{resultSvc: resultSvc}
}

// ReleaseResult godoc
// @Summary (Teacher) Release a single attempt's result
// @Description Marks a submitted attempt's result as released to the student. Only the session's owning teacher may release.
// @Tags Teacher - Results
// @Accept json
// @Produce json
// @Param id path int true "Attempt ID"
// @Param release body dto.ReleaseResultRequest true "Releasing teacher"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse "Session owned by another teacher"
// @Failure 409 {object} dto.ErrorResponse "Attempt not submitted or already released"
// @Router /teacher/attempts/{id}/release [post]
func (ctrl *ResultController) ReleaseResult(c *gin.Context) {
	attemptID, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ReleaseResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind ReleaseResultRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	if err := ctrl.resultSvc.ReleaseResult(attemptID, req.TeacherID); err != nil {
		controller.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkRelease godoc
// @Summary (Teacher) Release several attempts' results at once
// @Description Releases each listed attempt. Attempts that cannot be released are reported back as skipped instead of failing the batch.
// @Tags Teacher - Results
// @Accept json
// @Produce json
// @Param release body dto.BulkReleaseRequest true "Teacher and attempt IDs"
// @Success 200 {object} dto.BulkReleaseResponse
// @Router /teacher/attempts/release [post]
func (ctrl *ResultController) BulkRelease(c *gin.Context) {
	var req dto.BulkReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind BulkReleaseRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.resultSvc.BulkRelease(req)
	if err != nil {
		controller.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
