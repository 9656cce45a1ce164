package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/service"
)

// WriteError maps service errors onto HTTP statuses. State and timing
// conflicts are 409s; ownership failures are 403s; anything unmatched is a
// 500 with a generic message so internals do not leak.
func WriteError(c *gin.Context, err error) {
	var notExpired *service.NotExpiredYetError
	if errors.As(err, &notExpired) {
		remaining := notExpired.RemainingSeconds
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: notExpired.Error(), RemainingSeconds: &remaining})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAccessDenied):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidAccessCode),
		errors.Is(err, service.ErrInvalidChoice),
		errors.Is(err, service.ErrInvalidDirection),
		errors.Is(err, service.ErrInvalidReleaseMode),
		errors.Is(err, service.ErrStartTimeInPast):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrSessionNotStarted),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrSessionCancelled),
		errors.Is(err, service.ErrAlreadyJoined),
		errors.Is(err, service.ErrAlreadySubmitted),
		errors.Is(err, service.ErrNotSubmitted),
		errors.Is(err, service.ErrAlreadyReleased):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrResultsNotVisible):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}

// ParseIDParam reads a uint path parameter; ok is false after it has already
// written the 400 response.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

// ParseIDQuery reads a required uint query parameter.
func ParseIDQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: name + " query parameter is required"})
		return 0, false
	}
	val, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
