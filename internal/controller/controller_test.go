package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/haduong/smartmcq/internal/dto"
	"github.com/haduong/smartmcq/internal/service"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"access denied", service.ErrAccessDenied, http.StatusForbidden},
		{"bad access code", service.ErrInvalidAccessCode, http.StatusBadRequest},
		{"bad choice", service.ErrInvalidChoice, http.StatusBadRequest},
		{"start time in past", service.ErrStartTimeInPast, http.StatusBadRequest},
		{"session not started", service.ErrSessionNotStarted, http.StatusConflict},
		{"session expired", service.ErrSessionExpired, http.StatusConflict},
		{"already joined", service.ErrAlreadyJoined, http.StatusConflict},
		{"already submitted", service.ErrAlreadySubmitted, http.StatusConflict},
		{"not submitted", service.ErrNotSubmitted, http.StatusConflict},
		{"already released", service.ErrAlreadyReleased, http.StatusConflict},
		{"results not visible", service.ErrResultsNotVisible, http.StatusForbidden},
		{"wrapped sentinel", errors.Join(errors.New("ctx"), service.ErrNotFound), http.StatusNotFound},
		{"unknown error", errors.New("pg connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			WriteError(c, tt.err)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	WriteError(c, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	var body dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("body.Error = %q, want the generic message", body.Error)
	}
}

func TestWriteErrorNotExpiredYet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	WriteError(c, &service.NotExpiredYetError{RemainingSeconds: 42})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	var body dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.RemainingSeconds == nil || *body.RemainingSeconds != 42 {
		t.Errorf("remaining_seconds = %v, want 42", body.RemainingSeconds)
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		value  string
		wantID uint
		wantOK bool
	}{
		{"valid id", "42", 42, true},
		{"zero id", "0", 0, true},
		{"non-numeric", "abc", 0, false},
		{"negative", "-1", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			id, ok := ParseIDParam(c, "id")
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("ParseIDParam(%q) = (%d, %v), want (%d, %v)", tt.value, id, ok, tt.wantID, tt.wantOK)
			}
			if !tt.wantOK && rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 on parse failure", rec.Code)
			}
		})
	}
}

func TestParseIDQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/x?student_id=7", nil)
	if id, ok := ParseIDQuery(c, "student_id"); !ok || id != 7 {
		t.Errorf("ParseIDQuery() = (%d, %v), want (7, true)", id, ok)
	}

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	if _, ok := ParseIDQuery(c, "student_id"); ok {
		t.Error("ParseIDQuery() should fail when the parameter is missing")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when the parameter is missing", rec.Code)
	}
}
