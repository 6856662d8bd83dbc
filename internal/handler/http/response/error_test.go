package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", validator.ValidationErrors{{Field: "date", Message: "bad"}}, http.StatusUnprocessableEntity},
		{"bad coordinates", attendance.ErrInvalidCoordinates, http.StatusBadRequest},
		{"missing branch", attendance.ErrBranchRequired, http.StatusBadRequest},
		{"duplicate check-in", attendance.ErrAlreadyCheckedIn, http.StatusConflict},
		{"wrapped conflict", fmt.Errorf("check-in: %w", attendance.ErrDayAlreadyRecorded), http.StatusConflict},
		{"permit missing", attendance.ErrPermitNotFound, http.StatusNotFound},
		{"branch missing", branch.ErrBranchNotFound, http.StatusNotFound},
		{"bad month", report.ErrInvalidMonth, http.StatusBadRequest},
		{"bad token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandleError_GeofenceDetails(t *testing.T) {
	distance, radius := 120.4, 100.0
	err := fmt.Errorf("check-in: %w", &attendance.GeofenceError{Distance: &distance, MaxRadius: &radius})

	rec := httptest.NewRecorder()
	HandleError(rec, err)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "120.40", body.Error.Details["distance"])
	assert.Equal(t, "100", body.Error.Details["max_radius"])
}
