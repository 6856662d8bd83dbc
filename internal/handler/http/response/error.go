package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var geofenceErr *attendance.GeofenceError
	if errors.As(err, &geofenceErr) {
		BadRequest(w, geofenceErr.Error(), geofenceErr.Details())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingClaims):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Attendance validation
	case errors.Is(err, attendance.ErrInvalidCoordinates),
		errors.Is(err, attendance.ErrBranchRequired),
		errors.Is(err, attendance.ErrOutsideAllowedRadius),
		errors.Is(err, attendance.ErrInvalidPermitType),
		errors.Is(err, attendance.ErrInvalidDate),
		errors.Is(err, attendance.ErrInvalidMonth),
		errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, err.Error(), nil)

	// Attendance conflicts
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrDayClosed),
		errors.Is(err, attendance.ErrDayAlreadyRecorded):
		Conflict(w, err.Error())

	// Not found
	case errors.Is(err, attendance.ErrPermitNotFound),
		errors.Is(err, attendance.ErrRecordNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, branch.ErrBranchNotFound),
		errors.Is(err, schedule.ErrShiftNotFound),
		errors.Is(err, settings.ErrSettingNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, err.Error())

	// Other validation
	case errors.Is(err, report.ErrInvalidMonth),
		errors.Is(err, report.ErrBranchIDRequired),
		errors.Is(err, punishment.ErrZeroPoints),
		errors.Is(err, punishment.ErrReasonMissing),
		errors.Is(err, settings.ErrKeyRequired),
		errors.Is(err, settings.ErrValueRequired),
		errors.Is(err, settings.ErrValueNotNumeric),
		errors.Is(err, notification.ErrNoIDs):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
