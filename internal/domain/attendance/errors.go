package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Validation
	ErrInvalidCoordinates   = errors.New("invalid coordinates provided")
	ErrBranchRequired       = errors.New("user is not assigned to a branch")
	ErrOutsideAllowedRadius = errors.New("you are outside the allowed radius")
	ErrInvalidPermitType    = errors.New("permit type must be PERMIT or SICK")
	ErrInvalidDate          = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidMonth         = errors.New("invalid month, expected YYYY-MM")

	// Conflicts
	ErrAlreadyCheckedIn   = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut  = errors.New("you have already checked out today")
	ErrDayClosed          = errors.New("attendance for today is already closed by a permit, sick leave or alpha")
	ErrDayAlreadyRecorded = errors.New("attendance or permit for this date already exists")

	// Not found
	ErrNotCheckedIn   = errors.New("you have not checked in today")
	ErrPermitNotFound = errors.New("no permit found for that date")
	ErrRecordNotFound = errors.New("attendance record not found")
)

// GeofenceError carries the measured distances of a rejected check-in or
// check-out. It matches ErrOutsideAllowedRadius with errors.Is.
type GeofenceError struct {
	// Distance and MaxRadius describe a single-branch check.
	Distance  *float64
	MaxRadius *float64
	// NearestDistance is set for multi-branch (supervisor) checks.
	NearestDistance *float64
}

func (e *GeofenceError) Error() string {
	switch {
	case e.NearestDistance != nil:
		return fmt.Sprintf("not within any branch, nearest is %.0fm away", *e.NearestDistance)
	case e.Distance != nil && e.MaxRadius != nil:
		return fmt.Sprintf("outside branch radius: %.0fm away, %.0fm allowed", *e.Distance, *e.MaxRadius)
	}
	return ErrOutsideAllowedRadius.Error()
}

func (e *GeofenceError) Unwrap() error {
	return ErrOutsideAllowedRadius
}

// Details renders the distances for API error payloads.
func (e *GeofenceError) Details() map[string]string {
	details := map[string]string{}
	if e.Distance != nil {
		details["distance"] = fmt.Sprintf("%.2f", *e.Distance)
	}
	if e.MaxRadius != nil {
		details["max_radius"] = fmt.Sprintf("%.0f", *e.MaxRadius)
	}
	if e.NearestDistance != nil {
		details["nearest_distance"] = fmt.Sprintf("%.2f", *e.NearestDistance)
	}
	return details
}
