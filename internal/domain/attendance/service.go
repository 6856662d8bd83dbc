package attendance

import (
	"context"
)

// AttendanceService defines the attendance state machine for one user and
// business day: NONE -> CHECKED_IN -> CHECKED_OUT, with PERMIT, SICK and
// ALPHA as terminal side states.
type AttendanceService interface {
	// CheckIn validates location, classifies lateness and records a CHECK_IN
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// CheckOut classifies overtime and records a CHECK_OUT
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// SubmitPermit records a PERMIT or SICK marker for a day with no records
	SubmitPermit(ctx context.Context, req PermitRequest) (PermitResponse, error)

	// CancelPermit deletes the PERMIT or SICK marker of a day
	CancelPermit(ctx context.Context, req CancelPermitRequest) error

	// TodayStatus reports the caller's state for the current business day
	TodayStatus(ctx context.Context, userID string) (TodayStatusResponse, error)
}
