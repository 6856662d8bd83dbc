package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Every range is half-open: from <= timestamp < to.
type AttendanceRepository interface {
	// Create inserts a record. A second CHECK_IN or CHECK_OUT for the same
	// user and business day violates a unique index and returns
	// ErrAlreadyCheckedIn or ErrAlreadyCheckedOut.
	Create(ctx context.Context, record Record) (Record, error)

	// ListByUserAndRange returns the user's records ordered by timestamp.
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]Record, error)

	// ListByRange returns every user's records ordered by user then timestamp.
	ListByRange(ctx context.Context, from, to time.Time) ([]Record, error)

	// CountLateCheckIns counts CHECK_IN records flagged late.
	CountLateCheckIns(ctx context.Context, userID string, from, to time.Time) (int, error)

	// ListOpenCheckIns returns CHECK_IN records with no CHECK_OUT and no day
	// marker for the same user inside the range.
	ListOpenCheckIns(ctx context.Context, from, to time.Time) ([]Record, error)

	// Delete removes one record. Only permit cancellation uses it.
	Delete(ctx context.Context, id string) error
}

// DayLocker serializes every write for one user and business day. fn runs
// inside a transaction carried by the context it receives.
type DayLocker interface {
	WithDayLock(ctx context.Context, userID string, day time.Time, fn func(ctx context.Context) error) error
}
