package attendance

import (
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/geo"
)

const (
	// HalfDayAfterMinutes marks a late check-in as a half day when exceeded.
	HalfDayAfterMinutes = 60
	// LateWarningAfter is the monthly late count above which a salary
	// deduction warning is issued.
	LateWarningAfter = 5
	// OvertimeAfterMinutes past the scheduled end counts as overtime.
	OvertimeAfterMinutes = 180
	// HeadOvertimeAfter is the worked duration above which a HEAD is on
	// overtime.
	HeadOvertimeAfter = 8 * time.Hour
)

// Lateness is the outcome of comparing a check-in against the schedule.
type Lateness struct {
	IsLate    bool
	IsHalfDay bool
	Minutes   int
}

// ClassifyLateness compares the business-local minute of a check-in with
// the resolved start. Arriving exactly on the start minute is on time.
// HEAD is never late.
func ClassifyLateness(role user.Role, minuteOfDay int, hours schedule.Hours) Lateness {
	if role == user.RoleHead {
		return Lateness{}
	}
	if minuteOfDay <= hours.Start {
		return Lateness{}
	}
	late := minuteOfDay - hours.Start
	return Lateness{
		IsLate:    true,
		IsHalfDay: late > HalfDayAfterMinutes,
		Minutes:   late,
	}
}

// IsHeadOvertime reports whether a HEAD worked longer than eight hours.
func IsHeadOvertime(checkIn, checkOut time.Time) bool {
	return checkOut.Sub(checkIn) > HeadOvertimeAfter
}

// IsShiftOvertime reports whether a check-out falls more than three hours
// after the scheduled end.
func IsShiftOvertime(minuteOfDay int, hours schedule.Hours) bool {
	return minuteOfDay-hours.End > OvertimeAfterMinutes
}

// ExceedsLateWarning is true when the late check-in about to be recorded
// brings the month's count above the warning limit.
func ExceedsLateWarning(priorLateThisMonth int) bool {
	return priorLateThisMonth+1 > LateWarningAfter
}

// MatchAnyBranch returns the first branch in list order whose geofence
// contains p. When none matches, nearest is the smallest distance seen
// and hasNearest is false only for an empty list.
func MatchAnyBranch(p geo.Point, branches []branch.Branch) (match branch.Branch, ok bool, nearest float64, hasNearest bool) {
	for i, b := range branches {
		d := geo.DistanceMeters(p, b.Center())
		if d <= b.AllowedRadius(geo.DefaultBranchRadius) {
			return b, true, d, true
		}
		if i == 0 || d < nearest {
			nearest = d
		}
	}
	return branch.Branch{}, false, nearest, len(branches) > 0
}
