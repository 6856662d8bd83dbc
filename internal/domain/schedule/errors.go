package schedule

import "errors"

var (
	ErrShiftNotFound    = errors.New("shift not found")
	ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:mm")
)
