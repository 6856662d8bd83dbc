package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is the single source of "now". Operations call Now once and pass the
// value along.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Used by tests and one-shot
// sweeps that run for a specific date.
type FixedClock struct {
	At time.Time
}

func (f FixedClock) Now() time.Time { return f.At }

// Business projects instants into the deployment's civil timezone.
type Business struct {
	Location *time.Location
}

// NewBusiness loads the named timezone (e.g. "Asia/Jakarta").
func NewBusiness(timezone string) (Business, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Business{}, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return Business{Location: loc}, nil
}

// Local returns t in business-local time.
func (b Business) Local(t time.Time) time.Time {
	return t.In(b.Location)
}

// DayRange returns [local midnight, next local midnight) for the business day
// containing t.
func (b Business) DayRange(t time.Time) (time.Time, time.Time) {
	local := b.Local(t)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, b.Location)
	return start, start.AddDate(0, 0, 1)
}

// MonthRange returns [first day 00:00, first day of next month 00:00) for the
// business month containing t.
func (b Business) MonthRange(t time.Time) (time.Time, time.Time) {
	local := b.Local(t)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, b.Location)
	return start, start.AddDate(0, 1, 0)
}

// DateKey formats the business-local calendar date as YYYY-MM-DD.
func (b Business) DateKey(t time.Time) string {
	return b.Local(t).Format("2006-01-02")
}

// ParseDate parses YYYY-MM-DD as a business-local midnight.
func (b Business) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, b.Location)
}

// ParseMonth parses YYYY-MM as the first business-local day of that month.
func (b Business) ParseMonth(month string) (time.Time, error) {
	return time.ParseInLocation("2006-01", month, b.Location)
}

// MinuteOfDay returns hour*60+minute of t in business-local time.
func (b Business) MinuteOfDay(t time.Time) int {
	local := b.Local(t)
	return local.Hour()*60 + local.Minute()
}

// ParseHHMM converts "HH:mm" (or "HH:mm:ss") into minutes since midnight.
func ParseHHMM(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}

	return hour*60 + minute, nil
}

// FormatMinutes renders minutes since midnight as "HH:mm".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthLabel renders the business-local month of t in Indonesian, e.g.
// "Maret 2025".
func (b Business) MonthLabel(t time.Time) string {
	local := b.Local(t)
	return fmt.Sprintf("%s %d", monthNames[local.Month()-1], local.Year())
}
