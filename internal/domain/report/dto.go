package report

import (
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/validator"
)

// Calendar statuses.
const (
	StatusOnTime = "onTime"
	StatusLate   = "late"
	StatusOff    = "off"
)

// Daily monitoring statuses.
const (
	MonitoringPresent = "Hadir"
	MonitoringLate    = "Telat"
	MonitoringAbsent  = "Belum Hadir"
)

// ========================================
// PERSONAL VIEWS
// ========================================

type CalendarEntry struct {
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	Time      string  `json:"time"` // HH:mm business time, "-" for permits
	IsHalfDay bool    `json:"is_half_day"`
	IsLate    bool    `json:"is_late"`
	Notes     *string `json:"notes,omitempty"`
}

type MonthRecap struct {
	Month     string `json:"month"`      // "Maret 2025"
	MonthCode string `json:"month_code"` // "2025-03"
	OnTime    int    `json:"on_time"`
	Late      int    `json:"late"`
	Off       int    `json:"off"`
	Holiday   int    `json:"holiday"`
	Alpha     int    `json:"alpha"`
}

type HistoryRequest struct {
	UserID string    `json:"-"`
	Role   user.Role `json:"-"`
	Month  string    `json:"month"`
}

func (r *HistoryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	if validator.IsEmpty(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	} else if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DayHistory struct {
	Date     string                      `json:"date"`
	CheckIn  *attendance.RecordResponse  `json:"check_in"`
	CheckOut *attendance.RecordResponse  `json:"check_out"`
	Events   []attendance.RecordResponse `json:"events"`
}

type DashboardStats struct {
	Hadir  int `json:"hadir"`
	Telat  int `json:"telat"`
	Lembur int `json:"lembur"`
	Izin   int `json:"izin"`
	Alpha  int `json:"alpha"`
}

// ========================================
// MANAGER VIEWS
// ========================================

type LeaderboardEntry struct {
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Present        int     `json:"present"`
	Late           int     `json:"late"`
	Score          int     `json:"score"`
	LatePercentage float64 `json:"late_percentage"`
}

type BranchLeaderboard struct {
	BranchID   string             `json:"branch_id"`
	BranchName string             `json:"branch_name"`
	Best       []LeaderboardEntry `json:"best"`
	Worst      []LeaderboardEntry `json:"worst"`
}

type MonitoringRow struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Role         user.Role `json:"role"`
	Branch       string    `json:"branch"`
	Status       string    `json:"status"`
	CheckInTime  *string   `json:"check_in_time"`
	CheckOutTime *string   `json:"check_out_time"`
	Notes        *string   `json:"notes,omitempty"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	TotalPoints  int       `json:"total_points"`
	IsHighRisk   bool      `json:"is_high_risk"`
}

type BranchRecapRequest struct {
	BranchID string `json:"branch_id"`
	Month    string `json:"month"`
}

func (r *BranchRecapRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BranchID) {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: ErrBranchIDRequired.Error(),
		})
	}
	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BranchRecapRow struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Role         user.Role `json:"role"`
	Hadir        int       `json:"hadir"`
	Telat        int       `json:"telat"`
	Izin         int       `json:"izin"`
	Alpha        int       `json:"alpha"`
	TotalRecords int       `json:"total_records"`
}

type BranchRecap struct {
	BranchID    string           `json:"branch_id"`
	BranchName  string           `json:"branch_name"`
	Month       string           `json:"month"`
	PeriodLabel string           `json:"period_label"` // "Maret 2025"
	GeneratedAt string           `json:"generated_at"`
	Rows        []BranchRecapRow `json:"rows"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
