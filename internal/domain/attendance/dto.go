package attendance

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT DTOs
// ========================================

const maxPhotoSize = 10 << 20 // 10MB

// Photo is an optional proof picture attached to a check-in or check-out.
type Photo struct {
	File     io.Reader
	Filename string
	Size     int64
}

type CheckInRequest struct {
	UserID    string  `json:"-"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	DeviceID  *string `json:"device_id,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Photo     *Photo  `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	errs = append(errs, validatePhoto(r.Photo)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	UserID    string  `json:"-"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	DeviceID  *string `json:"device_id,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Photo     *Photo  `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	errs = append(errs, validatePhoto(r.Photo)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePhoto(p *Photo) validator.ValidationErrors {
	if p == nil {
		return nil
	}
	var errs validator.ValidationErrors
	ext := strings.ToLower(filepath.Ext(p.Filename))
	if !validator.IsInSlice(ext, []string{".jpg", ".jpeg", ".png"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "invalid file type: only jpg, jpeg, png allowed",
		})
	} else if p.Size > maxPhotoSize {
		errs = append(errs, validator.ValidationError{
			Field:   "photo",
			Message: "photo size must not exceed 10MB",
		})
	}
	return errs
}

type RecordResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Type       Type    `json:"type"`
	Timestamp  string  `json:"timestamp"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DeviceID   string  `json:"device_id"`
	IsLate     bool    `json:"is_late"`
	IsOvertime bool    `json:"is_overtime"`
	IsHalfDay  bool    `json:"is_half_day"`
	Notes      *string `json:"notes,omitempty"`
	PhotoURL   *string `json:"photo_url,omitempty"`
}

func ToRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		Type:       r.Type,
		Timestamp:  r.Timestamp.Format(time.RFC3339),
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		DeviceID:   r.DeviceID,
		IsLate:     r.IsLate,
		IsOvertime: r.IsOvertime,
		IsHalfDay:  r.IsHalfDay,
		Notes:      r.Notes,
		PhotoURL:   r.PhotoURL,
	}
}

type CheckInResponse struct {
	Record            RecordResponse `json:"record"`
	IsLate            bool           `json:"is_late"`
	IsHalfDay         bool           `json:"is_half_day"`
	LateMinutes       int            `json:"late_minutes"`
	PunishmentPoints  int            `json:"punishment_points"`
	Warning           *string        `json:"warning,omitempty"`
	HalfDayInfo       *string        `json:"half_day_info,omitempty"`
	VisitedBranchName *string        `json:"visited_branch_name,omitempty"`
	Schedule          string         `json:"schedule"`
}

type CheckOutResponse struct {
	Record     RecordResponse `json:"record"`
	IsOvertime bool           `json:"is_overtime"`
	// WorkedMinutes is set when a check-in exists for the day.
	WorkedMinutes *int `json:"worked_minutes,omitempty"`
}

// ========================================
// PERMIT DTOs
// ========================================

type PermitRequest struct {
	UserID string `json:"-"`
	Date   string `json:"date"` // YYYY-MM-DD, business-local
	Type   Type   `json:"type"` // PERMIT or SICK
	Reason string `json:"reason"`
}

func (r *PermitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: ErrInvalidDate.Error(),
		})
	}

	if r.Type != TypePermit && r.Type != TypeSick {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: ErrInvalidPermitType.Error(),
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CancelPermitRequest struct {
	UserID string `json:"-"`
	Date   string `json:"date"`
}

func (r *CancelPermitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: ErrInvalidDate.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PermitResponse struct {
	Record     RecordResponse `json:"record"`
	NotifiedTo []string       `json:"notified_to"`
}

type TodayStatusResponse struct {
	Date     string          `json:"date"`
	State    State           `json:"state"`
	CheckIn  *RecordResponse `json:"check_in,omitempty"`
	CheckOut *RecordResponse `json:"check_out,omitempty"`
	Marker   *RecordResponse `json:"marker,omitempty"`
	Schedule string          `json:"schedule"`
}
