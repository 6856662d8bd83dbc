package punishment

import (
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/validator"
)

// ManualEntryRequest is an administrator-issued sanction or correction.
type ManualEntryRequest struct {
	UserID      string `json:"user_id"`
	Points      int    `json:"points"`
	Reason      string `json:"reason"`
	PerformedBy string `json:"-"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	} else if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if r.Points == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "points",
			Message: ErrZeroPoints.Error(),
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: ErrReasonMissing.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EntryResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
	Date   string `json:"date"`
}

func ToEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		ID:     e.ID,
		UserID: e.UserID,
		Points: e.Points,
		Reason: e.Reason,
		Date:   e.Date.Format(time.RFC3339),
	}
}

type SummaryResponse struct {
	TotalPoints int             `json:"total_points"`
	History     []EntryResponse `json:"history"`
}
