package audit

import "time"

const (
	ActionCheckIn         = "CHECK_IN"
	ActionCheckOut        = "CHECK_OUT"
	ActionPermitSubmit    = "PERMIT_SUBMIT"
	ActionPermitCancel    = "PERMIT_CANCEL"
	ActionPunishmentAdd   = "PUNISHMENT_ADD"
	ActionSettingsUpdate  = "SETTINGS_UPDATE"
	ActionDailySweepAlpha = "AUTO_ALPHA"
)

// Log is a record of who did what to which target.
type Log struct {
	ID          string
	Action      string
	PerformedBy string
	TargetID    *string
	Details     *string
	Timestamp   time.Time
}
