package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypePermitRequest         NotificationType = "permit_request"
	TypePermitConfirmation    NotificationType = "permit_confirmation"
	TypePermitCancel          NotificationType = "permit_cancel"
	TypeAlphaAlert            NotificationType = "alpha_alert"
	TypeCheckoutReminder      NotificationType = "checkout_reminder"
	TypeOvertimePrompt        NotificationType = "overtime_prompt"
	TypeLateThresholdExceeded NotificationType = "late_threshold_exceeded"
	TypeInfo                  NotificationType = "info"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypePermitRequest,
		TypePermitConfirmation,
		TypePermitCancel,
		TypeAlphaAlert,
		TypeCheckoutReminder,
		TypeOvertimePrompt,
		TypeLateThresholdExceeded,
		TypeInfo,
	}
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
