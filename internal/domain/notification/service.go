package notification

import (
	"context"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
)

// Service defines the notification service interface
type Service interface {
	// Queue notification (async processing via background workers)
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	// Direct operations
	GetNotifications(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, notificationID string) error

	// SSE subscription
	Subscribe(ctx context.Context, userID string) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}

// Dispatcher decides who hears about an attendance event and hands the
// messages to the queue. It never fails the caller: problems are logged.
type Dispatcher interface {
	// NotifySuperior escalates along the role hierarchy and returns the
	// resolved recipient ids.
	NotifySuperior(ctx context.Context, sender user.User, msg Message) []string

	// NotifyUsers sends msg to each recipient.
	NotifyUsers(ctx context.Context, recipientIDs []string, msg Message)
}
