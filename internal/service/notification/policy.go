package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/notification"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
)

type dispatcher struct {
	users    user.UserRepository
	notifier notification.Service
}

// NewDispatcher wires the escalation policy to the notification queue.
func NewDispatcher(users user.UserRepository, notifier notification.Service) notification.Dispatcher {
	return &dispatcher{users: users, notifier: notifier}
}

// ResolveSuperiors returns who an event raised by sender escalates to.
// Employees report to the heads of their branch, falling back to every
// owner when the branch has no head or the employee has no branch. Every
// other role reports to the owners.
func ResolveSuperiors(ctx context.Context, users user.UserRepository, sender user.User) ([]string, error) {
	var recipients []user.User

	if sender.Role == user.RoleEmployee && sender.HasBranch() {
		heads, err := users.ListByRole(ctx, user.RoleHead, sender.BranchID)
		if err != nil {
			return nil, fmt.Errorf("failed to list branch heads: %w", err)
		}
		recipients = heads
	}

	if len(recipients) == 0 {
		owners, err := users.ListByRole(ctx, user.RoleOwner, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list owners: %w", err)
		}
		recipients = owners
	}

	ids := make([]string, 0, len(recipients))
	for _, u := range recipients {
		if u.ID == sender.ID {
			continue
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (d *dispatcher) NotifySuperior(ctx context.Context, sender user.User, msg notification.Message) []string {
	ids, err := ResolveSuperiors(ctx, d.users, sender)
	if err != nil {
		slog.Error("failed to resolve superiors", "sender_id", sender.ID, "type", msg.Type, "error", err)
		return nil
	}
	if len(ids) == 0 {
		slog.Warn("no superior to notify", "sender_id", sender.ID, "role", sender.Role, "type", msg.Type)
		return ids
	}
	if msg.SenderID == nil {
		msg.SenderID = &sender.ID
	}
	d.NotifyUsers(ctx, ids, msg)
	return ids
}

func (d *dispatcher) NotifyUsers(ctx context.Context, recipientIDs []string, msg notification.Message) {
	if len(recipientIDs) == 0 {
		return
	}
	reqs := make([]notification.CreateNotificationRequest, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		reqs = append(reqs, msg.For(id))
	}
	if err := d.notifier.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Error("failed to queue notifications", "type", msg.Type, "recipients", len(reqs), "error", err)
	}
}
