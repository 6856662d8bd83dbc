package punishment

import (
	"context"
	"time"
)

// PunishmentRepository has no update or delete: the ledger is append-only.
type PunishmentRepository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)

	// SumByUserAndRange totals points dated inside [from, to).
	SumByUserAndRange(ctx context.Context, userID string, from, to time.Time) (int, error)

	// SumByRange totals points per user dated inside [from, to).
	SumByRange(ctx context.Context, from, to time.Time) (map[string]int, error)

	// SumByUser totals every entry the user has.
	SumByUser(ctx context.Context, userID string) (int, error)

	// ListRecentByUser returns the newest entries first.
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
}
