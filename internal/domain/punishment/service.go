package punishment

import (
	"context"
	"time"
)

// Ledger accumulates disciplinary points and answers risk questions.
type Ledger interface {
	Append(ctx context.Context, entry Entry) (Entry, error)
	TotalPoints(ctx context.Context, userID string, from, to time.Time) (int, error)
	// IsHighRisk is true when the total strictly exceeds threshold.
	IsHighRisk(ctx context.Context, userID string, from, to time.Time, threshold int) (bool, error)
	// Threshold reads max_punishment_points, falling back to 50.
	Threshold(ctx context.Context) int
	// Summary returns the latest 20 entries and the all-time total.
	Summary(ctx context.Context, userID string) (SummaryResponse, error)
	AddManual(ctx context.Context, req ManualEntryRequest) (EntryResponse, error)
}
