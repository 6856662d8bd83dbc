package punishment

import "time"

// Points applied by the attendance rules.
const (
	PointsLate           = 5
	PointsNoShow         = 20
	PointsForgotCheckout = 2
)

// Entry is an append-only ledger row. Corrections are new entries with
// negative points.
type Entry struct {
	ID        string
	UserID    string
	Points    int
	Reason    string
	Date      time.Time
	CreatedAt time.Time
}
