package schedule

import (
	"context"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
)

// Resolver answers which working window applies to a user.
type Resolver interface {
	// EffectiveHours resolves shift, then branch default, then 09:00-17:00.
	EffectiveHours(ctx context.Context, u user.User) (Hours, error)

	// NearestShift picks the shift whose start is closest to minuteOfDay.
	// ok is false when no shift is declared.
	NearestShift(ctx context.Context, minuteOfDay int) (shift Shift, hours Hours, ok bool, err error)
}
