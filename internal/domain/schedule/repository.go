package schedule

import "context"

type ShiftRepository interface {
	GetByID(ctx context.Context, id string) (Shift, error)
	// List returns shifts in declaration order. Nearest-shift ties resolve to
	// the earlier entry.
	List(ctx context.Context) ([]Shift, error)
}
