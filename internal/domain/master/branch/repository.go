package branch

import "context"

type BranchRepository interface {
	GetByID(ctx context.Context, id string) (Branch, error)
	// List returns branches in listing order (by name, then id). Supervisor
	// geofencing depends on this order.
	List(ctx context.Context) ([]Branch, error)
}
