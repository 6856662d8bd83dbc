package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	// List returns every user ordered by role then name.
	List(ctx context.Context) ([]User, error)
	// ListByRole returns users holding role. A non-nil branchID narrows the
	// result to that branch.
	ListByRole(ctx context.Context, role Role, branchID *string) ([]User, error)
	// ListExcludingRoles returns every user whose role is not in roles.
	ListExcludingRoles(ctx context.Context, roles ...Role) ([]User, error)
}
