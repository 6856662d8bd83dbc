package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userSelect = `
	SELECT u.id, u.name, u.email, u.role, u.branch_id, u.shift_id, u.position, b.name
	FROM users u
	LEFT JOIN branches b ON b.id = u.branch_id
`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.BranchID, &u.ShiftID, &u.Position, &u.BranchName)
	u.Role = user.Role(role)
	return u, err
}

func (r *userRepositoryImpl) list(ctx context.Context, where string, args ...interface{}) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := userSelect + where + ` ORDER BY u.role ASC, u.name ASC`
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	return r.list(ctx, "")
}

// ListByRole implements user.UserRepository.
func (r *userRepositoryImpl) ListByRole(ctx context.Context, role user.Role, branchID *string) ([]user.User, error) {
	if branchID != nil {
		return r.list(ctx, ` WHERE u.role = $1 AND u.branch_id = $2`, string(role), *branchID)
	}
	return r.list(ctx, ` WHERE u.role = $1`, string(role))
}

// ListExcludingRoles implements user.UserRepository.
func (r *userRepositoryImpl) ListExcludingRoles(ctx context.Context, roles ...user.Role) ([]user.User, error) {
	if len(roles) == 0 {
		return r.list(ctx, "")
	}
	excluded := make([]string, len(roles))
	for i, role := range roles {
		excluded[i] = string(role)
	}
	return r.list(ctx, ` WHERE NOT (u.role = ANY($1))`, excluded)
}
