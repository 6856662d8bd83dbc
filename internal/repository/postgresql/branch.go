package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/master/branch"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type branchRepositoryImpl struct {
	db *database.DB
}

func NewBranchRepository(db *database.DB) branch.BranchRepository {
	return &branchRepositoryImpl{db: db}
}

const branchSelect = `
	SELECT id, name, address, latitude, longitude, radius,
		   COALESCE(start_hour, ''), COALESCE(end_hour, '')
	FROM branches
`

func scanBranch(row pgx.Row) (branch.Branch, error) {
	var b branch.Branch
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Address,
		&b.Latitude,
		&b.Longitude,
		&b.Radius,
		&b.StartHour,
		&b.EndHour,
	)
	return b, err
}

// GetByID implements branch.BranchRepository.
func (r *branchRepositoryImpl) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	result, err := scanBranch(q.QueryRow(ctx, branchSelect+` WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return branch.Branch{}, branch.ErrBranchNotFound
		}
		return branch.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	return result, nil
}

// List implements branch.BranchRepository.
func (r *branchRepositoryImpl) List(ctx context.Context) ([]branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, branchSelect+` ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []branch.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}

	return branches, nil
}
