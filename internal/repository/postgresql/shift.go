package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) schedule.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

// GetByID implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, start_hour, end_hour FROM shifts WHERE id = $1`

	var s schedule.Shift
	err := q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.StartHour, &s.EndHour)
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.Shift{}, schedule.ErrShiftNotFound
		}
		return schedule.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

// List implements schedule.ShiftRepository. Declaration order is creation
// order.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, start_hour, end_hour FROM shifts ORDER BY created_at ASC, id ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []schedule.Shift
	for rows.Next() {
		var s schedule.Shift
		if err := rows.Scan(&s.ID, &s.Name, &s.StartHour, &s.EndHour); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, nil
}
