package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/punishment"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

type punishmentRepository struct {
	db *database.DB
}

func NewPunishmentRepository(db *database.DB) punishment.PunishmentRepository {
	return &punishmentRepository{db: db}
}

// Create implements punishment.PunishmentRepository.
func (r *punishmentRepository) Create(ctx context.Context, entry punishment.Entry) (punishment.Entry, error) {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO punishments (id, user_id, points, reason, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query, entry.ID, entry.UserID, entry.Points, entry.Reason, entry.Date).Scan(&entry.CreatedAt)
	if err != nil {
		return punishment.Entry{}, fmt.Errorf("failed to create punishment entry: %w", err)
	}
	return entry, nil
}

// SumByUserAndRange implements punishment.PunishmentRepository.
func (r *punishmentRepository) SumByUserAndRange(ctx context.Context, userID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(points), 0)
		FROM punishments
		WHERE user_id = $1 AND date >= $2 AND date < $3
	`

	var total int
	if err := q.QueryRow(ctx, query, userID, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum punishment points: %w", err)
	}
	return total, nil
}

// SumByRange implements punishment.PunishmentRepository.
func (r *punishmentRepository) SumByRange(ctx context.Context, from, to time.Time) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, COALESCE(SUM(points), 0)
		FROM punishments
		WHERE date >= $1 AND date < $2
		GROUP BY user_id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum punishment points: %w", err)
	}
	defer rows.Close()

	totals := map[string]int{}
	for rows.Next() {
		var userID string
		var total int
		if err := rows.Scan(&userID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan punishment total: %w", err)
		}
		totals[userID] = total
	}
	return totals, rows.Err()
}

// SumByUser implements punishment.PunishmentRepository.
func (r *punishmentRepository) SumByUser(ctx context.Context, userID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var total int
	err := q.QueryRow(ctx, `SELECT COALESCE(SUM(points), 0) FROM punishments WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum punishment points: %w", err)
	}
	return total, nil
}

// ListRecentByUser implements punishment.PunishmentRepository.
func (r *punishmentRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]punishment.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, points, reason, date, created_at
		FROM punishments
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list punishment entries: %w", err)
	}
	defer rows.Close()

	var entries []punishment.Entry
	for rows.Next() {
		var e punishment.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Points, &e.Reason, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan punishment entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
