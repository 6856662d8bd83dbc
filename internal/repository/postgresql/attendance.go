package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// dailyEventConstraint covers CHECK_IN and CHECK_OUT only.
const dailyEventConstraint = "uq_attendance_records_daily_event"

const recordColumns = `
	id, user_id, type, recorded_at, latitude, longitude, device_id,
	is_late, is_overtime, is_half_day, notes, photo_url, created_at
`

type attendanceRepository struct {
	db       *database.DB
	business clock.Business
}

// NewAttendanceRepository stores records with their business day so the
// unique index can reject a second CHECK_IN or CHECK_OUT.
func NewAttendanceRepository(db *database.DB, business clock.Business) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, business: business}
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var r attendance.Record
	var recordType string
	err := row.Scan(
		&r.ID, &r.UserID, &recordType, &r.Timestamp, &r.Latitude, &r.Longitude, &r.DeviceID,
		&r.IsLate, &r.IsOvertime, &r.IsHalfDay, &r.Notes, &r.PhotoURL, &r.CreatedAt,
	)
	r.Type = attendance.Type(recordType)
	return r, err
}

func collectRecords(rows pgx.Rows) ([]attendance.Record, error) {
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}
	return records, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	query := `
		INSERT INTO attendance_records (
			id, user_id, type, recorded_at, business_day, latitude, longitude, device_id,
			is_late, is_overtime, is_half_day, notes, photo_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.UserID,
		string(record.Type),
		record.Timestamp,
		a.business.DateKey(record.Timestamp),
		record.Latitude,
		record.Longitude,
		record.DeviceID,
		record.IsLate,
		record.IsOvertime,
		record.IsHalfDay,
		record.Notes,
		record.PhotoURL,
	).Scan(&record.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, dailyEventConstraint) {
			if record.Type == attendance.TypeCheckOut {
				return attendance.Record{}, attendance.ErrAlreadyCheckedOut
			}
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// ListByUserAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE user_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return collectRecords(rows)
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE recorded_at >= $1 AND recorded_at < $2
		ORDER BY user_id ASC, recorded_at ASC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return collectRecords(rows)
}

// CountLateCheckIns implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountLateCheckIns(ctx context.Context, userID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(*)
		FROM attendance_records
		WHERE user_id = $1 AND type = 'CHECK_IN' AND is_late = true
		  AND recorded_at >= $2 AND recorded_at < $3
	`

	var count int
	if err := q.QueryRow(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count late check-ins: %w", err)
	}
	return count, nil
}

// ListOpenCheckIns implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenCheckIns(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + `
		FROM attendance_records ci
		WHERE ci.type = 'CHECK_IN'
		  AND ci.recorded_at >= $1 AND ci.recorded_at < $2
		  AND NOT EXISTS (
			SELECT 1 FROM attendance_records other
			WHERE other.user_id = ci.user_id
			  AND other.business_day = ci.business_day
			  AND other.type IN ('CHECK_OUT', 'PERMIT', 'SICK', 'ALPHA')
		  )
		ORDER BY ci.recorded_at ASC
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list open check-ins: %w", err)
	}
	return collectRecords(rows)
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	result, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}
