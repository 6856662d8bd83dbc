package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// WithTransaction executes fn inside a database transaction
func WithTransaction(ctx context.Context, db *database.DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.Error("rollback error during panic recovery", "error", rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetQuerier returns either transaction or pool
// Used in repositories to support both transactional and non-transactional operations
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value("tx").(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

type dayLocker struct {
	db       *database.DB
	business clock.Business
}

// NewDayLocker serializes writes per user and business day with a
// transaction-scoped advisory lock. The lock is released on commit or
// rollback.
func NewDayLocker(db *database.DB, business clock.Business) attendance.DayLocker {
	return &dayLocker{db: db, business: business}
}

// WithDayLock implements attendance.DayLocker.
func (l *dayLocker) WithDayLock(ctx context.Context, userID string, day time.Time, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value("tx").(pgx.Tx); ok {
		if err := l.lock(ctx, tx, userID, day); err != nil {
			return err
		}
		return fn(ctx)
	}

	return WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		if err := l.lock(ctx, tx, userID, day); err != nil {
			return err
		}
		txCtx := context.WithValue(ctx, "tx", tx)
		return fn(txCtx)
	})
}

func (l *dayLocker) lock(ctx context.Context, tx pgx.Tx, userID string, day time.Time) error {
	key := "attendance:" + userID + ":" + l.business.DateKey(day)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("failed to acquire day lock: %w", err)
	}
	return nil
}
