package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/audit"
	"github.com/cmlabs-hris/chiko-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}

// Create implements audit.AuditRepository.
func (r *auditRepository) Create(ctx context.Context, log audit.Log) error {
	q := GetQuerier(ctx, r.db)

	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	query := `
		INSERT INTO audit_logs (id, action, performed_by, target_id, details, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := q.Exec(ctx, query, log.ID, log.Action, log.PerformedBy, log.TargetID, log.Details, log.Timestamp); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}
