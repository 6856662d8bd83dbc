package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/chiko-attendance-go/internal/domain/audit"
	"github.com/google/uuid"
)

// Recorder writes audit entries without ever failing the caller.
type Recorder struct {
	repo audit.AuditRepository
}

func NewRecorder(repo audit.AuditRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record stores one entry. A nil Recorder is a no-op.
func (r *Recorder) Record(ctx context.Context, action, performedBy string, targetID *string, details string) {
	if r == nil || r.repo == nil {
		return
	}
	entry := audit.Log{
		ID:          uuid.New().String(),
		Action:      action,
		PerformedBy: performedBy,
		TargetID:    targetID,
		Timestamp:   time.Now(),
	}
	if details != "" {
		entry.Details = &details
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		slog.Error("audit log failed", "action", action, "performed_by", performedBy, "error", err)
	}
}
