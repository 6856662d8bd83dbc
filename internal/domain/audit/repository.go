package audit

import "context"

type AuditRepository interface {
	Create(ctx context.Context, log Log) error
}
