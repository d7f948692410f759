package repository

import (
	"context"

	"dms/internal/model"
)

// AuditRepository appends to the audit trail. Append-only: no read,
// update, or delete operations are exposed. The append is its own unit
// of work, decoupled from the mutation that triggered it.
type AuditRepository interface {
	Append(ctx context.Context, action model.AuditAction, userID string, documentID int64) error
}
