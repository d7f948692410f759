package postgres

import (
	"context"
	"database/sql"

	"dms/internal/model"
	"dms/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Append inserts one audit row. It is called after the triggering
// mutation has committed and runs in its own implicit transaction.
func (r *AuditPostgres) Append(ctx context.Context, action model.AuditAction, userID string, documentID int64) error {
	const q = `
		INSERT INTO audit_logs (action, user_id, document_id)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, q, string(action), userID, documentID)
	return err
}
