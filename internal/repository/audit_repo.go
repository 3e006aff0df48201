package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/audit"
)

// AuditRepository handles append-only audit log operations
type AuditRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

// Insert appends an audit entry
func (r *AuditRepository) Insert(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO audit_log (actor_id, actor_name, action_type, requisition_id, details, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		e.ActorID, e.ActorName, e.ActionType, e.RequisitionID, e.Details, e.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// ListRecent returns the newest entries first
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]*audit.Entry, error) {
	query := `
		SELECT id, actor_id, actor_name, action_type, requisition_id, details, timestamp
		FROM audit_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list audit entries", zap.Error(err))
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		var e audit.Entry
		var requisitionID sql.NullInt64
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorName, &e.ActionType, &requisitionID, &e.Details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if requisitionID.Valid {
			e.RequisitionID = &requisitionID.Int64
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
