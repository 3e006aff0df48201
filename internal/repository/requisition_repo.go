package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/requisition"
)

// RequisitionRepository handles requisition database operations.
// Monetary columns are stored as decimal strings to avoid float drift.
type RequisitionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequisitionRepository creates a new requisition repository
func NewRequisitionRepository(db *sql.DB, logger *zap.Logger) *RequisitionRepository {
	return &RequisitionRepository{db: db, logger: logger}
}

const requisitionColumns = `
	id, reference, department, type, description, currency, amount, usd_equivalent,
	status, approved_by_role, approved_by_actor_id, approver_comments, approved_date,
	proof_of_payment_ref, payment_date, submitted_by_actor_id, submitted_date,
	version, created_at, updated_at
`

// Create inserts a new requisition and assigns its ID
func (r *RequisitionRepository) Create(ctx context.Context, req *entity.Requisition) error {
	query := `
		INSERT INTO requisitions (
			reference, department, type, description, currency, amount, usd_equivalent,
			status, submitted_by_actor_id, submitted_date, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query,
		req.Reference,
		req.Department,
		req.Type,
		req.Description,
		req.Currency,
		req.Amount.String(),
		req.USDEquivalent.String(),
		req.Status,
		req.SubmittedByActorID,
		req.SubmittedDate,
		req.Version,
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create requisition", zap.String("reference", req.Reference), zap.Error(err))
		return fmt.Errorf("failed to create requisition: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	req.ID = id
	req.CreatedAt = now
	req.UpdatedAt = now
	return nil
}

// GetByID retrieves a requisition by ID; returns nil when absent
func (r *RequisitionRepository) GetByID(ctx context.Context, id int64) (*entity.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE id = ?`

	req, err := scanRequisition(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get requisition", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get requisition: %w", err)
	}
	return req, nil
}

// List retrieves requisitions, optionally filtered by department and status
func (r *RequisitionRepository) List(ctx context.Context, filter requisition.ListFilter) ([]*entity.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions`

	var conds []string
	var args []interface{}
	if filter.Department != "" {
		conds = append(conds, "department = ?")
		args = append(args, filter.Department)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY submitted_date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list requisitions", zap.Error(err))
		return nil, fmt.Errorf("failed to list requisitions: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.Requisition
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan requisition: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// UpdateTransition commits a lifecycle transition with a compare-and-set
// on (status, version). A losing concurrent writer gets entity.ErrConflict.
func (r *RequisitionRepository) UpdateTransition(ctx context.Context, req *entity.Requisition, expectedStatus string, expectedVersion int64) error {
	query := `
		UPDATE requisitions SET
			status = ?,
			approved_by_role = ?,
			approved_by_actor_id = ?,
			approver_comments = ?,
			approved_date = ?,
			payment_date = ?,
			version = version + 1,
			updated_at = ?
		WHERE id = ? AND status = ? AND version = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		req.Status,
		roleOrNil(req.ApprovedByRole),
		req.ApprovedByActorID,
		req.ApproverComments,
		req.ApprovedDate,
		req.PaymentDate,
		time.Now(),
		req.ID,
		expectedStatus,
		expectedVersion,
	)
	if err != nil {
		r.logger.Error("Failed to update requisition", zap.Int64("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to update requisition: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		r.logger.Warn("Optimistic concurrency conflict",
			zap.Int64("id", req.ID),
			zap.String("expected_status", expectedStatus),
			zap.Int64("expected_version", expectedVersion))
		return entity.ErrConflict
	}

	req.Version = expectedVersion + 1
	return nil
}

// SetProofOfPayment records the proof-of-payment file reference
func (r *RequisitionRepository) SetProofOfPayment(ctx context.Context, id int64, ref string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE requisitions SET proof_of_payment_ref = ?, updated_at = ? WHERE id = ?`,
		ref, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to set proof of payment", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to set proof of payment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// CountForYear counts requisitions submitted in a calendar year
func (r *RequisitionRepository) CountForYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM requisitions WHERE strftime('%Y', submitted_date) = ?`,
		fmt.Sprintf("%04d", year)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count requisitions: %w", err)
	}
	return count, nil
}

// SumAmountByStatuses sums native-currency amounts for a department over
// the given statuses. Summation happens in decimal space, not SQL floats.
func (r *RequisitionRepository) SumAmountByStatuses(ctx context.Context, department string, statuses []string) (decimal.Decimal, error) {
	if len(statuses) == 0 {
		return decimal.Zero, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(statuses)), ", ")
	query := `SELECT amount FROM requisitions WHERE department = ? AND status IN (` + placeholders + `)`

	args := make([]interface{}, 0, len(statuses)+1)
	args = append(args, department)
	for _, s := range statuses {
		args = append(args, s)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to sum amounts", zap.String("department", department), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to sum amounts: %w", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan amount: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid amount in storage: %w", err)
		}
		sum = sum.Add(amount)
	}
	return sum, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequisition(row rowScanner) (*entity.Requisition, error) {
	var req entity.Requisition
	var amount, usdEquivalent string
	var approvedByRole, approvedByActorID, approverComments, proofRef sql.NullString
	var approvedDate, paymentDate sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.Reference,
		&req.Department,
		&req.Type,
		&req.Description,
		&req.Currency,
		&amount,
		&usdEquivalent,
		&req.Status,
		&approvedByRole,
		&approvedByActorID,
		&approverComments,
		&approvedDate,
		&proofRef,
		&paymentDate,
		&req.SubmittedByActorID,
		&req.SubmittedDate,
		&req.Version,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if req.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid amount in storage: %w", err)
	}
	if req.USDEquivalent, err = decimal.NewFromString(usdEquivalent); err != nil {
		return nil, fmt.Errorf("invalid usd equivalent in storage: %w", err)
	}

	if approvedByRole.Valid {
		role := entity.Role(approvedByRole.String)
		req.ApprovedByRole = &role
	}
	if approvedByActorID.Valid {
		req.ApprovedByActorID = &approvedByActorID.String
	}
	if approverComments.Valid {
		req.ApproverComments = &approverComments.String
	}
	if proofRef.Valid {
		req.ProofOfPaymentRef = &proofRef.String
	}
	if approvedDate.Valid {
		req.ApprovedDate = &approvedDate.Time
	}
	if paymentDate.Valid {
		req.PaymentDate = &paymentDate.Time
	}

	return &req, nil
}

func roleOrNil(role *entity.Role) interface{} {
	if role == nil {
		return nil
	}
	return role.String()
}
