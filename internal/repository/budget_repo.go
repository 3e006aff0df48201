package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
)

// BudgetRepository handles department budget database operations
type BudgetRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *sql.DB, logger *zap.Logger) *BudgetRepository {
	return &BudgetRepository{db: db, logger: logger}
}

// GetTotal returns the administered total for a department, zero when
// the department has never been administered
func (r *BudgetRepository) GetTotal(ctx context.Context, department string) (decimal.Decimal, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT total_budget FROM department_budgets WHERE department = ?`,
		department).Scan(&raw)
	if err == sql.ErrNoRows {
		return decimal.Zero, nil
	}
	if err != nil {
		r.logger.Error("Failed to get budget total", zap.String("department", department), zap.Error(err))
		return decimal.Zero, fmt.Errorf("failed to get budget total: %w", err)
	}

	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid budget total in storage: %w", err)
	}
	return total, nil
}

// SetTotal upserts the administered total for a department
func (r *BudgetRepository) SetTotal(ctx context.Context, department string, total decimal.Decimal) error {
	query := `
		INSERT INTO department_budgets (department, total_budget, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(department) DO UPDATE SET
			total_budget = excluded.total_budget,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, department, total.String(), time.Now()); err != nil {
		r.logger.Error("Failed to set budget total", zap.String("department", department), zap.Error(err))
		return fmt.Errorf("failed to set budget total: %w", err)
	}
	return nil
}

// ResetAll zeroes every administered total in one statement
func (r *BudgetRepository) ResetAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE department_budgets SET total_budget = '0', updated_at = ?`, time.Now()); err != nil {
		r.logger.Error("Failed to reset budgets", zap.Error(err))
		return fmt.Errorf("failed to reset budgets: %w", err)
	}
	return nil
}

// ListTotals returns all administered department budgets
func (r *BudgetRepository) ListTotals(ctx context.Context) ([]*entity.DepartmentBudget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT department, total_budget, updated_at FROM department_budgets ORDER BY department`)
	if err != nil {
		r.logger.Error("Failed to list budgets", zap.Error(err))
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*entity.DepartmentBudget
	for rows.Next() {
		var b entity.DepartmentBudget
		var raw string
		if err := rows.Scan(&b.Department, &raw, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		if b.TotalBudget, err = decimal.NewFromString(raw); err != nil {
			return nil, fmt.Errorf("invalid budget total in storage: %w", err)
		}
		budgets = append(budgets, &b)
	}
	return budgets, rows.Err()
}
