// Package budget answers per-department budget queries and gates new
// requisition submissions. The ledger itself never mutates requisitions;
// consumption is derived from their statuses on every read.
package budget

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
)

// LowWaterMark is the fixed department-wide cutoff. Once remaining
// budget falls to or below this figure, all new submissions for the
// department are blocked until an administrator tops the budget up.
var LowWaterMark = decimal.NewFromInt(100)

// Store persists administered budget totals
type Store interface {
	GetTotal(ctx context.Context, department string) (decimal.Decimal, error)
	SetTotal(ctx context.Context, department string, total decimal.Decimal) error
	ResetAll(ctx context.Context) error
	ListTotals(ctx context.Context) ([]*entity.DepartmentBudget, error)
}

// UsageSource reports consumed budget. Used amount sums native-currency
// requisition amounts with status approved or completed; payment dates
// are deliberately not part of the definition.
type UsageSource interface {
	SumAmountByStatuses(ctx context.Context, department string, statuses []string) (decimal.Decimal, error)
}

var usedStatuses = []string{entity.StatusApproved, entity.StatusCompleted}

// Ledger answers remaining-budget and gate-or-allow queries
type Ledger struct {
	store  Store
	usage  UsageSource
	logger *zap.Logger
}

// NewLedger creates a budget ledger
func NewLedger(store Store, usage UsageSource, logger *zap.Logger) *Ledger {
	return &Ledger{
		store:  store,
		usage:  usage,
		logger: logger,
	}
}

// Used returns the consumed amount for a department
func (l *Ledger) Used(ctx context.Context, department string) (decimal.Decimal, error) {
	used, err := l.usage.SumAmountByStatuses(ctx, department, usedStatuses)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum used amount: %w", err)
	}
	return used, nil
}

// Remaining returns totalBudget - used for a department
func (l *Ledger) Remaining(ctx context.Context, department string) (decimal.Decimal, error) {
	total, err := l.store.GetTotal(ctx, department)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get total budget: %w", err)
	}
	used, err := l.Used(ctx, department)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Sub(used), nil
}

// CanSubmit reports whether a new requisition may be created for the
// department. The cutoff is department-wide and independent of the
// requested amount: once remaining <= LowWaterMark, every submission is
// blocked regardless of size. The remaining figure is returned so the
// caller can surface it to the submitter.
func (l *Ledger) CanSubmit(ctx context.Context, department string, requestedAmount decimal.Decimal) (bool, decimal.Decimal, error) {
	remaining, err := l.Remaining(ctx, department)
	if err != nil {
		return false, decimal.Zero, err
	}
	if remaining.LessThanOrEqual(LowWaterMark) {
		l.logger.Info("Submission blocked by budget gate",
			zap.String("department", department),
			zap.String("remaining", remaining.StringFixed(2)),
			zap.String("requested", requestedAmount.StringFixed(2)))
		return false, remaining, nil
	}
	return true, remaining, nil
}

// SetTotal sets the administered total for a department (admin top-up)
func (l *Ledger) SetTotal(ctx context.Context, department string, total decimal.Decimal) error {
	if !entity.IsValidDepartment(department) {
		return entity.NewValidationError("department", "is not recognized")
	}
	if total.IsNegative() {
		return entity.NewValidationError("total_budget", "must not be negative")
	}
	if err := l.store.SetTotal(ctx, department, total); err != nil {
		return fmt.Errorf("set total budget: %w", err)
	}
	l.logger.Info("Department budget updated",
		zap.String("department", department),
		zap.String("total", total.StringFixed(2)))
	return nil
}

// ResetAll zeroes every department total atomically (admin bulk reset,
// the inverse of top-up)
func (l *Ledger) ResetAll(ctx context.Context) error {
	if err := l.store.ResetAll(ctx); err != nil {
		return fmt.Errorf("reset budgets: %w", err)
	}
	l.logger.Info("All department budgets reset to zero")
	return nil
}

// Statuses returns the derived per-department view for every department
// in the fixed set, including those with no administered budget yet
func (l *Ledger) Statuses(ctx context.Context) ([]*entity.BudgetStatus, error) {
	budgets, err := l.store.ListTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	totals := make(map[string]decimal.Decimal, len(budgets))
	for _, b := range budgets {
		totals[b.Department] = b.TotalBudget
	}

	statuses := make([]*entity.BudgetStatus, 0, len(entity.Departments()))
	for _, dept := range entity.Departments() {
		used, err := l.Used(ctx, dept)
		if err != nil {
			return nil, err
		}
		total := totals[dept] // zero when never administered
		remaining := total.Sub(used)
		statuses = append(statuses, &entity.BudgetStatus{
			Department:  dept,
			TotalBudget: total,
			Used:        used,
			Remaining:   remaining,
			Exhausted:   remaining.LessThanOrEqual(LowWaterMark),
		})
	}
	return statuses, nil
}
