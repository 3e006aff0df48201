// Package report builds Excel workbooks summarizing budgets and the
// requisition register for administrators.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/routing"
)

const (
	budgetSheet      = "Budgets"
	requisitionSheet = "Requisitions"
)

// Builder assembles budget/requisition workbooks
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a report builder
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// BuildWorkbook produces a two-sheet workbook: the per-department budget
// position and the full requisition register with routing labels.
func (b *Builder) BuildWorkbook(statuses []*entity.BudgetStatus, requisitions []*entity.Requisition) (*excelize.File, error) {
	f := excelize.NewFile()

	if _, err := f.NewSheet(budgetSheet); err != nil {
		return nil, fmt.Errorf("create budget sheet: %w", err)
	}
	if _, err := f.NewSheet(requisitionSheet); err != nil {
		return nil, fmt.Errorf("create requisition sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	if err := b.fillBudgets(f, statuses); err != nil {
		return nil, err
	}
	if err := b.fillRequisitions(f, requisitions); err != nil {
		return nil, err
	}

	b.logger.Info("Report workbook built",
		zap.Int("departments", len(statuses)),
		zap.Int("requisitions", len(requisitions)))
	return f, nil
}

func (b *Builder) fillBudgets(f *excelize.File, statuses []*entity.BudgetStatus) error {
	headers := []string{"Department", "Total Budget", "Used", "Remaining", "Exhausted"}
	if err := f.SetSheetRow(budgetSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write budget headers: %w", err)
	}

	for i, s := range statuses {
		exhausted := "No"
		if s.Exhausted {
			exhausted = "Yes"
		}
		row := []interface{}{
			s.Department,
			s.TotalBudget.StringFixed(2),
			s.Used.StringFixed(2),
			s.Remaining.StringFixed(2),
			exhausted,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(budgetSheet, cell, &row); err != nil {
			return fmt.Errorf("write budget row: %w", err)
		}
	}
	return nil
}

func (b *Builder) fillRequisitions(f *excelize.File, requisitions []*entity.Requisition) error {
	headers := []string{"Reference", "Department", "Type", "Currency", "Amount", "USD Equivalent", "Status", "Stuck At", "Submitted"}
	if err := f.SetSheetRow(requisitionSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write requisition headers: %w", err)
	}

	for i, r := range requisitions {
		row := []interface{}{
			r.Reference,
			r.Department,
			r.Type,
			r.Currency,
			r.Amount.StringFixed(2),
			r.USDEquivalent.StringFixed(2),
			r.Status,
			routing.StuckAt(r),
			r.SubmittedDate.Format("2006-01-02"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(requisitionSheet, cell, &row); err != nil {
			return fmt.Errorf("write requisition row: %w", err)
		}
	}
	return nil
}
