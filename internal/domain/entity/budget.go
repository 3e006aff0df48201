package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepartmentBudget holds the administered total for one department.
// Consumption is derived from requisitions, never stored.
type DepartmentBudget struct {
	Department  string          `json:"department"`
	TotalBudget decimal.Decimal `json:"total_budget"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BudgetStatus is the derived per-department view served to dashboards
// and reports.
type BudgetStatus struct {
	Department  string          `json:"department"`
	TotalBudget decimal.Decimal `json:"total_budget"`
	Used        decimal.Decimal `json:"used"`
	Remaining   decimal.Decimal `json:"remaining"`
	Exhausted   bool            `json:"exhausted"`
}
