package budget

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
)

type mockStore struct {
	getTotalFunc   func(ctx context.Context, department string) (decimal.Decimal, error)
	setTotalFunc   func(ctx context.Context, department string, total decimal.Decimal) error
	resetAllFunc   func(ctx context.Context) error
	listTotalsFunc func(ctx context.Context) ([]*entity.DepartmentBudget, error)
}

func (m *mockStore) GetTotal(ctx context.Context, department string) (decimal.Decimal, error) {
	if m.getTotalFunc != nil {
		return m.getTotalFunc(ctx, department)
	}
	return decimal.Zero, nil
}

func (m *mockStore) SetTotal(ctx context.Context, department string, total decimal.Decimal) error {
	if m.setTotalFunc != nil {
		return m.setTotalFunc(ctx, department, total)
	}
	return nil
}

func (m *mockStore) ResetAll(ctx context.Context) error {
	if m.resetAllFunc != nil {
		return m.resetAllFunc(ctx)
	}
	return nil
}

func (m *mockStore) ListTotals(ctx context.Context) ([]*entity.DepartmentBudget, error) {
	if m.listTotalsFunc != nil {
		return m.listTotalsFunc(ctx)
	}
	return nil, nil
}

type mockUsage struct {
	sumFunc func(ctx context.Context, department string, statuses []string) (decimal.Decimal, error)
}

func (m *mockUsage) SumAmountByStatuses(ctx context.Context, department string, statuses []string) (decimal.Decimal, error) {
	if m.sumFunc != nil {
		return m.sumFunc(ctx, department, statuses)
	}
	return decimal.Zero, nil
}

func fixed(total, used string) *Ledger {
	store := &mockStore{
		getTotalFunc: func(ctx context.Context, department string) (decimal.Decimal, error) {
			return decimal.RequireFromString(total), nil
		},
	}
	usage := &mockUsage{
		sumFunc: func(ctx context.Context, department string, statuses []string) (decimal.Decimal, error) {
			return decimal.RequireFromString(used), nil
		},
	}
	return NewLedger(store, usage, zap.NewNop())
}

func TestLedger_Remaining(t *testing.T) {
	ledger := fixed("1000", "950")

	remaining, err := ledger.Remaining(context.Background(), entity.DepartmentIT)
	if err != nil {
		t.Fatalf("Remaining() error = %v", err)
	}
	if !remaining.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Remaining() = %s, want 50", remaining)
	}
}

func TestLedger_CanSubmit(t *testing.T) {
	tests := []struct {
		name          string
		total         string
		used          string
		requested     string
		wantAllowed   bool
		wantRemaining string
	}{
		{"blocked at remaining 50", "1000", "950", "10", false, "50"},
		{"allowed at remaining 200", "1000", "800", "10", true, "200"},
		{"blocked exactly at low-water mark", "1000", "900", "1", false, "100"},
		{"allowed just above low-water mark", "1000", "899.99", "1", true, "100.01"},
		{"blocked regardless of request size", "200", "150", "5", false, "50"},
		{"blocked when overdrawn", "100", "400", "1", false, "-300"},
		{"blocked with zero budget", "0", "0", "25", false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := fixed(tt.total, tt.used)

			allowed, remaining, err := ledger.CanSubmit(context.Background(), entity.DepartmentIT, decimal.RequireFromString(tt.requested))
			if err != nil {
				t.Fatalf("CanSubmit() error = %v", err)
			}
			if allowed != tt.wantAllowed {
				t.Errorf("CanSubmit() allowed = %v, want %v", allowed, tt.wantAllowed)
			}
			if !remaining.Equal(decimal.RequireFromString(tt.wantRemaining)) {
				t.Errorf("CanSubmit() remaining = %s, want %s", remaining, tt.wantRemaining)
			}
		})
	}
}

func TestLedger_UsedCountsApprovedAndCompletedOnly(t *testing.T) {
	var captured []string
	usage := &mockUsage{
		sumFunc: func(ctx context.Context, department string, statuses []string) (decimal.Decimal, error) {
			captured = statuses
			return decimal.Zero, nil
		},
	}
	ledger := NewLedger(&mockStore{}, usage, zap.NewNop())

	if _, err := ledger.Used(context.Background(), entity.DepartmentFinance); err != nil {
		t.Fatalf("Used() error = %v", err)
	}

	want := map[string]bool{entity.StatusApproved: true, entity.StatusCompleted: true}
	if len(captured) != len(want) {
		t.Fatalf("Used() queried statuses %v, want approved+completed", captured)
	}
	for _, s := range captured {
		if !want[s] {
			t.Errorf("Used() queried unexpected status %q", s)
		}
	}
}

func TestLedger_SetTotal_Validation(t *testing.T) {
	ledger := NewLedger(&mockStore{}, &mockUsage{}, zap.NewNop())

	if err := ledger.SetTotal(context.Background(), "Warehouse", decimal.NewFromInt(100)); !entity.IsValidationError(err) {
		t.Errorf("SetTotal() unknown department error = %v, want ValidationError", err)
	}
	if err := ledger.SetTotal(context.Background(), entity.DepartmentIT, decimal.NewFromInt(-5)); !entity.IsValidationError(err) {
		t.Errorf("SetTotal() negative total error = %v, want ValidationError", err)
	}
	if err := ledger.SetTotal(context.Background(), entity.DepartmentIT, decimal.NewFromInt(5000)); err != nil {
		t.Errorf("SetTotal() error = %v, want nil", err)
	}
}

func TestLedger_Statuses(t *testing.T) {
	store := &mockStore{
		listTotalsFunc: func(ctx context.Context) ([]*entity.DepartmentBudget, error) {
			return []*entity.DepartmentBudget{
				{Department: entity.DepartmentIT, TotalBudget: decimal.NewFromInt(1000)},
			}, nil
		},
	}
	usage := &mockUsage{
		sumFunc: func(ctx context.Context, department string, statuses []string) (decimal.Decimal, error) {
			if department == entity.DepartmentIT {
				return decimal.NewFromInt(950), nil
			}
			return decimal.Zero, nil
		},
	}
	ledger := NewLedger(store, usage, zap.NewNop())

	statuses, err := ledger.Statuses(context.Background())
	if err != nil {
		t.Fatalf("Statuses() error = %v", err)
	}
	if len(statuses) != len(entity.Departments()) {
		t.Fatalf("Statuses() returned %d departments, want %d", len(statuses), len(entity.Departments()))
	}

	byDept := make(map[string]*entity.BudgetStatus)
	for _, s := range statuses {
		byDept[s.Department] = s
	}

	it := byDept[entity.DepartmentIT]
	if !it.Remaining.Equal(decimal.NewFromInt(50)) || !it.Exhausted {
		t.Errorf("IT status = remaining %s exhausted %v, want 50 / true", it.Remaining, it.Exhausted)
	}
	hr := byDept[entity.DepartmentHR]
	if !hr.TotalBudget.IsZero() || !hr.Exhausted {
		t.Errorf("HR status = total %s exhausted %v, want 0 / true", hr.TotalBudget, hr.Exhausted)
	}
}
