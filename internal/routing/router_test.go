package routing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
)

func usd(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func requisition(status string, usdAmount string, approvedBy entity.Role) *entity.Requisition {
	r := &entity.Requisition{
		Status:        status,
		Department:    entity.DepartmentIT,
		USDEquivalent: usd(usdAmount),
	}
	if approvedBy != "" {
		r.ApprovedByRole = &approvedBy
	}
	return r
}

func TestTierRole_Boundaries(t *testing.T) {
	tests := []struct {
		amount string
		want   entity.Role
	}{
		{"0", entity.RoleFinanceManager},
		{"50", entity.RoleFinanceManager},
		{"99.99", entity.RoleFinanceManager},
		{"100", entity.RoleFinanceManager},
		{"100.01", entity.RoleTechnicalDirector},
		{"300", entity.RoleTechnicalDirector},
		{"500", entity.RoleTechnicalDirector},
		{"500.01", entity.RoleCEO},
		{"800", entity.RoleCEO},
		{"100000", entity.RoleCEO},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			if got := TierRole(usd(tt.amount)); got != tt.want {
				t.Errorf("TierRole(%s) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestNextApproverRole(t *testing.T) {
	tests := []struct {
		name     string
		r        *entity.Requisition
		want     entity.Role
		wantNone bool
	}{
		{"pending small amount", requisition(entity.StatusPending, "10", ""), entity.RoleHOD, false},
		{"pending huge amount still HOD", requisition(entity.StatusPending, "9000", ""), entity.RoleHOD, false},
		{"approved by HOD at 100 routes to finance", requisition(entity.StatusApproved, "100.00", entity.RoleHOD), entity.RoleFinanceManager, false},
		{"approved by HOD at 300 routes to technical", requisition(entity.StatusApproved, "300", entity.RoleHOD), entity.RoleTechnicalDirector, false},
		{"approved by HOD at 800 routes to CEO", requisition(entity.StatusApproved, "800", entity.RoleHOD), entity.RoleCEO, false},
		{"approved by finance awaits accountant", requisition(entity.StatusApproved, "50", entity.RoleFinanceManager), entity.RoleAccountant, false},
		{"approved by CEO awaits accountant", requisition(entity.StatusApproved, "800", entity.RoleCEO), entity.RoleAccountant, false},
		{"on hold returns holding tier", requisition(entity.StatusApprovedWait, "300", entity.RoleTechnicalDirector), entity.RoleTechnicalDirector, false},
		{"completed is terminal", requisition(entity.StatusCompleted, "50", entity.RoleAccountant), "", true},
		{"rejected is terminal", requisition(entity.StatusRejected, "50", entity.RoleHOD), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextApproverRole(tt.r)
			if tt.wantNone {
				if ok {
					t.Errorf("NextApproverRole() = %v, want none", got)
				}
				return
			}
			if !ok {
				t.Fatal("NextApproverRole() returned none")
			}
			if got != tt.want {
				t.Errorf("NextApproverRole() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStuckAt(t *testing.T) {
	tests := []struct {
		name string
		r    *entity.Requisition
		want string
	}{
		{"completed", requisition(entity.StatusCompleted, "50", entity.RoleAccountant), "Completed"},
		{"rejected", requisition(entity.StatusRejected, "50", ""), "Rejected"},
		{"pending", requisition(entity.StatusPending, "50", ""), "Awaiting HOD Approval"},
		{"on hold", requisition(entity.StatusApprovedWait, "300", entity.RoleTechnicalDirector), "On Hold"},
		{"awaiting finance", requisition(entity.StatusApproved, "80", entity.RoleHOD), "Awaiting Finance Manager"},
		{"awaiting technical", requisition(entity.StatusApproved, "240", entity.RoleHOD), "Awaiting Technical Director"},
		{"awaiting ceo", requisition(entity.StatusApproved, "1200", entity.RoleHOD), "Awaiting CEO"},
		{"awaiting accountant", requisition(entity.StatusApproved, "80", entity.RoleFinanceManager), "Awaiting Accountant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StuckAt(tt.r); got != tt.want {
				t.Errorf("StuckAt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQueueFor_NoBoundaryOverlap(t *testing.T) {
	// A requisition at exactly 100 USD must appear in the Finance Manager
	// queue only, never in the Technical Director queue.
	boundary := requisition(entity.StatusApproved, "100.00", entity.RoleHOD)
	all := []*entity.Requisition{boundary}

	finance := QueueFor(entity.Actor{ID: "fm", Role: entity.RoleFinanceManager}, all)
	technical := QueueFor(entity.Actor{ID: "td", Role: entity.RoleTechnicalDirector}, all)

	if len(finance) != 1 {
		t.Errorf("finance queue = %d requisitions, want 1", len(finance))
	}
	if len(technical) != 0 {
		t.Errorf("technical queue = %d requisitions, want 0", len(technical))
	}
}

func TestQueueFor_HODScopedToDepartment(t *testing.T) {
	itReq := requisition(entity.StatusPending, "50", "")
	hrReq := requisition(entity.StatusPending, "50", "")
	hrReq.Department = entity.DepartmentHR

	hod := entity.Actor{ID: "hod-it", Role: entity.RoleHOD, Department: entity.DepartmentIT}
	queue := QueueFor(hod, []*entity.Requisition{itReq, hrReq})

	if len(queue) != 1 || queue[0] != itReq {
		t.Errorf("HOD queue = %v, want only the IT requisition", queue)
	}
}
