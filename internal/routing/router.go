// Package routing decides, from a requisition's USD reference amount and
// its current approval-chain state, which role must act next. It is a
// pure projection: safe to recompute on every read.
package routing

import (
	"github.com/shopspring/decimal"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
)

// Tier boundaries in USD. The boundaries are owned exclusively by the
// lower tier: Finance Manager <= 100, Technical Director (100, 500],
// CEO > 500. This is the single place the convention is implemented.
var (
	financeManagerCeiling    = decimal.NewFromInt(100)
	technicalDirectorCeiling = decimal.NewFromInt(500)
)

// TierRole returns the amount-tier approver for a USD reference amount
func TierRole(usd decimal.Decimal) entity.Role {
	switch {
	case usd.LessThanOrEqual(financeManagerCeiling):
		return entity.RoleFinanceManager
	case usd.LessThanOrEqual(technicalDirectorCeiling):
		return entity.RoleTechnicalDirector
	default:
		return entity.RoleCEO
	}
}

// NextApproverRole returns the single role authorized to act on the
// requisition next. The second return is false for terminal states.
func NextApproverRole(r *entity.Requisition) (entity.Role, bool) {
	switch r.Status {
	case entity.StatusPending:
		return entity.RoleHOD, true
	case entity.StatusApproved:
		if r.TierApproved() {
			return entity.RoleAccountant, true
		}
		return TierRole(r.USDEquivalent), true
	case entity.StatusApprovedWait:
		// A hold must be explicitly cleared by the tier that placed it.
		if r.ApprovedByRole != nil {
			return *r.ApprovedByRole, true
		}
		return TierRole(r.USDEquivalent), true
	default:
		return "", false
	}
}

// StuckAt derives the human-readable label describing whose action the
// requisition currently awaits
func StuckAt(r *entity.Requisition) string {
	switch r.Status {
	case entity.StatusCompleted:
		return "Completed"
	case entity.StatusRejected:
		return "Rejected"
	case entity.StatusPending:
		return "Awaiting HOD Approval"
	case entity.StatusApprovedWait:
		return "On Hold"
	case entity.StatusApproved:
		if r.TierApproved() {
			return "Awaiting Accountant"
		}
		return "Awaiting " + TierRole(r.USDEquivalent).DisplayName()
	default:
		return "Unknown"
	}
}

// QueueFor filters requisitions down to those currently awaiting the
// given role. HOD queues are additionally scoped to the HOD's own
// department by the caller's actor, so department is matched here too.
func QueueFor(actor entity.Actor, requisitions []*entity.Requisition) []*entity.Requisition {
	var queue []*entity.Requisition
	for _, r := range requisitions {
		next, ok := NextApproverRole(r)
		if !ok || next != actor.Role {
			continue
		}
		if actor.Role == entity.RoleHOD && r.Department != actor.Department {
			continue
		}
		queue = append(queue, r)
	}
	return queue
}
