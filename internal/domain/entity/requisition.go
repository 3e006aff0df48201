package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requisition represents a purchase requisition moving through the
// approval chain. Amount is kept in the native currency; USDEquivalent
// is the reference figure all routing decisions are made against.
type Requisition struct {
	ID          int64  `json:"id"`
	Reference   string `json:"reference"`
	Department  string `json:"department"`
	Type        string `json:"type"`
	Description string `json:"description"`

	Currency      string          `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	USDEquivalent decimal.Decimal `json:"usd_equivalent"`

	Status            string     `json:"status"`
	ApprovedByRole    *Role      `json:"approved_by_role,omitempty"`
	ApprovedByActorID *string    `json:"approved_by_actor_id,omitempty"`
	ApproverComments  *string    `json:"approver_comments,omitempty"`
	ApprovedDate      *time.Time `json:"approved_date,omitempty"`

	ProofOfPaymentRef *string    `json:"proof_of_payment_ref,omitempty"`
	PaymentDate       *time.Time `json:"payment_date,omitempty"`

	SubmittedByActorID string    `json:"submitted_by_actor_id"`
	SubmittedDate      time.Time `json:"submitted_date"`

	// Version is bumped on every committed transition and used for
	// optimistic concurrency control.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal returns true when no further status mutation is permitted
func (r *Requisition) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusRejected
}

// HasProofOfPayment returns true when a proof-of-payment document is attached
func (r *Requisition) HasProofOfPayment() bool {
	return r.ProofOfPaymentRef != nil && *r.ProofOfPaymentRef != ""
}

// TierApproved returns true when the most recent approval came from one
// of the amount-tier approvers, i.e. the requisition awaits the Accountant.
func (r *Requisition) TierApproved() bool {
	if r.ApprovedByRole == nil {
		return false
	}
	switch *r.ApprovedByRole {
	case RoleFinanceManager, RoleTechnicalDirector, RoleCEO:
		return true
	}
	return false
}
