package requisition

import (
	"context"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/workflow"
)

// lifecycleFor builds the transition table for a requisition positioned
// at its current status. Completion is guarded on an attached proof of
// payment; role authorization happens in the service before firing.
func lifecycleFor(r *entity.Requisition) (*workflow.Machine, error) {
	proofAttached := func(ctx context.Context) error {
		if !r.HasProofOfPayment() {
			return entity.NewValidationError("proof_of_payment", "must be attached before completion")
		}
		return nil
	}

	return workflow.NewBuilder().
		Permit(workflow.StatePending, workflow.TriggerApprove, workflow.StateApproved).
		Permit(workflow.StatePending, workflow.TriggerReject, workflow.StateRejected).
		Permit(workflow.StateApproved, workflow.TriggerApprove, workflow.StateApproved).
		Permit(workflow.StateApproved, workflow.TriggerWait, workflow.StateApprovedWait).
		Permit(workflow.StateApproved, workflow.TriggerReject, workflow.StateRejected).
		PermitIf(workflow.StateApproved, workflow.TriggerComplete, workflow.StateCompleted, proofAttached).
		Permit(workflow.StateApprovedWait, workflow.TriggerApprove, workflow.StateApproved).
		Permit(workflow.StateApprovedWait, workflow.TriggerReject, workflow.StateRejected).
		Build(workflow.State(r.Status))
}

func triggerForAction(action string) (workflow.Trigger, bool) {
	switch action {
	case entity.ActionApprove:
		return workflow.TriggerApprove, true
	case entity.ActionReject:
		return workflow.TriggerReject, true
	case entity.ActionWait:
		return workflow.TriggerWait, true
	case entity.ActionComplete:
		return workflow.TriggerComplete, true
	default:
		return "", false
	}
}
