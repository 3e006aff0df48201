package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
)

// Event represents a domain event emitted on requisition transitions.
// Events feed the notification dispatcher and the audit sink; both are
// fire-and-forget consumers.
type Event struct {
	ID            string      `json:"id"`
	Type          Type        `json:"type"`
	RequisitionID int64       `json:"requisition_id"`
	Reference     string      `json:"reference"`
	ActorID       string      `json:"actor_id"`
	ActorName     string      `json:"actor_name"`
	TargetRole    entity.Role `json:"target_role,omitempty"`
	Details       string      `json:"details,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
}

// New creates a domain event with a generated ID and current timestamp
func New(eventType Type, r *entity.Requisition, actor entity.Actor) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		RequisitionID: r.ID,
		Reference:     r.Reference,
		ActorID:       actor.ID,
		ActorName:     actor.Name,
		Timestamp:     time.Now(),
	}
}

// WithTarget sets the role that should be informed next
func (e *Event) WithTarget(role entity.Role) *Event {
	e.TargetRole = role
	return e
}

// WithDetails attaches a human-readable detail line
func (e *Event) WithDetails(details string) *Event {
	e.Details = details
	return e
}
