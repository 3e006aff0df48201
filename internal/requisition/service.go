// Package requisition is the canonical lifecycle controller: it
// validates action preconditions, computes the next status through the
// state machine, and records actor, timestamp and comment.
package requisition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/audit"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/currency"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/entity"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/event"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/workflow"
	"github.com/GIDEON8-jpg/simply-request-sub000/internal/routing"
)

// ListFilter narrows requisition listings
type ListFilter struct {
	Department string
	Status     string
}

// Repository persists requisitions
type Repository interface {
	Create(ctx context.Context, r *entity.Requisition) error
	GetByID(ctx context.Context, id int64) (*entity.Requisition, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Requisition, error)
	// UpdateTransition commits a transition with a compare-and-set on
	// (status, version); it returns entity.ErrConflict when another
	// writer committed first.
	UpdateTransition(ctx context.Context, r *entity.Requisition, expectedStatus string, expectedVersion int64) error
	SetProofOfPayment(ctx context.Context, id int64, ref string) error
	CountForYear(ctx context.Context, year int) (int64, error)
}

// BudgetGate answers whether a department may accept a new submission
type BudgetGate interface {
	CanSubmit(ctx context.Context, department string, requestedAmount decimal.Decimal) (bool, decimal.Decimal, error)
}

// Notifier delivers transition notifications, fire-and-forget
type Notifier interface {
	Notify(ctx context.Context, evt *event.Event) error
}

// AuditSink records workflow actions, best-effort
type AuditSink interface {
	Record(ctx context.Context, e audit.Entry)
}

// Service orchestrates requisition creation and lifecycle transitions
type Service struct {
	repo     Repository
	gate     BudgetGate
	notifier Notifier
	auditor  AuditSink
	logger   *zap.Logger
}

// NewService creates a requisition service
func NewService(repo Repository, gate BudgetGate, notifier Notifier, auditor AuditSink, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		gate:     gate,
		notifier: notifier,
		auditor:  auditor,
		logger:   logger,
	}
}

// CreateInput carries submitter-provided requisition fields
type CreateInput struct {
	Department    string
	Type          string
	Description   string
	Currency      string
	Amount        decimal.Decimal
	USDEquivalent *decimal.Decimal
}

// Create validates the input, normalizes the amount to USD, gates the
// submission on the department budget and stores the new requisition in
// pending state.
func (s *Service) Create(ctx context.Context, input CreateInput, actor entity.Actor) (*entity.Requisition, error) {
	if !entity.IsValidDepartment(input.Department) {
		return nil, entity.NewValidationError("department", "is not recognized")
	}
	if !entity.IsValidType(input.Type) {
		return nil, entity.NewValidationError("type", "must be standard or deviation")
	}
	if input.Amount.IsNegative() {
		return nil, entity.NewValidationError("amount", "must not be negative")
	}

	usdEquivalent, err := currency.ToUSD(input.Amount, input.Currency, input.USDEquivalent)
	if err != nil {
		return nil, err
	}

	allowed, remaining, err := s.gate.CanSubmit(ctx, input.Department, input.Amount)
	if err != nil {
		return nil, fmt.Errorf("budget gate: %w", err)
	}
	if !allowed {
		return nil, &entity.BudgetExhaustedError{Department: input.Department, Remaining: remaining}
	}

	now := time.Now()
	reference, err := s.nextReference(ctx, now)
	if err != nil {
		return nil, err
	}

	r := &entity.Requisition{
		Reference:          reference,
		Department:         input.Department,
		Type:               input.Type,
		Description:        strings.TrimSpace(input.Description),
		Currency:           input.Currency,
		Amount:             input.Amount,
		USDEquivalent:      usdEquivalent,
		Status:             entity.StatusPending,
		SubmittedByActorID: actor.ID,
		SubmittedDate:      now,
		Version:            1,
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create requisition: %w", err)
	}

	s.logger.Info("Requisition created",
		zap.Int64("id", r.ID),
		zap.String("reference", r.Reference),
		zap.String("department", r.Department),
		zap.String("amount", r.Amount.StringFixed(2)),
		zap.String("usd_equivalent", r.USDEquivalent.StringFixed(2)))

	s.emit(ctx, event.New(event.TypeRequisitionCreated, r, actor).WithTarget(entity.RoleHOD))
	s.auditor.Record(ctx, audit.Entry{
		ActorID:       actor.ID,
		ActorName:     actor.Name,
		ActionType:    "requisition.create",
		RequisitionID: &r.ID,
		Details:       fmt.Sprintf("Created %s for %s %s", r.Reference, r.Amount.StringFixed(2), r.Currency),
	})

	return r, nil
}

// ApplyAction executes an actor decision on a requisition. Preconditions:
// the action must be valid from the current state, the actor must hold
// the role the router currently authorizes, and reject/wait require a
// comment. The transition is committed with a compare-and-set so a
// losing concurrent writer receives entity.ErrConflict.
func (s *Service) ApplyAction(ctx context.Context, id int64, actor entity.Actor, action, comment string) (*entity.Requisition, error) {
	trigger, ok := triggerForAction(action)
	if !ok {
		return nil, entity.NewValidationError("action", "must be approve, reject, wait or complete")
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, entity.ErrNotFound
	}

	if r.IsTerminal() {
		return nil, fmt.Errorf("%w: requisition %s is %s", entity.ErrInvalidState, r.Reference, r.Status)
	}

	comment = strings.TrimSpace(comment)
	if (action == entity.ActionReject || action == entity.ActionWait) && comment == "" {
		return nil, entity.NewValidationError("comment", "is required when rejecting or placing on hold")
	}

	if err := s.authorize(r, actor, action); err != nil {
		return nil, err
	}

	expectedStatus, expectedVersion := r.Status, r.Version

	machine, err := lifecycleFor(r)
	if err != nil {
		return nil, err
	}
	if err := machine.Fire(ctx, trigger); err != nil {
		// Guard errors carry their own classification; an unconfigured
		// (state, trigger) pair is a state error, not an internal one.
		if errors.Is(err, workflow.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: cannot %s requisition %s while %s", entity.ErrInvalidState, action, r.Reference, r.Status)
		}
		return nil, err
	}

	now := time.Now()
	r.Status = machine.State().String()
	r.ApprovedByActorID = &actor.ID
	r.ApprovedDate = &now

	switch action {
	case entity.ActionApprove:
		r.ApprovedByRole = &actor.Role
		r.ApproverComments = nil
	case entity.ActionWait:
		r.ApprovedByRole = &actor.Role
		r.ApproverComments = &comment
	case entity.ActionReject:
		// Role of the last approver is preserved on rejection.
		r.ApproverComments = &comment
	case entity.ActionComplete:
		r.ApprovedByRole = &actor.Role
		r.PaymentDate = &now
	}

	if err := s.repo.UpdateTransition(ctx, r, expectedStatus, expectedVersion); err != nil {
		return nil, err
	}

	s.logger.Info("Requisition transitioned",
		zap.Int64("id", r.ID),
		zap.String("reference", r.Reference),
		zap.String("action", action),
		zap.String("from", expectedStatus),
		zap.String("to", r.Status),
		zap.String("actor_id", actor.ID),
		zap.String("actor_role", actor.Role.String()))

	evt := event.New(eventTypeFor(action), r, actor).WithDetails(comment)
	if next, ok := routing.NextApproverRole(r); ok {
		evt = evt.WithTarget(next)
	}
	s.emit(ctx, evt)

	s.auditor.Record(ctx, audit.Entry{
		ActorID:       actor.ID,
		ActorName:     actor.Name,
		ActionType:    "requisition." + action,
		RequisitionID: &r.ID,
		Details:       fmt.Sprintf("%s: %s -> %s", r.Reference, expectedStatus, r.Status),
	})

	return r, nil
}

// AttachProofOfPayment records a proof-of-payment reference on a
// requisition awaiting payment. Accountant-only. The store callback is
// invoked only after authorization and state checks pass, so rejected
// requests never leave a stored document behind.
func (s *Service) AttachProofOfPayment(ctx context.Context, id int64, actor entity.Actor, store func() (string, error)) (*entity.Requisition, error) {
	if actor.Role != entity.RoleAccountant {
		return nil, fmt.Errorf("%w: only the accountant may attach proof of payment", entity.ErrUnauthorizedTransition)
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, entity.ErrNotFound
	}
	if r.Status != entity.StatusApproved || !r.TierApproved() {
		return nil, fmt.Errorf("%w: requisition %s is not awaiting payment", entity.ErrInvalidState, r.Reference)
	}

	fileRef, err := store()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(fileRef) == "" {
		return nil, entity.NewValidationError("proof_of_payment", "file reference is required")
	}

	if err := s.repo.SetProofOfPayment(ctx, id, fileRef); err != nil {
		return nil, fmt.Errorf("set proof of payment: %w", err)
	}
	r.ProofOfPaymentRef = &fileRef

	s.emit(ctx, event.New(event.TypeProofAttached, r, actor).WithTarget(entity.RoleAccountant))
	s.auditor.Record(ctx, audit.Entry{
		ActorID:       actor.ID,
		ActorName:     actor.Name,
		ActionType:    "requisition.attach_proof",
		RequisitionID: &r.ID,
		Details:       fmt.Sprintf("%s: proof of payment attached", r.Reference),
	})

	return r, nil
}

// Get returns a requisition by id
func (s *Service) Get(ctx context.Context, id int64) (*entity.Requisition, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, entity.ErrNotFound
	}
	return r, nil
}

// List returns requisitions matching the filter
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*entity.Requisition, error) {
	return s.repo.List(ctx, filter)
}

// Queue returns the requisitions currently awaiting the actor's role
func (s *Service) Queue(ctx context.Context, actor entity.Actor) ([]*entity.Requisition, error) {
	open, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	return routing.QueueFor(actor, open), nil
}

// authorize checks that the actor holds the single role the router
// currently authorizes, that HODs act only within their own department,
// and that nobody approves the same requisition at two consecutive tiers.
func (s *Service) authorize(r *entity.Requisition, actor entity.Actor, action string) error {
	required, ok := routing.NextApproverRole(r)
	if !ok {
		return fmt.Errorf("%w: requisition %s is %s", entity.ErrInvalidState, r.Reference, r.Status)
	}

	if actor.Role != required {
		return fmt.Errorf("%w: %s required, got %s", entity.ErrUnauthorizedTransition, required, actor.Role)
	}
	if required == entity.RoleHOD && actor.Department != r.Department {
		return fmt.Errorf("%w: HOD of %s required", entity.ErrUnauthorizedTransition, r.Department)
	}

	// The accountant stage accepts only completion; earlier stages never do.
	if required == entity.RoleAccountant && action != entity.ActionComplete {
		return fmt.Errorf("%w: requisition %s awaits payment completion", entity.ErrInvalidState, r.Reference)
	}
	if required != entity.RoleAccountant && action == entity.ActionComplete {
		return fmt.Errorf("%w: requisition %s is not awaiting payment", entity.ErrInvalidState, r.Reference)
	}

	// One person must not approve at two consecutive tiers. Clearing
	// one's own hold from approved_wait remains allowed.
	if r.Status == entity.StatusApproved && r.ApprovedByActorID != nil && *r.ApprovedByActorID == actor.ID {
		return fmt.Errorf("%w: actor already acted on this requisition", entity.ErrUnauthorizedTransition)
	}

	return nil
}

func (s *Service) emit(ctx context.Context, evt *event.Event) {
	if err := s.notifier.Notify(ctx, evt); err != nil {
		s.logger.Warn("Notification dispatch failed",
			zap.String("event_type", evt.Type.String()),
			zap.String("reference", evt.Reference),
			zap.Error(err))
	}
}

func (s *Service) nextReference(ctx context.Context, now time.Time) (string, error) {
	count, err := s.repo.CountForYear(ctx, now.Year())
	if err != nil {
		return "", fmt.Errorf("next reference: %w", err)
	}
	return fmt.Sprintf("REQ-%d-%04d", now.Year(), count+1), nil
}

func eventTypeFor(action string) event.Type {
	switch action {
	case entity.ActionApprove:
		return event.TypeRequisitionApproved
	case entity.ActionReject:
		return event.TypeRequisitionRejected
	case entity.ActionWait:
		return event.TypeRequisitionOnHold
	case entity.ActionComplete:
		return event.TypeRequisitionCompleted
	default:
		return event.Type("requisition." + action)
	}
}
