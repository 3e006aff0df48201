// Package audit appends workflow actions to an append-only log. Writes
// are best-effort: a failed audit write is logged and swallowed, never
// propagated to the transition that produced it.
package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Entry is one append-only audit record
type Entry struct {
	ID            int64     `json:"id"`
	ActorID       string    `json:"actor_id"`
	ActorName     string    `json:"actor_name"`
	ActionType    string    `json:"action_type"`
	RequisitionID *int64    `json:"requisition_id,omitempty"`
	Details       string    `json:"details"`
	Timestamp     time.Time `json:"timestamp"`
}

// Store persists audit entries
type Store interface {
	Insert(ctx context.Context, e *Entry) error
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)
}

// Recorder writes audit entries with failure isolation
type Recorder struct {
	store  Store
	logger *zap.Logger
}

// NewRecorder creates an audit recorder
func NewRecorder(store Store, logger *zap.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record appends an entry. Failures are logged, never returned.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if err := r.store.Insert(ctx, &e); err != nil {
		r.logger.Warn("Failed to write audit entry",
			zap.String("action_type", e.ActionType),
			zap.String("actor_id", e.ActorID),
			zap.Error(err))
	}
}

// ListRecent returns the most recent entries, newest first
func (r *Recorder) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return r.store.ListRecent(ctx, limit)
}
