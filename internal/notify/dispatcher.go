// Package notify informs the next actor in the approval chain about
// requisition transitions. Dispatch is fire-and-forget: a delivery
// failure must never fail the transition that triggered it.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/GIDEON8-jpg/simply-request-sub000/internal/domain/event"
)

// Dispatcher delivers transition notifications
type Dispatcher interface {
	Notify(ctx context.Context, evt *event.Event) error
}

// NopDispatcher drops all notifications. Used when messaging is disabled
// in configuration and in tests.
type NopDispatcher struct{}

// Notify discards the event
func (NopDispatcher) Notify(ctx context.Context, evt *event.Event) error {
	return nil
}

// LogDispatcher writes notifications to the application log only
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a log-only dispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Notify logs the event
func (d *LogDispatcher) Notify(ctx context.Context, evt *event.Event) error {
	d.logger.Info("Notification dispatched",
		zap.String("event_type", evt.Type.String()),
		zap.String("reference", evt.Reference),
		zap.String("target_role", evt.TargetRole.String()))
	return nil
}
