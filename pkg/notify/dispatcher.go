// Package notify dispatches task event notifications. Delivery is
// fire-and-forget and at-least-once: callers must never treat a fired
// notification as proof the underlying change committed, nor a dispatch
// failure as a reason to fail the mutation.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event kinds carried with a notification.
const (
	KindAssigned      = "assigned"
	KindStatusChanged = "status_changed"
	KindDueSoon       = "due_soon"
	KindOverdue       = "overdue"
)

// Dispatcher fires a task event toward the delivery backend.
type Dispatcher interface {
	Fire(ctx context.Context, taskID uuid.UUID, kind string) error
	Close() error
}

// Event is the wire payload of a notification.
type Event struct {
	TaskID  uuid.UUID `json:"task_id"`
	Kind    string    `json:"kind"`
	FiredAt time.Time `json:"fired_at"`
}
