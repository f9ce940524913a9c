package models

import (
	"time"

	"github.com/google/uuid"
)

// History action constants
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionAssigned      = "assigned"
	ActionUnassigned    = "unassigned"
	ActionStatusChanged = "status_changed"
	ActionArchived      = "archived"
	ActionUnarchived    = "unarchived"
)

var validActions = map[string]bool{
	ActionCreated:       true,
	ActionUpdated:       true,
	ActionAssigned:      true,
	ActionUnassigned:    true,
	ActionStatusChanged: true,
	ActionArchived:      true,
	ActionUnarchived:    true,
}

// ValidAction reports whether a is a known history action.
func ValidAction(a string) bool {
	return validActions[a]
}

// TaskHistory is an append-only audit record. Rows are written once inside
// the mutation transaction that caused them and are never updated or
// deleted afterwards. The serial ID keeps same-timestamp entries for a
// task in append order.
type TaskHistory struct {
	ID        int64     `db:"id"`
	TaskID    uuid.UUID `db:"task_id"`
	UserID    uuid.UUID `db:"user_id"`
	Action    string    `db:"action"`
	Changes   JSONMap   `db:"changes"`
	Timestamp time.Time `db:"timestamp"`
}
