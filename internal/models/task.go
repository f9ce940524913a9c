package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task status constants
const (
	StatusTodo       = "todo"
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusReview     = "review"
	StatusDone       = "done"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Priority constants
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#007bff"

// PriorityRank maps priorities to a severity order (lower rank = more severe).
var PriorityRank = map[string]int{
	PriorityCritical: 1,
	PriorityHigh:     2,
	PriorityMedium:   3,
	PriorityLow:      4,
}

var validStatuses = map[string]bool{
	StatusTodo:       true,
	StatusPending:    true,
	StatusInProgress: true,
	StatusReview:     true,
	StatusDone:       true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

var terminalStatuses = map[string]bool{
	StatusDone:      true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	return validStatuses[s]
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p string) bool {
	_, ok := PriorityRank[p]
	return ok
}

// IsTerminalStatus reports whether s ends the task's active life for
// overdue computation (done, completed, cancelled).
func IsTerminalStatus(s string) bool {
	return terminalStatuses[s]
}

// ComputeOverdue reports whether a task with the given due date and status
// counts as overdue at the given instant.
func ComputeOverdue(dueAt time.Time, status string, now time.Time) bool {
	return dueAt.Before(now) && !IsTerminalStatus(status)
}

// JSONMap is a JSONB-backed key/value map (task metadata, history changes).
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", src)
	}
	return json.Unmarshal(data, m)
}

type Task struct {
	ID             uuid.UUID       `db:"id"`
	Title          string          `db:"title"`
	Description    string          `db:"description"`
	Status         string          `db:"status"`
	Priority       string          `db:"priority"`
	DueAt          time.Time       `db:"due_at"`
	EstimatedHours float64         `db:"estimated_hours"`
	ActualHours    sql.NullFloat64 `db:"actual_hours"`
	CreatedBy      uuid.UUID       `db:"created_by"`
	TeamID         uuid.NullUUID   `db:"team_id"`
	ParentTaskID   uuid.NullUUID   `db:"parent_task_id"`
	Metadata       JSONMap         `db:"metadata"`
	IsArchived     bool            `db:"is_archived"`
	IsOverdue      bool            `db:"is_overdue"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// Changes compares two task snapshots and returns the history payload for
// an update. Status transitions are reported with old and new values.
func (t *Task) Changes(updated *Task) JSONMap {
	changes := JSONMap{}

	if t.Status != updated.Status {
		changes["old_status"] = t.Status
		changes["new_status"] = updated.Status
	}
	if t.Title != updated.Title {
		changes["old_title"] = t.Title
		changes["new_title"] = updated.Title
	}
	if t.Description != updated.Description {
		changes["description_changed"] = true
	}
	if t.Priority != updated.Priority {
		changes["old_priority"] = t.Priority
		changes["new_priority"] = updated.Priority
	}
	if !t.DueAt.Equal(updated.DueAt) {
		changes["due_at_changed"] = true
	}
	if t.EstimatedHours != updated.EstimatedHours {
		changes["estimated_hours_changed"] = true
	}
	if t.ActualHours != updated.ActualHours {
		changes["actual_hours_changed"] = true
	}

	return changes
}

type TaskAssignment struct {
	ID         uuid.UUID `db:"id"`
	TaskID     uuid.UUID `db:"task_id"`
	UserID     uuid.UUID `db:"user_id"`
	AssignedBy uuid.UUID `db:"assigned_by"`
	IsPrimary  bool      `db:"is_primary"`
	AssignedAt time.Time `db:"assigned_at"`
}

type Comment struct {
	ID        uuid.UUID `db:"id"`
	TaskID    uuid.UUID `db:"task_id"`
	AuthorID  uuid.UUID `db:"author_id"`
	Content   string    `db:"content"`
	IsEdited  bool      `db:"is_edited"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Tag struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Color     string    `db:"color"`
	CreatedAt time.Time `db:"created_at"`
}

type Team struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedBy   uuid.UUID `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
}

type TaskTemplate struct {
	ID                  uuid.UUID `db:"id"`
	Name                string    `db:"name"`
	TitleTemplate       string    `db:"title_template"`
	DescriptionTemplate string    `db:"description_template"`
	EstimatedHours      float64   `db:"estimated_hours"`
	Priority            string    `db:"priority"`
	CreatedBy           uuid.UUID `db:"created_by"`
	IsActive            bool      `db:"is_active"`
	CreatedAt           time.Time `db:"created_at"`
}

type User struct {
	ID        uuid.UUID `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	IsStaff   bool      `db:"is_staff"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}
