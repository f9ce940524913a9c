// Package validation holds the pure domain invariant checks that run
// before any task mutation is persisted.
package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
)

// MaxTitleLength bounds task titles.
const MaxTitleLength = 200

// Invariant violations. Services map these to InvalidArgument.
var (
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleTooLong      = fmt.Errorf("title exceeds %d characters", MaxTitleLength)
	ErrInvalidStatus     = errors.New("unknown status")
	ErrInvalidPriority   = errors.New("unknown priority")
	ErrDueBeforeCreation = errors.New("due date must be after creation date")
	ErrDueInPast         = errors.New("due date cannot be in the past for an active task")
	ErrNegativeHours     = errors.New("hours cannot be negative")
	ErrSelfParent        = errors.New("a task cannot be its own parent")
	ErrParentCycle       = errors.New("circular dependency detected in task hierarchy")
	ErrEmptyComment      = errors.New("comment content is required")
)

// ParentResolver looks up the parent reference of a task. A nil UUID result
// with ok=false means the task has no parent.
type ParentResolver func(ctx context.Context, taskID uuid.UUID) (parent uuid.UUID, ok bool, err error)

// Title checks the title invariants.
func Title(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if len(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// Status rejects values outside the status enum.
func Status(status string) error {
	if !models.ValidStatus(status) {
		return ErrInvalidStatus
	}
	return nil
}

// Priority rejects values outside the priority enum.
func Priority(priority string) error {
	if !models.ValidPriority(priority) {
		return ErrInvalidPriority
	}
	return nil
}

// DueDateOnCreate checks a due date about to be stamped with createdAt=now.
// Active (non-terminal) tasks must be due in the future; terminal ones still
// cannot be due before their creation instant.
func DueDateOnCreate(dueAt time.Time, status string, now time.Time) error {
	if dueAt.Before(now) {
		return ErrDueBeforeCreation
	}
	if !dueAt.After(now) && !models.IsTerminalStatus(status) {
		return ErrDueInPast
	}
	return nil
}

// DueDateOnUpdate checks the due date of an existing task. The creation
// ordering invariant always holds; the past-due rejection applies only to
// tasks still in a fresh status (todo, pending), matching how the overdue
// sweep treats tasks that legitimately run past their due date.
func DueDateOnUpdate(dueAt, createdAt time.Time, status string, now time.Time) error {
	if dueAt.Before(createdAt) {
		return ErrDueBeforeCreation
	}
	if dueAt.Before(now) && (status == models.StatusTodo || status == models.StatusPending) {
		return ErrDueInPast
	}
	return nil
}

// Hours checks the effort invariants. actual may be nil when not yet logged.
func Hours(estimated float64, actual *float64) error {
	if estimated < 0 {
		return ErrNegativeHours
	}
	if actual != nil && *actual < 0 {
		return ErrNegativeHours
	}
	return nil
}

// ParentChain rejects self-parenting and cycles in the parent hierarchy.
// resolve is consulted to walk the existing chain starting at parentID.
func ParentChain(ctx context.Context, taskID, parentID uuid.UUID, resolve ParentResolver) error {
	if parentID == taskID {
		return ErrSelfParent
	}

	visited := map[uuid.UUID]bool{taskID: true}
	current := parentID
	for {
		if visited[current] {
			return ErrParentCycle
		}
		visited[current] = true

		next, ok, err := resolve(ctx, current)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		current = next
	}
}

// NormalizeMetadata replaces an absent metadata map with an empty one.
func NormalizeMetadata(m models.JSONMap) models.JSONMap {
	if m == nil {
		return models.JSONMap{}
	}
	return m
}

// CommentContent checks the comment invariants.
func CommentContent(content string) error {
	if content == "" {
		return ErrEmptyComment
	}
	return nil
}
