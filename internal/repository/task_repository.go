package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
)

// CreateTaskInput carries everything persisted in the task creation
// transaction: the row itself, optional initial assignments and tag links.
type CreateTaskInput struct {
	Title          string
	Description    string
	Status         string
	Priority       string
	DueAt          time.Time
	EstimatedHours float64
	ActualHours    *float64
	CreatedBy      uuid.UUID
	TeamID         *uuid.UUID
	ParentTaskID   *uuid.UUID
	Metadata       models.JSONMap

	AssigneeIDs     []uuid.UUID
	PrimaryAssignee bool
	TagIDs          []uuid.UUID
}

// UpdateTaskInput is a field-level patch: nil leaves a field untouched.
// For the collection fields a nil slice leaves the links untouched while
// an empty one clears them.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	DueAt          *time.Time
	EstimatedHours *float64
	ActualHours    *float64
	Metadata       models.JSONMap
	TeamID         *uuid.NullUUID
	ParentTaskID   *uuid.NullUUID

	AssigneeIDs []uuid.UUID
	TagIDs      []uuid.UUID
}

// CreateTask persists a task plus its initial assignments and tag links in
// one transaction, appending the corresponding history rows. Returns the
// stored task and the assignments created with it.
func (r *Repository) CreateTask(ctx context.Context, in CreateTaskInput) (*models.Task, []*models.TaskAssignment, error) {
	const q = `
		INSERT INTO tasks (title, description, status, priority, due_at,
			estimated_hours, actual_hours, created_by, team_id, parent_task_id,
			metadata, is_overdue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + taskColumns

	if in.Metadata == nil {
		in.Metadata = models.JSONMap{}
	}

	var (
		task        models.Task
		assignments []*models.TaskAssignment
	)
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		overdue := models.ComputeOverdue(in.DueAt, in.Status, time.Now().UTC())
		err := tx.GetContext(ctx, &task, q,
			in.Title, in.Description, in.Status, in.Priority, in.DueAt,
			in.EstimatedHours, nullFloat(in.ActualHours), in.CreatedBy,
			nullUUID(in.TeamID), nullUUID(in.ParentTaskID), in.Metadata, overdue)
		if err != nil {
			return translateTaskError(err)
		}

		if err := insertHistory(ctx, tx, task.ID, in.CreatedBy, models.ActionCreated,
			models.JSONMap{"status": task.Status}); err != nil {
			return err
		}

		assignments, _, err = assignUsersTx(ctx, tx, task.ID, in.AssigneeIDs, in.CreatedBy, in.PrimaryAssignee)
		if err != nil {
			return err
		}

		return setTaskTagsTx(ctx, tx, task.ID, in.TagIDs)
	})
	if err != nil {
		return nil, nil, err
	}
	return &task, assignments, nil
}

func (r *Repository) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var t models.Task
	if err := r.db.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// UpdateTask applies the patch and appends the matching history entry in
// one transaction. The previous row is locked and re-read inside the
// transaction so the recorded change set reflects exactly what this
// writer replaced. Returns the updated task and how many assignments the
// resync created.
func (r *Repository) UpdateTask(ctx context.Context, id uuid.UUID, actorID uuid.UUID, in UpdateTaskInput) (*models.Task, int, error) {
	var (
		task    models.Task
		created int
	)
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		prev, err := lockTask(ctx, tx, id)
		if err != nil {
			return err
		}

		next := *prev
		if in.Title != nil {
			next.Title = *in.Title
		}
		if in.Description != nil {
			next.Description = *in.Description
		}
		if in.Status != nil {
			next.Status = *in.Status
		}
		if in.Priority != nil {
			next.Priority = *in.Priority
		}
		if in.DueAt != nil {
			next.DueAt = *in.DueAt
		}
		if in.EstimatedHours != nil {
			next.EstimatedHours = *in.EstimatedHours
		}
		if in.ActualHours != nil {
			next.ActualHours = sql.NullFloat64{Float64: *in.ActualHours, Valid: true}
		}
		if in.Metadata != nil {
			next.Metadata = in.Metadata
		}
		if in.TeamID != nil {
			next.TeamID = *in.TeamID
		}
		if in.ParentTaskID != nil {
			next.ParentTaskID = *in.ParentTaskID
		}
		next.IsOverdue = models.ComputeOverdue(next.DueAt, next.Status, time.Now().UTC())

		const q = `
			UPDATE tasks
			SET title = $2, description = $3, status = $4, priority = $5,
			    due_at = $6, estimated_hours = $7, actual_hours = $8,
			    metadata = $9, team_id = $10, parent_task_id = $11,
			    is_overdue = $12, updated_at = now()
			WHERE id = $1
			RETURNING ` + taskColumns

		err = tx.GetContext(ctx, &task, q, id,
			next.Title, next.Description, next.Status, next.Priority,
			next.DueAt, next.EstimatedHours, next.ActualHours,
			next.Metadata, next.TeamID, next.ParentTaskID, next.IsOverdue)
		if err != nil {
			return translateTaskError(err)
		}

		action := models.ActionUpdated
		changes := prev.Changes(&task)
		if prev.Status != task.Status {
			action = models.ActionStatusChanged
		}
		if err := insertHistory(ctx, tx, id, actorID, action, changes); err != nil {
			return err
		}

		if in.AssigneeIDs != nil {
			created, err = replaceAssignmentsTx(ctx, tx, id, in.AssigneeIDs, actorID)
			if err != nil {
				return err
			}
		}
		if in.TagIDs != nil {
			if err := replaceTaskTagsTx(ctx, tx, id, in.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &task, created, nil
}

// SetArchived flips the archived flag. Already being in the requested
// state is a no-op success: no row change and no history entry. The
// changed result tells callers whether anything happened.
func (r *Repository) SetArchived(ctx context.Context, id uuid.UUID, archived bool, actorID uuid.UUID) (task *models.Task, changed bool, err error) {
	err = r.inTx(ctx, func(tx *sqlx.Tx) error {
		prev, err := lockTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if prev.IsArchived == archived {
			task = prev
			return nil
		}

		const q = `
			UPDATE tasks SET is_archived = $2, updated_at = now()
			WHERE id = $1
			RETURNING ` + taskColumns

		var updated models.Task
		if err := tx.GetContext(ctx, &updated, q, id, archived); err != nil {
			return fmt.Errorf("set archived: %w", err)
		}
		task = &updated
		changed = true

		action := models.ActionArchived
		if !archived {
			action = models.ActionUnarchived
		}
		return insertHistory(ctx, tx, id, actorID, action, models.JSONMap{"is_archived": archived})
	})
	if err != nil {
		return nil, false, err
	}
	return task, changed, nil
}

// ListTasks returns the filtered, ordered page of tasks plus the total
// count of rows matching the filter before pagination.
func (r *Repository) ListTasks(ctx context.Context, f TaskFilter) ([]*models.Task, int, error) {
	where, args, searchArg := buildTaskWhere(f, r.fullText)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT count(*) FROM tasks "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	q := "SELECT " + taskColumns + " FROM tasks " + where + " " + buildTaskOrder(f, r.fullText, searchArg)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var tasks []*models.Task
	if err := r.db.SelectContext(ctx, &tasks, q, args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

// ParentOf resolves a task's parent reference for hierarchy validation.
func (r *Repository) ParentOf(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
	const q = `SELECT parent_task_id FROM tasks WHERE id = $1`

	var parent uuid.NullUUID
	if err := r.db.GetContext(ctx, &parent, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, false, ErrTaskNotFound
		}
		return uuid.Nil, false, fmt.Errorf("resolve parent: %w", err)
	}
	return parent.UUID, parent.Valid, nil
}

// DeleteArchivedBefore hard-deletes archived tasks untouched since the
// cutoff. Assignments, comments, history and tag links go with them via
// ON DELETE CASCADE. This is the only code path that removes task rows.
func (r *Repository) DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM tasks WHERE is_archived = TRUE AND updated_at < $1`

	res, err := r.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete archived tasks: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func lockTask(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 FOR UPDATE`

	var t models.Task
	if err := tx.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("lock task: %w", err)
	}
	return &t, nil
}

func translateTaskError(err error) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrTaskNotFound
	case isForeignKeyViolation(err):
		var pqErr *pq.Error
		errors.As(err, &pqErr)
		switch {
		case strings.Contains(pqErr.Constraint, "team"):
			return ErrTeamNotFound
		case strings.Contains(pqErr.Constraint, "parent"):
			return ErrTaskNotFound
		default:
			return ErrUserNotFound
		}
	case isCheckViolation(err):
		return ErrInvalidRow
	default:
		return fmt.Errorf("write task: %w", err)
	}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
