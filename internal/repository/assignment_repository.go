package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
)

const assignmentColumns = `id, task_id, user_id, assigned_by, is_primary, assigned_at`

// AssignUsers links the users to the task. Users already assigned are
// returned unchanged; only new links produce a history entry. When
// primary is set, only the first user of the batch receives the flag.
// Returns every assignment for the requested users plus how many of them
// were newly created.
func (r *Repository) AssignUsers(ctx context.Context, taskID uuid.UUID, userIDs []uuid.UUID, assignedBy uuid.UUID, primary bool) ([]*models.TaskAssignment, int, error) {
	var (
		assignments []*models.TaskAssignment
		created     int
	)
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := lockTask(ctx, tx, taskID); err != nil {
			return err
		}
		var err error
		assignments, created, err = assignUsersTx(ctx, tx, taskID, userIDs, assignedBy, primary)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return assignments, created, nil
}

// UnassignUser removes the single matching link. A missing link is not an
// error: the result reports whether anything was removed, and history is
// only written for an actual removal.
func (r *Repository) UnassignUser(ctx context.Context, taskID, userID, actorID uuid.UUID) (bool, error) {
	var removed bool
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `DELETE FROM task_assignments WHERE task_id = $1 AND user_id = $2`

		res, err := tx.ExecContext(ctx, q, taskID, userID)
		if err != nil {
			return fmt.Errorf("unassign user: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return nil
		}
		removed = true
		return insertHistory(ctx, tx, taskID, actorID, models.ActionUnassigned,
			models.JSONMap{"unassigned_user": userID.String()})
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// ListAssignments returns a task's assignments, newest first, plus the
// total count.
func (r *Repository) ListAssignments(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]*models.TaskAssignment, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT count(*) FROM task_assignments WHERE task_id = $1`, taskID); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	q := `SELECT ` + assignmentColumns + ` FROM task_assignments
		WHERE task_id = $1 ORDER BY assigned_at DESC, id ASC`
	args := []any{taskID}
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var out []*models.TaskAssignment
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}
	return out, total, nil
}

// assignUsersTx inserts the links conflict-tolerantly: the UNIQUE
// (task_id, user_id) constraint plus ON CONFLICT DO NOTHING makes
// concurrent assigns of the same pair collapse to one row.
func assignUsersTx(ctx context.Context, tx *sqlx.Tx, taskID uuid.UUID, userIDs []uuid.UUID, assignedBy uuid.UUID, primary bool) ([]*models.TaskAssignment, int, error) {
	const insert = `
		INSERT INTO task_assignments (task_id, user_id, assigned_by, is_primary)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (task_id, user_id) DO NOTHING
		RETURNING ` + assignmentColumns

	const get = `SELECT ` + assignmentColumns + ` FROM task_assignments
		WHERE task_id = $1 AND user_id = $2`

	var (
		out     []*models.TaskAssignment
		created int
	)
	for i, userID := range userIDs {
		isPrimary := primary && i == 0

		var a models.TaskAssignment
		err := tx.GetContext(ctx, &a, insert, taskID, userID, assignedBy, isPrimary)
		switch {
		case err == nil:
			created++
			if err := insertHistory(ctx, tx, taskID, assignedBy, models.ActionAssigned,
				models.JSONMap{"assigned_to": userID.String(), "is_primary": isPrimary}); err != nil {
				return nil, 0, err
			}
		case errors.Is(err, sql.ErrNoRows):
			// Already assigned: idempotent no-op, return the existing row.
			if err := tx.GetContext(ctx, &a, get, taskID, userID); err != nil {
				return nil, 0, fmt.Errorf("get existing assignment: %w", err)
			}
		case isForeignKeyViolation(err):
			return nil, 0, ErrUserNotFound
		default:
			return nil, 0, fmt.Errorf("insert assignment: %w", err)
		}
		out = append(out, &a)
	}
	return out, created, nil
}

// replaceAssignmentsTx implements the full-replace semantics of task
// updates: links outside the given set are removed (with an unassigned
// history entry) and missing ones are created, first user primary.
// Returns how many links were newly created.
func replaceAssignmentsTx(ctx context.Context, tx *sqlx.Tx, taskID uuid.UUID, userIDs []uuid.UUID, actorID uuid.UUID) (int, error) {
	var current []*models.TaskAssignment
	if err := tx.SelectContext(ctx, &current,
		`SELECT `+assignmentColumns+` FROM task_assignments WHERE task_id = $1`, taskID); err != nil {
		return 0, fmt.Errorf("load assignments: %w", err)
	}

	keep := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		keep[id] = true
	}

	for _, a := range current {
		if keep[a.UserID] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM task_assignments WHERE id = $1`, a.ID); err != nil {
			return 0, fmt.Errorf("remove assignment: %w", err)
		}
		if err := insertHistory(ctx, tx, taskID, actorID, models.ActionUnassigned,
			models.JSONMap{"unassigned_user": a.UserID.String()}); err != nil {
			return 0, err
		}
	}

	_, created, err := assignUsersTx(ctx, tx, taskID, userIDs, actorID, true)
	if err != nil {
		return 0, err
	}
	return created, nil
}
