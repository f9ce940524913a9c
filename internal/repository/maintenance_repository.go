package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
)

// MarkOverdueTasks flips is_overdue on every active, non-archived task
// whose due date has elapsed, appending an audit entry per task. The
// system attributes the change to the task's creator. Returns the tasks
// that were flipped so callers can notify their assignees.
func (r *Repository) MarkOverdueTasks(ctx context.Context, now time.Time) ([]*models.Task, error) {
	var flipped []*models.Task
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `
			UPDATE tasks
			SET is_overdue = TRUE
			WHERE due_at < $1
			  AND is_overdue = FALSE
			  AND is_archived = FALSE
			  AND status NOT IN ($2, $3, $4)
			RETURNING ` + taskColumns

		if err := tx.SelectContext(ctx, &flipped, q, now,
			models.StatusDone, models.StatusCompleted, models.StatusCancelled); err != nil {
			return fmt.Errorf("mark overdue tasks: %w", err)
		}

		for _, t := range flipped {
			err := insertHistory(ctx, tx, t.ID, t.CreatedBy, models.ActionUpdated,
				models.JSONMap{"is_overdue": true, "reason": "automatically_marked_overdue"})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(flipped) > 0 {
		r.log.Debug("marked tasks overdue", "count", len(flipped))
	}
	return flipped, nil
}
