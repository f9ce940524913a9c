package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
)

// ListHistory returns a task's audit entries newest first plus the total
// count. The serial id breaks timestamp ties in reverse append order so a
// task's mutation sequence is always reconstructible. There is
// deliberately no update or delete path for history rows.
func (r *Repository) ListHistory(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]*models.TaskHistory, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT count(*) FROM task_history WHERE task_id = $1`, taskID); err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}

	q := `SELECT id, task_id, user_id, action, changes, timestamp FROM task_history
		WHERE task_id = $1 ORDER BY timestamp DESC, id DESC`
	args := []any{taskID}
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var out []*models.TaskHistory
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, 0, fmt.Errorf("list history: %w", err)
	}
	return out, total, nil
}
