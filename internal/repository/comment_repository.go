package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
)

const commentColumns = `id, task_id, author_id, content, is_edited, created_at, updated_at`

func (r *Repository) CreateComment(ctx context.Context, taskID, authorID uuid.UUID, content string) (*models.Comment, error) {
	const q = `
		INSERT INTO comments (task_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING ` + commentColumns

	var c models.Comment
	if err := r.db.GetContext(ctx, &c, q, taskID, authorID, content); err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &c, nil
}

// UpdateComment rewrites the content; any update after the first save
// marks the comment as edited.
func (r *Repository) UpdateComment(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	const q = `
		UPDATE comments
		SET content = $2, is_edited = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING ` + commentColumns

	var c models.Comment
	if err := r.db.GetContext(ctx, &c, q, id, content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &c, nil
}

func (r *Repository) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	const q = `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	var c models.Comment
	if err := r.db.GetContext(ctx, &c, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

// ListComments returns a task's comments in conversation order (oldest
// first) plus the total count.
func (r *Repository) ListComments(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]*models.Comment, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT count(*) FROM comments WHERE task_id = $1`, taskID); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	q := `SELECT ` + commentColumns + ` FROM comments
		WHERE task_id = $1 ORDER BY created_at ASC, id ASC`
	args := []any{taskID}
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var out []*models.Comment
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return out, total, nil
}
