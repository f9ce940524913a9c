package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// searchVectorExpr derives the search representation from title and
// description, mirroring what the listing queries match against.
const searchVectorExpr = `to_tsvector('english', coalesce(title, '') || ' ' || coalesce(description, ''))`

// RefreshSearchVector regenerates one task's search representation.
// Callers invoke this after a committed mutation and treat failures as
// non-fatal: the task stays fully usable and the next incremental
// reindex recovers it.
func (r *Repository) RefreshSearchVector(ctx context.Context, id uuid.UUID) error {
	if !r.fullText {
		return nil
	}

	const q = `UPDATE tasks SET search_vector = ` + searchVectorExpr + `,
		search_indexed_at = now() WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("refresh search vector: %w", err)
	}
	return nil
}

// StaleSearchIDs lists tasks whose search representation is missing or
// older than their last write. Used by incremental reindexing.
func (r *Repository) StaleSearchIDs(ctx context.Context) ([]uuid.UUID, error) {
	const q = `
		SELECT id FROM tasks
		WHERE search_vector IS NULL
		   OR search_indexed_at IS NULL
		   OR search_indexed_at < updated_at
		ORDER BY updated_at ASC`

	var ids []uuid.UUID
	if err := r.db.SelectContext(ctx, &ids, q); err != nil {
		return nil, fmt.Errorf("list stale search ids: %w", err)
	}
	return ids, nil
}

// RebuildSearchIndex regenerates the representation for every row in one
// statement. Safe to re-run.
func (r *Repository) RebuildSearchIndex(ctx context.Context) (int64, error) {
	if !r.fullText {
		return 0, nil
	}

	const q = `UPDATE tasks SET search_vector = ` + searchVectorExpr + `,
		search_indexed_at = now()`

	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("rebuild search index: %w", err)
	}
	n, _ := res.RowsAffected()
	r.log.Debug("rebuilt search index", "tasks", n)
	return n, nil
}
