// Package repository implements the entity store on PostgreSQL via sqlx.
// Every multi-effect mutation (task row + history row + link rows) runs in
// a single transaction; search vector refreshes happen after commit and
// are owned by callers.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
)

type Repository struct {
	db  *sqlx.DB
	log *slog.Logger

	// fullText gates tsvector search; when off, listing falls back to
	// ILIKE over title and description.
	fullText bool
}

type Option func(*Repository)

// WithoutFullText forces the substring search fallback.
func WithoutFullText() Option {
	return func(r *Repository) { r.fullText = false }
}

func New(db *sqlx.DB, log *slog.Logger, opts ...Option) *Repository {
	r := &Repository{
		db:       db,
		log:      log,
		fullText: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// inTx runs fn inside a transaction, rolling back on error.
func (r *Repository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: rollback failed: %v", err, rerr)
		}
		return err
	}

	return tx.Commit()
}

// insertHistory appends an audit record inside the mutation transaction.
// A failure here fails the whole transaction: a committed change without
// its audit trail is never allowed.
func insertHistory(ctx context.Context, tx *sqlx.Tx, taskID, userID uuid.UUID, action string, changes models.JSONMap) error {
	const q = `
		INSERT INTO task_history (task_id, user_id, action, changes, timestamp)
		VALUES ($1, $2, $3, $4, $5)`

	if !models.ValidAction(action) {
		return fmt.Errorf("insert history: unknown action %q", action)
	}
	if changes == nil {
		changes = models.JSONMap{}
	}
	if _, err := tx.ExecContext(ctx, q, taskID, userID, action, changes, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert history (%s): %w", action, err)
	}
	return nil
}
