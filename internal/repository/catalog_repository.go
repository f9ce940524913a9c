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

// Tags

func (r *Repository) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	if color == "" {
		color = models.DefaultTagColor
	}

	const q = `
		INSERT INTO tags (name, color)
		VALUES ($1, $2)
		RETURNING id, name, color, created_at`

	var t models.Tag
	if err := r.db.GetContext(ctx, &t, q, name, color); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrTagAlreadyExists
		}
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	return &t, nil
}

func (r *Repository) ListTags(ctx context.Context) ([]*models.Tag, error) {
	const q = `SELECT id, name, color, created_at FROM tags ORDER BY lower(name) ASC`

	var out []*models.Tag
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

func (r *Repository) TaskTags(ctx context.Context, taskID uuid.UUID) ([]*models.Tag, error) {
	const q = `
		SELECT tags.id, tags.name, tags.color, tags.created_at
		FROM tags JOIN task_tags tt ON tt.tag_id = tags.id
		WHERE tt.task_id = $1
		ORDER BY lower(tags.name) ASC`

	var out []*models.Tag
	if err := r.db.SelectContext(ctx, &out, q, taskID); err != nil {
		return nil, fmt.Errorf("list task tags: %w", err)
	}
	return out, nil
}

// setTaskTagsTx links the given tags to a fresh task.
func setTaskTagsTx(ctx context.Context, tx *sqlx.Tx, taskID uuid.UUID, tagIDs []uuid.UUID) error {
	const q = `INSERT INTO task_tags (task_id, tag_id) VALUES ($1, $2)
		ON CONFLICT (task_id, tag_id) DO NOTHING`

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx, q, taskID, tagID); err != nil {
			if isForeignKeyViolation(err) {
				return ErrTagNotFound
			}
			return fmt.Errorf("link tag: %w", err)
		}
	}
	return nil
}

// replaceTaskTagsTx clears the task's tag links and relinks the given
// set. An empty set therefore clears all tags.
func replaceTaskTagsTx(ctx context.Context, tx *sqlx.Tx, taskID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}
	return setTaskTagsTx(ctx, tx, taskID, tagIDs)
}

// Teams

func (r *Repository) CreateTeam(ctx context.Context, name, description string, createdBy uuid.UUID, memberIDs []uuid.UUID) (*models.Team, error) {
	const insert = `
		INSERT INTO teams (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_by, created_at`

	var team models.Team
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &team, insert, name, description, createdBy); err != nil {
			if isUniqueViolation(err) {
				return ErrTeamAlreadyExists
			}
			if isForeignKeyViolation(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("insert team: %w", err)
		}

		const member = `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)
			ON CONFLICT (team_id, user_id) DO NOTHING`
		for _, userID := range memberIDs {
			if _, err := tx.ExecContext(ctx, member, team.ID, userID); err != nil {
				if isForeignKeyViolation(err) {
					return ErrUserNotFound
				}
				return fmt.Errorf("add team member: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	const q = `SELECT id, name, description, created_by, created_at FROM teams WHERE id = $1`

	var t models.Team
	if err := r.db.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &t, nil
}

func (r *Repository) TeamMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY user_id`

	var out []uuid.UUID
	if err := r.db.SelectContext(ctx, &out, q, teamID); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return out, nil
}

// Templates

func (r *Repository) GetTemplate(ctx context.Context, id uuid.UUID) (*models.TaskTemplate, error) {
	const q = `
		SELECT id, name, title_template, description_template, estimated_hours,
			priority, created_by, is_active, created_at
		FROM task_templates WHERE id = $1`

	var t models.TaskTemplate
	if err := r.db.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &t, nil
}

// TemplateTagIDs returns the tags a template seeds onto new tasks.
func (r *Repository) TemplateTagIDs(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	const q = `SELECT tag_id FROM template_tags WHERE template_id = $1 ORDER BY tag_id`

	var out []uuid.UUID
	if err := r.db.SelectContext(ctx, &out, q, templateID); err != nil {
		return nil, fmt.Errorf("list template tags: %w", err)
	}
	return out, nil
}

// Users

// GetUser resolves a user row. The engine trusts this as the identity
// provider's answer; it never authenticates.
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `SELECT id, username, email, is_staff, is_active, created_at FROM users WHERE id = $1`

	var u models.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *Repository) CreateUser(ctx context.Context, username, email string, isStaff bool) (*models.User, error) {
	const q = `
		INSERT INTO users (username, email, is_staff)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, is_staff, is_active, created_at`

	var u models.User
	if err := r.db.GetContext(ctx, &u, q, username, email, isStaff); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %q already exists", username)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}
