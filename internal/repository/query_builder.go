package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sort keys accepted by TaskFilter.
const (
	SortByCreatedAt = "created_at"
	SortByDueAt     = "due_at"
	SortByPriority  = "priority"
)

// TaskFilter holds the optional predicates of a task listing. Absent
// fields add no predicate; archived rows are excluded unless
// IncludeArchived is set.
type TaskFilter struct {
	Status     *string
	Priority   *string
	AssigneeID *uuid.UUID
	CreatedBy  *uuid.UUID
	TeamID     *uuid.UUID
	TagName    string
	Overdue    *bool
	Search     string

	IncludeArchived bool

	SortBy    string // created_at (default), due_at, priority
	SortOrder string // asc or desc

	Limit  int
	Offset int
}

const taskColumns = `id, title, description, status, priority, due_at, estimated_hours,
	actual_hours, created_by, team_id, parent_task_id, metadata, is_archived,
	is_overdue, created_at, updated_at`

// priorityOrderExpr maps the priority enum onto its severity order.
const priorityOrderExpr = `CASE priority WHEN 'critical' THEN 1 WHEN 'high' THEN 2 WHEN 'medium' THEN 3 WHEN 'low' THEN 4 END`

// buildTaskWhere renders the filter into a WHERE clause and its argument
// list. Predicates are appended in a fixed order so equivalent filters
// always produce identical SQL regardless of how the caller set them.
// Returns the clause, the args, and the positional index of the search
// term (0 when no search is active) for reuse in the ORDER BY rank.
func buildTaskWhere(f TaskFilter, fullText bool) (string, []any, int) {
	var (
		sb        strings.Builder
		args      []any
		searchArg int
	)

	next := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	sb.WriteString("WHERE 1=1")
	if !f.IncludeArchived {
		sb.WriteString(" AND is_archived = FALSE")
	}
	if f.Status != nil {
		fmt.Fprintf(&sb, " AND status = $%d", next(*f.Status))
	}
	if f.Priority != nil {
		fmt.Fprintf(&sb, " AND priority = $%d", next(*f.Priority))
	}
	if f.AssigneeID != nil {
		fmt.Fprintf(&sb, " AND EXISTS (SELECT 1 FROM task_assignments ta WHERE ta.task_id = tasks.id AND ta.user_id = $%d)", next(*f.AssigneeID))
	}
	if f.CreatedBy != nil {
		fmt.Fprintf(&sb, " AND created_by = $%d", next(*f.CreatedBy))
	}
	if f.TeamID != nil {
		fmt.Fprintf(&sb, " AND team_id = $%d", next(*f.TeamID))
	}
	if f.TagName != "" {
		fmt.Fprintf(&sb, " AND EXISTS (SELECT 1 FROM task_tags tt JOIN tags ON tags.id = tt.tag_id WHERE tt.task_id = tasks.id AND tags.name ILIKE '%%' || $%d || '%%')", next(f.TagName))
	}
	if f.Overdue != nil {
		fmt.Fprintf(&sb, " AND is_overdue = $%d", next(*f.Overdue))
	}
	if f.Search != "" {
		searchArg = next(f.Search)
		if fullText {
			// Rows not yet indexed still match through the substring arm.
			fmt.Fprintf(&sb,
				" AND (search_vector @@ plainto_tsquery('english', $%d) OR title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')",
				searchArg, searchArg, searchArg)
		} else {
			fmt.Fprintf(&sb,
				" AND (title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')",
				searchArg, searchArg)
		}
	}

	return sb.String(), args, searchArg
}

// buildTaskOrder renders a fully specified ORDER BY for the filter. Free
// text search ranks first (when full text is available), then the explicit
// sort key, with created_at and id as final tie breakers.
func buildTaskOrder(f TaskFilter, fullText bool, searchArg int) string {
	var keys []string

	if f.Search != "" && fullText && searchArg > 0 {
		keys = append(keys, fmt.Sprintf("ts_rank(search_vector, plainto_tsquery('english', $%d)) DESC", searchArg))
	}

	dir := "DESC"
	switch strings.ToLower(f.SortOrder) {
	case "asc":
		dir = "ASC"
	case "", "desc":
	}

	switch f.SortBy {
	case SortByDueAt:
		keys = append(keys, "due_at "+dir, "created_at DESC")
	case SortByPriority:
		if dir == "DESC" {
			// Most severe first.
			keys = append(keys, priorityOrderExpr+" ASC", "created_at DESC")
		} else {
			keys = append(keys, priorityOrderExpr+" DESC", "created_at DESC")
		}
	case SortByCreatedAt:
		keys = append(keys, "created_at "+dir)
	default:
		keys = append(keys, "created_at DESC")
	}

	keys = append(keys, "id ASC")
	return "ORDER BY " + strings.Join(keys, ", ")
}
