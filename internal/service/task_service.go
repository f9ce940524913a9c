// internal/service/task_service.go
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
	"github.com/mikelezc/proyecto-sherpa/internal/repository"
	"github.com/mikelezc/proyecto-sherpa/internal/validation"
	"github.com/mikelezc/proyecto-sherpa/pkg/notify"
)

// DefaultDueIn is the due window stamped on tasks created without a due date.
const DefaultDueIn = 7 * 24 * time.Hour

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// TaskService implements the task lifecycle: create, update, archive,
// list. Mutations run through the store's transactional helpers; the
// search vector refresh and notifications happen after commit.
type TaskService struct {
	store    Store
	notifier notify.Dispatcher
	log      *slog.Logger
	now      func() time.Time
}

func NewTaskService(store Store, notifier notify.Dispatcher, log *slog.Logger) *TaskService {
	return &TaskService{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateTaskParams carries the caller-supplied fields for a new task.
type CreateTaskParams struct {
	Title          string
	Description    string
	Status         string
	Priority       string
	DueAt          time.Time
	EstimatedHours float64
	ActualHours    *float64
	TeamID         *uuid.UUID
	ParentTaskID   *uuid.UUID
	Metadata       models.JSONMap

	AssigneeIDs []uuid.UUID
	TagIDs      []uuid.UUID
}

// CreateTask validates and persists a new task. Missing status and
// priority fall back to todo/medium; a missing due date defaults to one
// week out. Initial assignees are stored with the first one primary.
func (s *TaskService) CreateTask(ctx context.Context, actorID uuid.UUID, p CreateTaskParams) (*models.Task, error) {
	if p.Status == "" {
		p.Status = models.StatusTodo
	}
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	now := s.now()
	if p.DueAt.IsZero() {
		p.DueAt = now.Add(DefaultDueIn)
	}

	if err := validation.Title(p.Title); err != nil {
		return nil, statusError(err)
	}
	if err := validation.Status(p.Status); err != nil {
		return nil, statusError(err)
	}
	if err := validation.Priority(p.Priority); err != nil {
		return nil, statusError(err)
	}
	if err := validation.DueDateOnCreate(p.DueAt, p.Status, now); err != nil {
		return nil, statusError(err)
	}
	if err := validation.Hours(p.EstimatedHours, p.ActualHours); err != nil {
		return nil, statusError(err)
	}
	if p.ParentTaskID != nil {
		if _, err := s.store.GetTask(ctx, *p.ParentTaskID); err != nil {
			return nil, statusError(err)
		}
	}

	task, assignments, err := s.store.CreateTask(ctx, repository.CreateTaskInput{
		Title:           p.Title,
		Description:     p.Description,
		Status:          p.Status,
		Priority:        p.Priority,
		DueAt:           p.DueAt,
		EstimatedHours:  p.EstimatedHours,
		ActualHours:     p.ActualHours,
		CreatedBy:       actorID,
		TeamID:          p.TeamID,
		ParentTaskID:    p.ParentTaskID,
		Metadata:        validation.NormalizeMetadata(p.Metadata),
		AssigneeIDs:     p.AssigneeIDs,
		PrimaryAssignee: true,
		TagIDs:          p.TagIDs,
	})
	if err != nil {
		return nil, statusError(err)
	}

	s.refreshSearch(ctx, task.ID)
	if len(assignments) > 0 {
		s.fire(ctx, task.ID, notify.KindAssigned)
	}
	return task, nil
}

// UpdateTaskParams is a field-level patch: nil leaves a field untouched.
// AssigneeIDs/TagIDs follow the repository contract (nil = untouched,
// empty = clear).
type UpdateTaskParams struct {
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

// UpdateTask applies the patch after validating it against the current
// row, recording exactly one history entry for the field changes.
func (s *TaskService) UpdateTask(ctx context.Context, id, actorID uuid.UUID, p UpdateTaskParams) (*models.Task, error) {
	current, err := s.authorize(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if p.Title != nil {
		if err := validation.Title(*p.Title); err != nil {
			return nil, statusError(err)
		}
	}
	if p.Status != nil {
		if err := validation.Status(*p.Status); err != nil {
			return nil, statusError(err)
		}
	}
	if p.Priority != nil {
		if err := validation.Priority(*p.Priority); err != nil {
			return nil, statusError(err)
		}
	}

	estimated := current.EstimatedHours
	if p.EstimatedHours != nil {
		estimated = *p.EstimatedHours
	}
	if err := validation.Hours(estimated, p.ActualHours); err != nil {
		return nil, statusError(err)
	}

	// The due-date rule is checked on every patch that touches status or
	// due date: moving an elapsed task back to todo/pending is as invalid
	// as backdating the due date itself.
	if p.DueAt != nil || p.Status != nil {
		due := current.DueAt
		if p.DueAt != nil {
			due = *p.DueAt
		}
		effectiveStatus := current.Status
		if p.Status != nil {
			effectiveStatus = *p.Status
		}
		if err := validation.DueDateOnUpdate(due, current.CreatedAt, effectiveStatus, s.now()); err != nil {
			return nil, statusError(err)
		}
	}

	if p.ParentTaskID != nil && p.ParentTaskID.Valid {
		if err := validation.ParentChain(ctx, id, p.ParentTaskID.UUID, s.store.ParentOf); err != nil {
			return nil, statusError(err)
		}
	}

	task, assigned, err := s.store.UpdateTask(ctx, id, actorID, repository.UpdateTaskInput{
		Title:          p.Title,
		Description:    p.Description,
		Status:         p.Status,
		Priority:       p.Priority,
		DueAt:          p.DueAt,
		EstimatedHours: p.EstimatedHours,
		ActualHours:    p.ActualHours,
		Metadata:       p.Metadata,
		TeamID:         p.TeamID,
		ParentTaskID:   p.ParentTaskID,
		AssigneeIDs:    p.AssigneeIDs,
		TagIDs:         p.TagIDs,
	})
	if err != nil {
		return nil, statusError(err)
	}

	s.refreshSearch(ctx, task.ID)
	if p.Status != nil && current.Status != task.Status {
		s.fire(ctx, task.ID, notify.KindStatusChanged)
	}
	if assigned > 0 {
		s.fire(ctx, task.ID, notify.KindAssigned)
	}
	return task, nil
}

// PartialUpdateTask is the narrow patch used by quick actions: status,
// priority and logged hours only.
func (s *TaskService) PartialUpdateTask(ctx context.Context, id, actorID uuid.UUID, taskStatus, priority *string, actualHours *float64) (*models.Task, error) {
	if taskStatus == nil && priority == nil && actualHours == nil {
		return nil, status.Error(codes.InvalidArgument, "no fields to update")
	}
	return s.UpdateTask(ctx, id, actorID, UpdateTaskParams{
		Status:      taskStatus,
		Priority:    priority,
		ActualHours: actualHours,
	})
}

// ArchiveTask hides the task from default listings. Archiving an already
// archived task is a no-op success with no history entry.
func (s *TaskService) ArchiveTask(ctx context.Context, id, actorID uuid.UUID) (*models.Task, error) {
	return s.setArchived(ctx, id, actorID, true)
}

// UnarchiveTask is the idempotent inverse of ArchiveTask.
func (s *TaskService) UnarchiveTask(ctx context.Context, id, actorID uuid.UUID) (*models.Task, error) {
	return s.setArchived(ctx, id, actorID, false)
}

func (s *TaskService) setArchived(ctx context.Context, id, actorID uuid.UUID, archived bool) (*models.Task, error) {
	if _, err := s.authorize(ctx, id, actorID); err != nil {
		return nil, err
	}
	task, _, err := s.store.SetArchived(ctx, id, archived, actorID)
	if err != nil {
		return nil, statusError(err)
	}
	return task, nil
}

// GetTask retrieves a task by ID.
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, statusError(err)
	}
	return task, nil
}

// ListTasks runs the composed filter and returns the page plus the total
// match count.
func (s *TaskService) ListTasks(ctx context.Context, f repository.TaskFilter) ([]*models.Task, int, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	tasks, total, err := s.store.ListTasks(ctx, f)
	if err != nil {
		return nil, 0, statusError(err)
	}
	return tasks, total, nil
}

// ListHistory returns the task's audit trail, newest first.
func (s *TaskService) ListHistory(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]*models.TaskHistory, int, error) {
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, 0, statusError(err)
	}
	entries, total, err := s.store.ListHistory(ctx, taskID, limit, offset)
	if err != nil {
		return nil, 0, statusError(err)
	}
	return entries, total, nil
}

// CreateFromTemplateParams seeds a task from a stored template. Explicit
// fields override the template's.
type CreateFromTemplateParams struct {
	TemplateID  uuid.UUID
	Title       string
	DueAt       time.Time
	TeamID      *uuid.UUID
	AssigneeIDs []uuid.UUID
}

// CreateTaskFromTemplate instantiates an active template into a new task,
// carrying over its priority, estimated hours and tag set.
func (s *TaskService) CreateTaskFromTemplate(ctx context.Context, actorID uuid.UUID, p CreateFromTemplateParams) (*models.Task, error) {
	tmpl, err := s.store.GetTemplate(ctx, p.TemplateID)
	if err != nil {
		return nil, statusError(err)
	}
	if !tmpl.IsActive {
		return nil, status.Error(codes.FailedPrecondition, "task template is inactive")
	}

	tagIDs, err := s.store.TemplateTagIDs(ctx, tmpl.ID)
	if err != nil {
		return nil, statusError(err)
	}

	title := p.Title
	if title == "" {
		title = tmpl.TitleTemplate
	}
	return s.CreateTask(ctx, actorID, CreateTaskParams{
		Title:          title,
		Description:    tmpl.DescriptionTemplate,
		Priority:       tmpl.Priority,
		DueAt:          p.DueAt,
		EstimatedHours: tmpl.EstimatedHours,
		TeamID:         p.TeamID,
		AssigneeIDs:    p.AssigneeIDs,
		TagIDs:         tagIDs,
	})
}

// authorize loads the task and checks the owner-or-staff rule for
// mutating operations.
func (s *TaskService) authorize(ctx context.Context, taskID, actorID uuid.UUID) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, statusError(err)
	}
	if task.CreatedBy == actorID {
		return task, nil
	}
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return nil, statusError(err)
	}
	if !actor.IsStaff {
		return nil, statusError(ErrPermissionDenied)
	}
	return task, nil
}

// refreshSearch updates the task's search vector after a committed
// mutation. Failures are logged and swallowed: the index catches up on
// the next reindex run.
func (s *TaskService) refreshSearch(ctx context.Context, taskID uuid.UUID) {
	if err := s.store.RefreshSearchVector(ctx, taskID); err != nil {
		s.log.Warn("search vector refresh failed", "task_id", taskID, "error", err)
	}
}

// fire dispatches a notification after commit. Delivery failures are
// logged and swallowed.
func (s *TaskService) fire(ctx context.Context, taskID uuid.UUID, kind string) {
	if err := s.notifier.Fire(ctx, taskID, kind); err != nil {
		s.log.Warn("notification dispatch failed", "task_id", taskID, "kind", kind, "error", err)
	}
}
