// internal/service/store.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
	"github.com/mikelezc/proyecto-sherpa/internal/repository"
)

// Store is the persistence surface the services depend on. Satisfied by
// *repository.Repository; tests swap in an in-memory fake.
type Store interface {
	CreateTask(ctx context.Context, in repository.CreateTaskInput) (*models.Task, []*models.TaskAssignment, error)
	GetTask(ctx context.Context, id uuid.UUID) (*models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, actorID uuid.UUID, in repository.UpdateTaskInput) (*models.Task, int, error)
	SetArchived(ctx context.Context, id uuid.UUID, archived bool, actorID uuid.UUID) (*models.Task, bool, error)
	ListTasks(ctx context.Context, f repository.TaskFilter) ([]*models.Task, int, error)
	ParentOf(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error)
	DeleteArchivedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	AssignUsers(ctx context.Context, taskID uuid.UUID, userIDs []uuid.UUID, assignedBy uuid.UUID, primary bool) ([]*models.TaskAssignment, int, error)
	UnassignUser(ctx context.Context, taskID, userID, actorID uuid.UUID) (bool, error)
	ListAssignments(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]*models.TaskAssignment, int, error)

	CreateComment(ctx context.Context, taskID, authorID uuid.UUID, content string) (*models.Comment, error)
	UpdateComment(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListComments(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]*models.Comment, int, error)

	ListHistory(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]*models.TaskHistory, int, error)

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*models.TaskTemplate, error)
	TemplateTagIDs(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error)

	MarkOverdueTasks(ctx context.Context, now time.Time) ([]*models.Task, error)
	RefreshSearchVector(ctx context.Context, id uuid.UUID) error
	StaleSearchIDs(ctx context.Context) ([]uuid.UUID, error)
	RebuildSearchIndex(ctx context.Context) (int64, error)
}

var (
	_ Store   = (*repository.Repository)(nil)
	_ Catalog = (*repository.Repository)(nil)
)
