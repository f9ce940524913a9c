// internal/service/assignment_service.go
package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
	"github.com/mikelezc/proyecto-sherpa/pkg/notify"
)

// AssignmentService manages the task/user assignment set. Assigning an
// already assigned user is a silent no-op; batch assigns mark only the
// first user primary.
type AssignmentService struct {
	store    Store
	notifier notify.Dispatcher
	log      *slog.Logger
}

func NewAssignmentService(store Store, notifier notify.Dispatcher, log *slog.Logger) *AssignmentService {
	return &AssignmentService{
		store:    store,
		notifier: notifier,
		log:      log,
	}
}

// Assign adds the given users to the task. With primary=true the first
// user of the batch becomes the primary assignee. Existing assignments
// are left untouched and produce no history entries.
func (s *AssignmentService) Assign(ctx context.Context, taskID uuid.UUID, userIDs []uuid.UUID, actorID uuid.UUID, primary bool) ([]*models.TaskAssignment, error) {
	if len(userIDs) == 0 {
		return nil, status.Error(codes.InvalidArgument, "at least one user is required")
	}
	if err := s.authorize(ctx, taskID, actorID); err != nil {
		return nil, err
	}

	assignments, created, err := s.store.AssignUsers(ctx, taskID, userIDs, actorID, primary)
	if err != nil {
		return nil, statusError(err)
	}

	if created > 0 {
		if err := s.notifier.Fire(ctx, taskID, notify.KindAssigned); err != nil {
			s.log.Warn("notification dispatch failed", "task_id", taskID, "kind", notify.KindAssigned, "error", err)
		}
	}
	return assignments, nil
}

// Unassign removes the user from the task. Removing a user who is not
// assigned is a no-op success.
func (s *AssignmentService) Unassign(ctx context.Context, taskID, userID, actorID uuid.UUID) error {
	if err := s.authorize(ctx, taskID, actorID); err != nil {
		return err
	}
	if _, err := s.store.UnassignUser(ctx, taskID, userID, actorID); err != nil {
		return statusError(err)
	}
	return nil
}

// ListAssignments returns the task's assignments, newest first, plus the
// total count.
func (s *AssignmentService) ListAssignments(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]*models.TaskAssignment, int, error) {
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, 0, statusError(err)
	}
	assignments, total, err := s.store.ListAssignments(ctx, taskID, limit, offset)
	if err != nil {
		return nil, 0, statusError(err)
	}
	return assignments, total, nil
}

func (s *AssignmentService) authorize(ctx context.Context, taskID, actorID uuid.UUID) error {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return statusError(err)
	}
	if task.CreatedBy == actorID {
		return nil
	}
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return statusError(err)
	}
	if !actor.IsStaff {
		return statusError(ErrPermissionDenied)
	}
	return nil
}
