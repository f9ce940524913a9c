// internal/service/comment_service.go
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
	"github.com/mikelezc/proyecto-sherpa/internal/validation"
)

// CommentService manages task comments. Comment writes do not touch the
// task's audit trail.
type CommentService struct {
	store Store
}

func NewCommentService(store Store) *CommentService {
	return &CommentService{store: store}
}

// AddComment appends a comment to the task.
func (s *CommentService) AddComment(ctx context.Context, taskID, authorID uuid.UUID, content string) (*models.Comment, error) {
	if err := validation.CommentContent(content); err != nil {
		return nil, statusError(err)
	}
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, statusError(err)
	}
	comment, err := s.store.CreateComment(ctx, taskID, authorID, content)
	if err != nil {
		return nil, statusError(err)
	}
	return comment, nil
}

// EditComment replaces the comment body and marks it edited. Only the
// author or staff may edit.
func (s *CommentService) EditComment(ctx context.Context, commentID, actorID uuid.UUID, content string) (*models.Comment, error) {
	if err := validation.CommentContent(content); err != nil {
		return nil, statusError(err)
	}

	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, statusError(err)
	}
	if comment.AuthorID != actorID {
		actor, err := s.store.GetUser(ctx, actorID)
		if err != nil {
			return nil, statusError(err)
		}
		if !actor.IsStaff {
			return nil, statusError(ErrPermissionDenied)
		}
	}

	updated, err := s.store.UpdateComment(ctx, commentID, content)
	if err != nil {
		return nil, statusError(err)
	}
	return updated, nil
}

// ListComments returns the task's comments in chronological order plus
// the total count.
func (s *CommentService) ListComments(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]*models.Comment, int, error) {
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, 0, statusError(err)
	}
	comments, total, err := s.store.ListComments(ctx, taskID, limit, offset)
	if err != nil {
		return nil, 0, statusError(err)
	}
	return comments, total, nil
}
