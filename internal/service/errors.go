// internal/service/errors.go
package service

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mikelezc/proyecto-sherpa/internal/repository"
	"github.com/mikelezc/proyecto-sherpa/internal/validation"
)

// ErrPermissionDenied is returned when the acting user is neither the
// task creator nor staff.
var ErrPermissionDenied = errors.New("only the task creator or staff may modify this task")

var notFoundErrs = []error{
	repository.ErrTaskNotFound,
	repository.ErrUserNotFound,
	repository.ErrTagNotFound,
	repository.ErrTeamNotFound,
	repository.ErrTemplateNotFound,
	repository.ErrCommentNotFound,
	repository.ErrAssignmentNotFound,
}

var invalidArgErrs = []error{
	validation.ErrTitleRequired,
	validation.ErrTitleTooLong,
	validation.ErrInvalidStatus,
	validation.ErrInvalidPriority,
	validation.ErrDueBeforeCreation,
	validation.ErrDueInPast,
	validation.ErrNegativeHours,
	validation.ErrSelfParent,
	validation.ErrParentCycle,
	validation.ErrEmptyComment,
	repository.ErrInvalidRow,
}

// statusError translates store and validation errors into the gRPC status
// taxonomy exposed to callers. Already-status errors pass through.
func statusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && status.Code(err) != codes.Unknown {
		return err
	}

	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			return status.Error(codes.NotFound, err.Error())
		}
	}
	for _, target := range invalidArgErrs {
		if errors.Is(err, target) {
			return status.Error(codes.InvalidArgument, err.Error())
		}
	}
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, repository.ErrTagAlreadyExists),
		errors.Is(err, repository.ErrTeamAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	}
	return status.Errorf(codes.Internal, "internal error: %v", err)
}
