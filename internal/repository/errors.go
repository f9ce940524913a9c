package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors returned by the store. Services translate these into
// their caller-facing status codes.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTemplateNotFound   = errors.New("task template not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrTagAlreadyExists   = errors.New("tag already exists")
	ErrTeamAlreadyExists  = errors.New("team already exists")
	ErrInvalidRow         = errors.New("row violates a storage constraint")
)

// Postgres error classes (see lib/pq error codes).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation
}

func isCheckViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgCheckViolation
}
