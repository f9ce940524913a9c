// internal/service/catalog_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mikelezc/proyecto-sherpa/internal/models"
)

// Catalog is the persistence surface for the supporting entities: tags,
// teams and users. Satisfied by *repository.Repository.
type Catalog interface {
	CreateTag(ctx context.Context, name, color string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]*models.Tag, error)
	TaskTags(ctx context.Context, taskID uuid.UUID) ([]*models.Tag, error)
	CreateTeam(ctx context.Context, name, description string, createdBy uuid.UUID, memberIDs []uuid.UUID) (*models.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	TeamMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
	CreateUser(ctx context.Context, username, email string, isStaff bool) (*models.User, error)
}

// CatalogService manages tags, teams and user records.
type CatalogService struct {
	catalog Catalog
}

func NewCatalogService(catalog Catalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// CreateTag registers a tag. An empty color falls back to the default.
func (s *CatalogService) CreateTag(ctx context.Context, name, color string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "tag name is required")
	}
	tag, err := s.catalog.CreateTag(ctx, name, color)
	if err != nil {
		return nil, statusError(err)
	}
	return tag, nil
}

func (s *CatalogService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	tags, err := s.catalog.ListTags(ctx)
	if err != nil {
		return nil, statusError(err)
	}
	return tags, nil
}

// TaskTags returns the tags linked to a task.
func (s *CatalogService) TaskTags(ctx context.Context, taskID uuid.UUID) ([]*models.Tag, error) {
	tags, err := s.catalog.TaskTags(ctx, taskID)
	if err != nil {
		return nil, statusError(err)
	}
	return tags, nil
}

// CreateTeam registers a team with its initial member set.
func (s *CatalogService) CreateTeam(ctx context.Context, name, description string, createdBy uuid.UUID, memberIDs []uuid.UUID) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "team name is required")
	}
	team, err := s.catalog.CreateTeam(ctx, name, description, createdBy, memberIDs)
	if err != nil {
		return nil, statusError(err)
	}
	return team, nil
}

func (s *CatalogService) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team, err := s.catalog.GetTeam(ctx, id)
	if err != nil {
		return nil, statusError(err)
	}
	return team, nil
}

func (s *CatalogService) TeamMemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.catalog.TeamMemberIDs(ctx, teamID)
	if err != nil {
		return nil, statusError(err)
	}
	return ids, nil
}

// CreateUser records an identity known to the engine. Authentication
// happens elsewhere; this only stores the trusted identity row.
func (s *CatalogService) CreateUser(ctx context.Context, username, email string, isStaff bool) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, status.Error(codes.InvalidArgument, "username is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, status.Error(codes.InvalidArgument, "email is required")
	}
	user, err := s.catalog.CreateUser(ctx, username, email, isStaff)
	if err != nil {
		return nil, statusError(err)
	}
	return user, nil
}
