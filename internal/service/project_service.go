package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskhub/internal/apperr"
	"taskhub/internal/cache"
	"taskhub/internal/model"
	"taskhub/internal/pagination"
	"taskhub/internal/repository"
)

const registryCacheTTL = 5 * time.Minute

// ProjectService is the project registry.
type ProjectService interface {
	Create(ctx context.Context, name string, description *string) (*model.Project, error)
	FindAll(ctx context.Context, page, limit string) ([]model.Project, pagination.Meta, error)
	FindOne(ctx context.Context, id uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, id uuid.UUID, name, description *string) (*model.Project, error)
	Remove(ctx context.Context, id uuid.UUID) (*model.Project, error)
}

type projectService struct {
	projects repository.ProjectRepository
	cache    *cache.Client
}

// NewProjectService builds a ProjectService with repository and cache.
func NewProjectService(projects repository.ProjectRepository, cache *cache.Client) ProjectService {
	return &projectService{projects: projects, cache: cache}
}

func (s *projectService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("project:%s", id)
}

func (s *projectService) Create(ctx context.Context, name string, description *string) (*model.Project, error) {
	project := &model.Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("project with name %q already exists", name)
		}
		return nil, apperr.Internal(err)
	}
	return project, nil
}

func (s *projectService) FindAll(ctx context.Context, page, limit string) ([]model.Project, pagination.Meta, error) {
	params := pagination.Parse(page, limit)
	projects, total, err := s.projects.ListWithCount(ctx, params.Skip, params.Take)
	if err != nil {
		return nil, pagination.Meta{}, apperr.Internal(err)
	}
	return projects, pagination.ComputeMeta(total, params.Limit, params.Page), nil
}

// FindOne reads through the cache; misses hit the store and populate it.
func (s *projectService) FindOne(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Project
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("project with ID %q not found", id)
		}
		return nil, apperr.Internal(err)
	}

	if payload, err := json.Marshal(project); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, registryCacheTTL)
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, name, description *string) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("project with ID %q not found", id)
		}
		return nil, apperr.Internal(err)
	}

	if name != nil {
		project.Name = *name
	}
	if description != nil {
		project.Description = description
	}

	if err := s.projects.Update(ctx, project); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("project with name %q already exists", project.Name)
		}
		return nil, apperr.Internal(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return project, nil
}

func (s *projectService) Remove(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("project with ID %q not found", id)
		}
		return nil, apperr.Internal(err)
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return nil, apperr.Internal(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return project, nil
}
