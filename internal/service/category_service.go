package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"taskhub/internal/apperr"
	"taskhub/internal/cache"
	"taskhub/internal/model"
	"taskhub/internal/pagination"
	"taskhub/internal/repository"
)

// CategoryService is the category registry.
type CategoryService interface {
	Create(ctx context.Context, name string, description *string) (*model.Category, error)
	FindAll(ctx context.Context, page, limit string) ([]model.Category, pagination.Meta, error)
	FindOne(ctx context.Context, id uuid.UUID) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, name, description *string) (*model.Category, error)
	Remove(ctx context.Context, id uuid.UUID) (*model.Category, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	cache      *cache.Client
}

// NewCategoryService builds a CategoryService with repository and cache.
func NewCategoryService(categories repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{categories: categories, cache: cache}
}

func (s *categoryService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("category:%s", id)
}

func (s *categoryService) Create(ctx context.Context, name string, description *string) (*model.Category, error) {
	category := &model.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("category with name %q already exists", name)
		}
		return nil, apperr.Internal(err)
	}
	return category, nil
}

func (s *categoryService) FindAll(ctx context.Context, page, limit string) ([]model.Category, pagination.Meta, error) {
	params := pagination.Parse(page, limit)
	categories, total, err := s.categories.ListWithCount(ctx, params.Skip, params.Take)
	if err != nil {
		return nil, pagination.Meta{}, apperr.Internal(err)
	}
	return categories, pagination.ComputeMeta(total, params.Limit, params.Page), nil
}

// FindOne reads through the cache; misses hit the store and populate it.
func (s *categoryService) FindOne(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("category with ID %q not found", id)
		}
		return nil, apperr.Internal(err)
	}

	if payload, err := json.Marshal(category); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, registryCacheTTL)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, name, description *string) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("category with ID %q not found", id)
		}
		return nil, apperr.Internal(err)
	}

	if name != nil {
		category.Name = *name
	}
	if description != nil {
		category.Description = description
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Conflict("category with name %q already exists", category.Name)
		}
		return nil, apperr.Internal(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return category, nil
}

func (s *categoryService) Remove(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("category with ID %q not found", id)
		}
		return nil, apperr.Internal(err)
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return nil, apperr.Internal(err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return category, nil
}
