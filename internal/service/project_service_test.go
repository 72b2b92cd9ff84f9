package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"taskhub/internal/apperr"
	"taskhub/internal/model"
)

func TestProjectService_Create(t *testing.T) {
	t.Run("duplicate name yields conflict", func(t *testing.T) {
		repo := new(MockProjectRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Project")).Return(gorm.ErrDuplicatedKey)

		svc := NewProjectService(repo, nil)
		project, err := svc.Create(context.Background(), "Platform", nil)

		assert.Nil(t, project)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
		assert.Contains(t, err.Error(), "Platform")
	})

	t.Run("successful create", func(t *testing.T) {
		repo := new(MockProjectRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Project")).Return(nil)

		svc := NewProjectService(repo, nil)
		project, err := svc.Create(context.Background(), "Platform", nil)

		assert.NoError(t, err)
		assert.Equal(t, "Platform", project.Name)
		assert.NotEqual(t, uuid.Nil, project.ID)
	})
}

func TestProjectService_Update(t *testing.T) {
	id := uuid.New()

	t.Run("missing project yields not found", func(t *testing.T) {
		repo := new(MockProjectRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		svc := NewProjectService(repo, nil)
		_, err := svc.Update(context.Background(), id, nil, nil)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rename to taken name yields conflict", func(t *testing.T) {
		repo := new(MockProjectRepository)
		repo.On("FindByID", mock.Anything, id).Return(&model.Project{ID: id, Name: "Old"}, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Project")).Return(gorm.ErrDuplicatedKey)

		newName := "Taken"
		svc := NewProjectService(repo, nil)
		_, err := svc.Update(context.Background(), id, &newName, nil)

		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("only supplied fields change", func(t *testing.T) {
		repo := new(MockProjectRepository)
		desc := "existing description"
		repo.On("FindByID", mock.Anything, id).Return(&model.Project{ID: id, Name: "Old", Description: &desc}, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
			return p.Name == "New" && p.Description != nil && *p.Description == desc
		})).Return(nil)

		newName := "New"
		svc := NewProjectService(repo, nil)
		project, err := svc.Update(context.Background(), id, &newName, nil)

		assert.NoError(t, err)
		assert.Equal(t, "New", project.Name)
		repo.AssertExpectations(t)
	})
}

func TestProjectService_Remove(t *testing.T) {
	id := uuid.New()

	t.Run("missing project yields not found", func(t *testing.T) {
		repo := new(MockProjectRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

		svc := NewProjectService(repo, nil)
		_, err := svc.Remove(context.Background(), id)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("existing project is deleted", func(t *testing.T) {
		repo := new(MockProjectRepository)
		repo.On("FindByID", mock.Anything, id).Return(&model.Project{ID: id, Name: "Old"}, nil)
		repo.On("Delete", mock.Anything, id).Return(nil)

		svc := NewProjectService(repo, nil)
		project, err := svc.Remove(context.Background(), id)

		assert.NoError(t, err)
		assert.Equal(t, id, project.ID)
		repo.AssertExpectations(t)
	})
}
