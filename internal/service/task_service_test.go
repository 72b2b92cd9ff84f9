package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"taskhub/internal/apperr"
	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/repository"
)

type taskServiceMocks struct {
	tasks      *MockTaskRepository
	users      *MockUserRepository
	projects   *MockProjectRepository
	categories *MockCategoryRepository
}

func newTestTaskService() (TaskService, taskServiceMocks) {
	m := taskServiceMocks{
		tasks:      new(MockTaskRepository),
		users:      new(MockUserRepository),
		projects:   new(MockProjectRepository),
		categories: new(MockCategoryRepository),
	}
	return NewTaskService(m.tasks, m.users, m.projects, m.categories), m
}

func TestTaskService_Create(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()
	categoryID := uuid.New()

	input := CreateTaskInput{
		Title:        "Write onboarding guide",
		AssignedToID: userID,
		ProjectID:    projectID,
		CategoryID:   categoryID,
	}

	t.Run("all references resolve", func(t *testing.T) {
		svc, m := newTestTaskService()
		m.users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		m.projects.On("FindByID", mock.Anything, projectID).Return(&model.Project{ID: projectID}, nil)
		m.categories.On("FindByID", mock.Anything, categoryID).Return(&model.Category{ID: categoryID}, nil)
		m.tasks.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

		task, err := svc.Create(context.Background(), input)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusTodo, task.Status)
		assert.Equal(t, userID, task.AssignedToID)
		m.tasks.AssertExpectations(t)
	})

	t.Run("missing category yields bad request and no insert", func(t *testing.T) {
		svc, m := newTestTaskService()
		m.users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil).Maybe()
		m.projects.On("FindByID", mock.Anything, projectID).Return(&model.Project{ID: projectID}, nil).Maybe()
		m.categories.On("FindByID", mock.Anything, categoryID).Return(nil, gorm.ErrRecordNotFound)

		task, err := svc.Create(context.Background(), input)

		assert.Nil(t, task)
		assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
		assert.Contains(t, err.Error(), categoryID.String())
		m.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing assignee yields bad request and no insert", func(t *testing.T) {
		svc, m := newTestTaskService()
		m.users.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
		m.projects.On("FindByID", mock.Anything, projectID).Return(&model.Project{ID: projectID}, nil).Maybe()
		m.categories.On("FindByID", mock.Anything, categoryID).Return(&model.Category{ID: categoryID}, nil).Maybe()

		task, err := svc.Create(context.Background(), input)

		assert.Nil(t, task)
		assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
		assert.Contains(t, err.Error(), userID.String())
		m.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTaskService_Update_OwnershipGate(t *testing.T) {
	taskID := uuid.New()
	assigneeID := uuid.New()
	existing := &model.Task{ID: taskID, Title: "Fix login", AssignedToID: assigneeID}
	newTitle := "Fix login flow"

	tests := []struct {
		name      string
		caller    auth.Identity
		forbidden bool
	}{
		{name: "assignee may update", caller: auth.Identity{ID: assigneeID, Role: model.RoleUser}},
		{name: "admin may update", caller: auth.Identity{ID: uuid.New(), Role: model.RoleAdmin}},
		{name: "manager who is not the assignee may not", caller: auth.Identity{ID: uuid.New(), Role: model.RoleManager}, forbidden: true},
		{name: "unrelated user may not", caller: auth.Identity{ID: uuid.New(), Role: model.RoleUser}, forbidden: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestTaskService()
			m.tasks.On("FindByID", mock.Anything, taskID).Return(existing, nil)
			if !tt.forbidden {
				m.tasks.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)
			}

			_, err := svc.Update(context.Background(), taskID, UpdateTaskInput{Title: &newTitle}, tt.caller)

			if tt.forbidden {
				assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
				m.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				m.tasks.AssertExpectations(t)
			}
		})
	}
}

func TestTaskService_Update_RevalidatesSuppliedReferences(t *testing.T) {
	taskID := uuid.New()
	assigneeID := uuid.New()
	newProjectID := uuid.New()
	existing := &model.Task{ID: taskID, AssignedToID: assigneeID}

	svc, m := newTestTaskService()
	m.tasks.On("FindByID", mock.Anything, taskID).Return(existing, nil)
	m.projects.On("FindByID", mock.Anything, newProjectID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Update(context.Background(), taskID, UpdateTaskInput{ProjectID: &newProjectID}, auth.Identity{ID: assigneeID, Role: model.RoleUser})

	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
	assert.Contains(t, err.Error(), newProjectID.String())
	m.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	// Only the supplied reference is checked.
	m.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	m.categories.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTaskService_UpdateStatus(t *testing.T) {
	taskID := uuid.New()

	t.Run("missing task yields not found", func(t *testing.T) {
		svc, m := newTestTaskService()
		m.tasks.On("FindByID", mock.Anything, taskID).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.UpdateStatus(context.Background(), taskID, model.StatusDone)

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		m.tasks.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("touches only the status column", func(t *testing.T) {
		existing := &model.Task{ID: taskID, Title: "Ship release", Status: model.StatusTodo, AssignedToID: uuid.New()}

		svc, m := newTestTaskService()
		m.tasks.On("FindByID", mock.Anything, taskID).Return(existing, nil)
		m.tasks.On("UpdateStatus", mock.Anything, taskID, model.StatusInProgress).Return(nil)

		_, err := svc.UpdateStatus(context.Background(), taskID, model.StatusInProgress)

		assert.NoError(t, err)
		m.tasks.AssertExpectations(t)
		m.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestTaskService_Remove(t *testing.T) {
	taskID := uuid.New()
	assigneeID := uuid.New()
	existing := &model.Task{ID: taskID, AssignedToID: assigneeID}

	t.Run("missing task yields not found", func(t *testing.T) {
		svc, m := newTestTaskService()
		m.tasks.On("FindByID", mock.Anything, taskID).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Remove(context.Background(), taskID, auth.Identity{ID: assigneeID, Role: model.RoleAdmin})

		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("non-owner is forbidden before any delete", func(t *testing.T) {
		svc, m := newTestTaskService()
		m.tasks.On("FindByID", mock.Anything, taskID).Return(existing, nil)

		_, err := svc.Remove(context.Background(), taskID, auth.Identity{ID: uuid.New(), Role: model.RoleUser})

		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
		m.tasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("assignee may delete", func(t *testing.T) {
		svc, m := newTestTaskService()
		m.tasks.On("FindByID", mock.Anything, taskID).Return(existing, nil)
		m.tasks.On("Delete", mock.Anything, taskID).Return(nil)

		task, err := svc.Remove(context.Background(), taskID, auth.Identity{ID: assigneeID, Role: model.RoleUser})

		assert.NoError(t, err)
		assert.Equal(t, taskID, task.ID)
		m.tasks.AssertExpectations(t)
	})
}

func TestTaskService_FindAll_SortFallback(t *testing.T) {
	defaultOrder := repository.Order{Column: "created_at", Desc: true}

	tests := []struct {
		name  string
		sort  string
		order repository.Order
	}{
		{name: "no sort keeps default", sort: "", order: defaultOrder},
		{name: "recognized field and direction", sort: "dueDate:asc", order: repository.Order{Column: "due_date", Desc: false}},
		{name: "unrecognized field falls back", sort: "favoriteColor:asc", order: defaultOrder},
		{name: "bad direction falls back", sort: "title:upwards", order: defaultOrder},
		{name: "malformed expression falls back", sort: "nonsense", order: defaultOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestTaskService()
			m.tasks.On("ListWithCount", mock.Anything, repository.TaskFilter{}, tt.order, 0, 10).
				Return([]model.Task{}, int64(0), nil)

			_, _, err := svc.FindAll(context.Background(), ListTasksQuery{Sort: tt.sort})

			assert.NoError(t, err)
			m.tasks.AssertExpectations(t)
		})
	}
}

func TestTaskService_FindMyTasks_ScopedToCaller(t *testing.T) {
	userID := uuid.New()
	status := model.StatusTodo

	svc, m := newTestTaskService()
	m.tasks.On("ListWithCount", mock.Anything,
		repository.TaskFilter{Status: &status, AssignedToID: &userID},
		repository.Order{Column: "created_at", Desc: true}, 5, 5).
		Return([]model.Task{{AssignedToID: userID}}, int64(6), nil)

	tasks, meta, err := svc.FindMyTasks(context.Background(), userID, MyTasksQuery{
		Status: &status,
		Page:   "2",
		Limit:  "5",
	})

	assert.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, int64(6), meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
	m.tasks.AssertExpectations(t)
}
