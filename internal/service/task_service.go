package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"taskhub/internal/apperr"
	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/pagination"
	"taskhub/internal/repository"
)

// taskSortColumns whitelists API sort fields for task lists. Anything else
// keeps the default createdAt desc ordering.
var taskSortColumns = map[string]string{
	"title":     "title",
	"status":    "status",
	"dueDate":   "due_date",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// CreateTaskInput carries the task-creation fields. The three references
// are required and validated against their registries.
type CreateTaskInput struct {
	Title          string
	Description    *string
	DueDate        *time.Time
	EstimatedHours *decimal.Decimal
	Status         *model.Status
	AssignedToID   uuid.UUID
	ProjectID      uuid.UUID
	CategoryID     uuid.UUID
}

// UpdateTaskInput carries the partial-update fields; only supplied
// references are re-validated.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	DueDate        *time.Time
	EstimatedHours *decimal.Decimal
	AssignedToID   *uuid.UUID
	ProjectID      *uuid.UUID
	CategoryID     *uuid.UUID
}

// ListTasksQuery carries task list filters plus raw pagination/sort strings.
type ListTasksQuery struct {
	Status     *model.Status
	ProjectID  *uuid.UUID
	CategoryID *uuid.UUID
	Sort       string
	Page       string
	Limit      string
}

// MyTasksQuery carries the filters available on the caller-scoped list.
type MyTasksQuery struct {
	Status *model.Status
	Page   string
	Limit  string
}

// TaskService is the task lifecycle manager.
type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*model.Task, error)
	FindAll(ctx context.Context, q ListTasksQuery) ([]model.Task, pagination.Meta, error)
	FindMyTasks(ctx context.Context, userID uuid.UUID, q MyTasksQuery) ([]model.Task, pagination.Meta, error)
	FindOne(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput, caller auth.Identity) (*model.Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Task, error)
	Remove(ctx context.Context, id uuid.UUID, caller auth.Identity) (*model.Task, error)
}

type taskService struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	projects   repository.ProjectRepository
	categories repository.CategoryRepository
}

// NewTaskService builds a TaskService over the task store and the three
// reference registries.
func NewTaskService(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	projects repository.ProjectRepository,
	categories repository.CategoryRepository,
) TaskService {
	return &taskService{
		tasks:      tasks,
		users:      users,
		projects:   projects,
		categories: categories,
	}
}

// Create validates the three references concurrently and inserts the task
// only once all of them resolve. The first missing reference aborts the
// remaining lookups.
func (s *taskService) Create(ctx context.Context, in CreateTaskInput) (*model.Task, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.checkUserRef(gctx, in.AssignedToID) })
	g.Go(func() error { return s.checkProjectRef(gctx, in.ProjectID) })
	g.Go(func() error { return s.checkCategoryRef(gctx, in.CategoryID) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	status := model.StatusTodo
	if in.Status != nil {
		status = *in.Status
	}

	task := &model.Task{
		ID:             uuid.New(),
		Title:          in.Title,
		Description:    in.Description,
		DueDate:        in.DueDate,
		EstimatedHours: in.EstimatedHours,
		Status:         status,
		AssignedToID:   in.AssignedToID,
		ProjectID:      in.ProjectID,
		CategoryID:     in.CategoryID,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperr.Internal(err)
	}
	return task, nil
}

func (s *taskService) FindAll(ctx context.Context, q ListTasksQuery) ([]model.Task, pagination.Meta, error) {
	params := pagination.Parse(q.Page, q.Limit)
	order := resolveOrder(q.Sort, taskSortColumns)

	filter := repository.TaskFilter{
		Status:     q.Status,
		ProjectID:  q.ProjectID,
		CategoryID: q.CategoryID,
	}
	tasks, total, err := s.tasks.ListWithCount(ctx, filter, order, params.Skip, params.Take)
	if err != nil {
		return nil, pagination.Meta{}, apperr.Internal(err)
	}
	return tasks, pagination.ComputeMeta(total, params.Limit, params.Page), nil
}

// FindMyTasks is FindAll implicitly scoped to the caller's assignments,
// filterable only by status.
func (s *taskService) FindMyTasks(ctx context.Context, userID uuid.UUID, q MyTasksQuery) ([]model.Task, pagination.Meta, error) {
	params := pagination.Parse(q.Page, q.Limit)

	filter := repository.TaskFilter{
		Status:       q.Status,
		AssignedToID: &userID,
	}
	order := repository.Order{Column: "created_at", Desc: true}
	tasks, total, err := s.tasks.ListWithCount(ctx, filter, order, params.Skip, params.Take)
	if err != nil {
		return nil, pagination.Meta{}, apperr.Internal(err)
	}
	return tasks, pagination.ComputeMeta(total, params.Limit, params.Page), nil
}

func (s *taskService) FindOne(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.NotFound("task with ID %q not found", id)
		}
		return nil, apperr.Internal(err)
	}
	return task, nil
}

// Update runs fetch-or-404, then the ownership gate, then reference
// validation for the supplied fields only, then the partial update.
func (s *taskService) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput, caller auth.Identity) (*model.Task, error) {
	task, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CanModifyTask(caller, task) {
		return nil, apperr.Forbidden("you do not have permission to edit this task")
	}

	if in.AssignedToID != nil {
		if err := s.checkUserRef(ctx, *in.AssignedToID); err != nil {
			return nil, err
		}
		task.AssignedToID = *in.AssignedToID
	}
	if in.ProjectID != nil {
		if err := s.checkProjectRef(ctx, *in.ProjectID); err != nil {
			return nil, err
		}
		task.ProjectID = *in.ProjectID
	}
	if in.CategoryID != nil {
		if err := s.checkCategoryRef(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = *in.CategoryID
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = in.Description
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
	}
	if in.EstimatedHours != nil {
		task.EstimatedHours = in.EstimatedHours
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.FindOne(ctx, id)
}

// UpdateStatus requires only that the task exists; the ownership gate is
// deliberately absent here, matching the routing policy for this operation.
func (s *taskService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Task, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}
	if err := s.tasks.UpdateStatus(ctx, id, status); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.FindOne(ctx, id)
}

// Remove runs fetch-or-404 and the ownership gate before deleting.
func (s *taskService) Remove(ctx context.Context, id uuid.UUID, caller auth.Identity) (*model.Task, error) {
	task, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CanModifyTask(caller, task) {
		return nil, apperr.Forbidden("you do not have permission to delete this task")
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return nil, apperr.Internal(err)
	}
	return task, nil
}

func (s *taskService) checkUserRef(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperr.BadRequest("user with ID %q not found", id)
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *taskService) checkProjectRef(ctx context.Context, id uuid.UUID) error {
	if _, err := s.projects.FindByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperr.BadRequest("project with ID %q not found", id)
		}
		return apperr.Internal(err)
	}
	return nil
}

func (s *taskService) checkCategoryRef(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperr.BadRequest("category with ID %q not found", id)
		}
		return apperr.Internal(err)
	}
	return nil
}
