package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"taskhub/internal/auth"
	"taskhub/internal/model"
	"taskhub/internal/service"
)

// TaskHandler handles the task lifecycle endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation request.
type CreateTaskRequest struct {
	Title          string           `json:"title" validate:"required,max=255"`
	Description    *string          `json:"description" validate:"omitempty,max=2048"`
	DueDate        *time.Time       `json:"dueDate"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours"`
	Status         *string          `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	AssignedToID   uuid.UUID        `json:"assignedToId" validate:"required"`
	ProjectID      uuid.UUID        `json:"projectId" validate:"required"`
	CategoryID     uuid.UUID        `json:"categoryId" validate:"required"`
}

// UpdateTaskRequest represents a task partial-update request.
type UpdateTaskRequest struct {
	Title          *string          `json:"title" validate:"omitempty,max=255"`
	Description    *string          `json:"description" validate:"omitempty,max=2048"`
	DueDate        *time.Time       `json:"dueDate"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours"`
	AssignedToID   *uuid.UUID       `json:"assignedToId"`
	ProjectID      *uuid.UUID       `json:"projectId"`
	CategoryID     *uuid.UUID       `json:"categoryId"`
}

// UpdateTaskStatusRequest represents a status-only update request.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=TODO IN_PROGRESS DONE"`
}

// ListTasksRequest represents the tasks list query.
type ListTasksRequest struct {
	Status     *string    `query:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	ProjectID  *uuid.UUID `query:"projectId"`
	CategoryID *uuid.UUID `query:"categoryId"`
	Sort       string     `query:"sort"`
	Page       string     `query:"page" validate:"omitempty,number"`
	Limit      string     `query:"limit" validate:"omitempty,number"`
}

// MyTasksRequest represents the caller-scoped tasks list query.
type MyTasksRequest struct {
	Status *string `query:"status" validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Page   string  `query:"page" validate:"omitempty,number"`
	Limit  string  `query:"limit" validate:"omitempty,number"`
}

func statusParam(raw *string) *model.Status {
	if raw == nil {
		return nil
	}
	status := model.Status(*raw)
	return &status
}

// Create godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body CreateTaskRequest true "Task data"
// @Success 201 {object} model.TaskView
// @Failure 400 {object} apperr.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req CreateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.Create(c.Request().Context(), service.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Status:         statusParam(req.Status),
		AssignedToID:   req.AssignedToID,
		ProjectID:      req.ProjectID,
		CategoryID:     req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task.View())
}

// FindAll godoc
// @Summary List tasks with filters, sorting and pagination
// @Tags tasks
// @Produce json
// @Param status query string false "Status filter"
// @Param projectId query string false "Project filter"
// @Param categoryId query string false "Category filter"
// @Param sort query string false "Sort expression field:asc|desc"
// @Param page query string false "Page number"
// @Param limit query string false "Items per page"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) FindAll(c echo.Context) error {
	var req ListTasksRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tasks, meta, err := h.taskService.FindAll(c.Request().Context(), service.ListTasksQuery{
		Status:     statusParam(req.Status),
		ProjectID:  req.ProjectID,
		CategoryID: req.CategoryID,
		Sort:       req.Sort,
		Page:       req.Page,
		Limit:      req.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Data: model.Views(tasks), Meta: meta})
}

// FindMyTasks godoc
// @Summary List the logged-in user's assigned tasks
// @Tags tasks
// @Produce json
// @Param status query string false "Status filter"
// @Param page query string false "Page number"
// @Param limit query string false "Items per page"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /tasks/my [get]
func (h *TaskHandler) FindMyTasks(c echo.Context) error {
	identity, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}

	var req MyTasksRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	tasks, meta, err := h.taskService.FindMyTasks(c.Request().Context(), identity.ID, service.MyTasksQuery{
		Status: statusParam(req.Status),
		Page:   req.Page,
		Limit:  req.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Data: model.Views(tasks), Meta: meta})
}

// FindOne godoc
// @Summary Get a task by ID
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} model.TaskView
// @Failure 404 {object} apperr.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) FindOne(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.FindOne(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task.View())
}

// Update godoc
// @Summary Update a task (assignee or admin only)
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body UpdateTaskRequest true "Fields to update"
// @Success 200 {object} model.TaskView
// @Failure 403 {object} apperr.ErrorResponse
// @Failure 404 {object} apperr.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	identity, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.Update(c.Request().Context(), id, service.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		AssignedToID:   req.AssignedToID,
		ProjectID:      req.ProjectID,
		CategoryID:     req.CategoryID,
	}, identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task.View())
}

// UpdateStatus godoc
// @Summary Update a task's status
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body UpdateTaskStatusRequest true "New status"
// @Success 200 {object} model.TaskView
// @Failure 404 {object} apperr.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateTaskStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateStatus(c.Request().Context(), id, model.Status(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task.View())
}

// Remove godoc
// @Summary Delete a task (assignee or admin only)
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} model.TaskView
// @Failure 403 {object} apperr.ErrorResponse
// @Failure 404 {object} apperr.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Remove(c echo.Context) error {
	identity, err := auth.CurrentIdentity(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Remove(c.Request().Context(), id, identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task.View())
}
