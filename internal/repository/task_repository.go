package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskhub/internal/model"
)

// TaskFilter narrows task list queries. Nil fields are ignored.
type TaskFilter struct {
	Status       *model.Status
	ProjectID    *uuid.UUID
	CategoryID   *uuid.UUID
	AssignedToID *uuid.UUID
}

// TaskRepository defines task persistence operations.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListWithCount(ctx context.Context, filter TaskFilter, order Order, skip, take int) ([]model.Task, int64, error)
	Update(ctx context.Context, task *model.Task) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Project").Preload("Category").
		Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) filtered(db *gorm.DB, filter TaskFilter) *gorm.DB {
	q := db.Model(&model.Task{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		q = q.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AssignedToID != nil {
		q = q.Where("assigned_to_id = ?", *filter.AssignedToID)
	}
	return q
}

// ListWithCount runs the page query and the count query in one transaction
// so the total is consistent with the page returned.
func (r *taskRepository) ListWithCount(ctx context.Context, filter TaskFilter, order Order, skip, take int) ([]model.Task, int64, error) {
	var tasks []model.Task
	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := r.filtered(tx, filter).
			Preload("User").Preload("Project").Preload("Category").
			Order(order.clause()).Offset(skip).Limit(take).
			Find(&tasks).Error
		if err != nil {
			return err
		}
		return r.filtered(tx, filter).Count(&total).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update persists the task row itself; loaded relations are not written back.
func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// UpdateStatus touches only the status column (plus updated_at).
func (r *taskRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id).Error
}

// CountOverdue counts unfinished tasks whose due date has passed.
func (r *taskRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("due_date IS NOT NULL AND due_date < ? AND status <> ?", now, model.StatusDone).
		Count(&total).Error
	return total, err
}
