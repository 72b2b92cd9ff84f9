package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status is the lifecycle state of a task. Transitions between any two
// states are permitted via the explicit status-update operation.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid reports whether the status is one of the declared states.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is a unit of work assigned to a user within a project and category.
// All three references must resolve to existing rows at creation and
// whenever re-linked.
type Task struct {
	ID             uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	Title          string           `json:"title" gorm:"size:255;not null"`
	Description    *string          `json:"description" gorm:"size:2048"`
	DueDate        *time.Time       `json:"due_date"`
	Status         Status           `json:"status" gorm:"size:50;not null;default:'TODO';index"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours" gorm:"type:decimal(6,2)"`
	AssignedToID   uuid.UUID        `json:"assigned_to_id" gorm:"type:char(36);not null;index"`
	ProjectID      uuid.UUID        `json:"project_id" gorm:"type:char(36);not null;index"`
	CategoryID     uuid.UUID        `json:"category_id" gorm:"type:char(36);not null;index"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	// Relations, loaded for enriched reads only.
	User     *User     `json:"-" gorm:"foreignKey:AssignedToID"`
	Project  *Project  `json:"-" gorm:"foreignKey:ProjectID"`
	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// EntityRef is a summary projection of a referenced entity.
type EntityRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TaskView is the response shape for task reads: the task fields plus
// summary projections of its loaded references.
type TaskView struct {
	Task
	UserRef     *EntityRef `json:"user,omitempty"`
	ProjectRef  *EntityRef `json:"project,omitempty"`
	CategoryRef *EntityRef `json:"category,omitempty"`
}

// View maps the task to its response shape, projecting whichever relations
// were loaded.
func (t *Task) View() TaskView {
	v := TaskView{Task: *t}
	if t.User != nil {
		name := ""
		if t.User.Name != nil {
			name = *t.User.Name
		}
		v.UserRef = &EntityRef{ID: t.User.ID, Name: name}
	}
	if t.Project != nil {
		v.ProjectRef = &EntityRef{ID: t.Project.ID, Name: t.Project.Name}
	}
	if t.Category != nil {
		v.CategoryRef = &EntityRef{ID: t.Category.ID, Name: t.Category.Name}
	}
	return v
}

// Views maps a slice of tasks to their response shapes.
func Views(tasks []Task) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		out = append(out, tasks[i].View())
	}
	return out
}
