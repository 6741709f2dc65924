package models

import "time"

// Task statuses.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task represents a single to-do item, optionally attached to a project.
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title       string     `json:"title" gorm:"type:varchar(255)" validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	Priority    string     `json:"priority" gorm:"type:varchar(20)" validate:"omitempty,oneof=low medium high"`
	Status      string     `json:"status" gorm:"type:varchar(20)" validate:"omitempty,oneof=todo in_progress done"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty" gorm:"index;type:varchar(36)"`
	UserID      string     `json:"user_id" gorm:"index;type:varchar(36)"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskUpdate carries a partial task update; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status      *string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	DueDate     *time.Time `json:"due_date"`
	ProjectID   *string    `json:"project_id"`
}
