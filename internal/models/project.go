package models

import "time"

// DefaultProjectColor is applied when a project is created without one.
const DefaultProjectColor = "#6366f1"

// Project groups tasks for a single user. Tasks reference it by
// project_id; the reference is weak and the cascade on delete is
// enforced by the repository layer.
type Project struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" gorm:"type:varchar(255)" validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	Color       string    `json:"color" gorm:"type:varchar(20)" validate:"omitempty,hexcolor"`
	UserID      string    `json:"user_id" gorm:"index;type:varchar(36)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectUpdate carries a partial project update; nil fields are left untouched.
type ProjectUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

// ProjectWithTasks is a project together with the tasks it owns.
type ProjectWithTasks struct {
	Project
	Tasks []Task `json:"tasks"`
}
