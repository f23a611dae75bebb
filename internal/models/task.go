package models

import "time"

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Description string    `json:"description" gorm:"type:text" validate:"required"`
	Completed   bool      `json:"completed" gorm:"default:false"`
	UserID      string    `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
