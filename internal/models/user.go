package models

import "time"

// User represents an account in the task manager.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name     string `json:"name" gorm:"type:varchar(100)" validate:"required"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `json:"-" gorm:"type:varchar(255)" validate:"required,min=7"`
	Age      *int   `json:"age,omitempty" validate:"omitempty,gte=0"`

	// Raw avatar bytes and live session tokens are never serialized to
	// callers; avatars have their own endpoint and tokens would leak how
	// many sessions a user holds.
	Avatar []byte         `json:"-" gorm:"type:bytea"`
	Tokens []SessionToken `json:"-" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
