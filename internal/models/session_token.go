package models

import "time"

// SessionToken is one live bearer token for a user. A user may hold any
// number of them (one per signed-in session); deleting a row revokes the
// token even before its embedded expiry.
type SessionToken struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"-" gorm:"index;type:varchar(36)"`
	Token     string    `json:"token" gorm:"index;type:varchar(512)"`
	CreatedAt time.Time `json:"-"`
}
