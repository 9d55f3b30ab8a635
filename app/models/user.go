package models

import "time"

// User is a login credential record.
type User struct {
	ID        uint      `gorm:"primarykey"                    json:"id"`
	Username  string    `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Password  string    `gorm:"size:255;not null"             json:"-"` // bcrypt hash, never serialised
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
