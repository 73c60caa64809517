package models

import "time"

// User identity. Name is the canonical (slugged) username and primary
// key; it never changes after registration.
type User struct {
	Name         string    `json:"name" gorm:"primaryKey"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is an opaque server-side session record backing the cookie.
type Session struct {
	Token     string    `json:"-" gorm:"primaryKey"`
	UserName  string    `json:"user_name" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}
