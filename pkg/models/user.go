package models

import "time"

// User is an account that owns notes and todos. The password hash
// never leaves the storage layer's immediate callers.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
