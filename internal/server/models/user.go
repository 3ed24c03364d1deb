// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. Email is unique across all users; Credential holds a
// bcrypt hash and is never serialized.
type User struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Credential string    `json:"-"`
	IsAdmin    bool      `json:"isAdmin"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}
