// Package auth handles authentication for the AI doctor backend: user
// registration, login, JWT issuance and verification, and the middleware
// gating the protected endpoints.
// This file defines the user model as stored in the database.
package auth

import "time"

// User represents a registered user. A record is created only by successful
// registration, is never mutated in place, and usernames are unique across
// all records (enforced by the database constraint, not by check-then-insert).
type User struct {
	// The `json:"-"` tag on HashedPassword keeps the hash out of every JSON
	// response; it is only ever compared through bcrypt's verification path.
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}
