// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash AND NOT Password?
// The field holds the bcrypt output, never the plaintext. The `json:"-"` tag makes
// it impossible to leak the hash through any handler that serializes a User —
// encoding/json simply skips the field.
//
// The ID is assigned by the store on insert (sqlite INTEGER PRIMARY KEY).
// Username carries a UNIQUE constraint in the schema and is immutable after creation.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
