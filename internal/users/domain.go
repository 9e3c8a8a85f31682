package users

import "time"

// User represents a user account for management views. Verification is
// driven by an upstream flow; this module only reads and stores the flag.
type User struct {
	ID         int64
	Email      string
	Name       string
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
