package models

import "time"

// User mirrors a row of the users table.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the per-request resolved notion of who is calling, derived
// from the session token. It never outlives a single request.
type Identity struct {
	UserID    int64
	Username  string
	Role      Role
	SessionID string
}
