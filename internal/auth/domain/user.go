package domain

import "time"

type UserID string

// User is the stored identity record. PasswordHash is the only credential
// material ever persisted; plaintext passwords live inside a single request.
type User struct {
	ID           UserID
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}
