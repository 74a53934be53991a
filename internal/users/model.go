package users

import "time"

// User is a registered account. PasswordHash is an Argon2id PHC string and
// never leaves the service layer.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
