package domain

import "time"

// User is the stored credential record for an account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
