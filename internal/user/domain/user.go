package domain

import "time"

type ID string

// User is the identity and credential record. PasswordHash is never the
// plaintext password and never leaves the service.
type User struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
