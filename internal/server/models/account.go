package models

import "time"

// Account is a registered user. PasswordHash holds the bcrypt hash; the
// plaintext password is never stored.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
