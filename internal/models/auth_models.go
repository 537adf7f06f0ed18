package models

import "time"

// User is an owning account: the authenticated business user that exclusively
// owns one Business configuration and a set of Clients.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // never serialized
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
