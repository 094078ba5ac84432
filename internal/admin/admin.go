// Package admin manages staff accounts and their login sessions.
package admin

import "time"

// Account is a staff member who can authenticate against the API.
// Role determines which management actions the account may perform.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
