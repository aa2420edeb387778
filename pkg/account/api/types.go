package api

import (
	"strings"
	"time"
)

// CredentialsRequest is the body of POST /register and POST /login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate reports whether both fields are present
func (c CredentialsRequest) Validate() bool {
	return strings.TrimSpace(c.Email) != "" && strings.TrimSpace(c.Password) != ""
}

// MessageResponse carries a user-facing message, success or failure
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the session token
type LoginResponse struct {
	Token string `json:"token"`
}

// MeResponse describes the authenticated account
type MeResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
