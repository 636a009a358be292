package authapi

import "time"

// Request/response bodies are explicit typed structs validated at the
// boundary; nothing map-shaped reaches the orchestrator.

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// Name is accepted as opaque pass-through and currently unused.
	Name string `json:"name,omitempty"`
}

type registerResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type meResponse struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
