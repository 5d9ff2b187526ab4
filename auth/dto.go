// Package auth provides authentication and authorization functionality.
// This file defines the structures used for transferring data in API
// responses related to authentication. Requests arrive as form fields
// (username/password), so there are no request DTOs here.
package auth

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message" example:"user registered successfully"`
}

// TokenResponse is returned to the client upon successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
}

// WelcomeResponse is returned by the gated AI doctor route.
type WelcomeResponse struct {
	Message string `json:"message" example:"Welcome to AI Doctor, alice!"`
}
