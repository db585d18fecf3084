package dto

import (
	"fmt"
	"time"
)

// APIResponse is the {status, message, data} envelope wrapped around every backend payload.
type APIResponse[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginResponse is the credential bundle returned by login and refresh.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresIn seconds until the access token expires
	ExpiresIn int64 `json:"expiresIn"`
	// ExpiresAt server clock ISO-8601 instant
	ExpiresAt string `json:"expiresAt"`
	TokenType string `json:"tokenType"`
}

// Credentials converts the bundle using an already anchored expiry.
func (r LoginResponse) Credentials(expiresAt time.Time) Credentials {
	return Credentials{
		AccessToken:  r.Token,
		RefreshToken: r.RefreshToken,
		TokenType:    NormalizeTokenType(r.TokenType),
		ExpiresAt:    expiresAt,
		ExpiresIn:    r.ExpiresIn,
	}
}

// APIError is the error payload returned by the backend for non-2xx responses.
type APIError struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Err     string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}
