package dto

import (
	"context"
	"net/http"
)

// SessionInterface is the surface exposed by the root session service.
type SessionInterface interface {
	Hydrate(ctx context.Context) error
	State(ctx context.Context) *SessionState
	Login(ctx context.Context, username, password string) (LoginResponse, error)
	Logout(ctx context.Context)
	Refresh(ctx context.Context) bool
	IsAuthenticated(ctx context.Context) bool
	Requester
	SessionListener() (<-chan SessionEvent, func())
}

// Requester performs one request relative to the configured API base URL.
type Requester interface {
	Request(ctx context.Context, cfg *RequestConfig) (Response, error)
}

// Doer abstracts http.Client for mocking
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Refresher renews the stored session. It reports success as a boolean and
// clears the session itself on failure.
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// Backend is the durable key-value store behind the credential store.
// Get reports ok=false for a missing key.
type Backend interface {
	Name() string
	Get(ctx context.Context, key string) (string, bool, error)
	SetMany(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// CookieSink receives the mirrored access token cookie.
type CookieSink interface {
	SetCookie(cookie *http.Cookie)
}

// SessionEventPublisher is notified of session transitions.
type SessionEventPublisher func(event SessionEvent)
