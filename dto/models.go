package dto

import (
	"net/http"
	"time"
)

type SessionStatus string

const (
	STORED          SessionStatus = "stored"
	REFRESHED       SessionStatus = "refreshed"
	CLEARED         SessionStatus = "cleared"
	SESSION_EXPIRED SessionStatus = "session_expired"
)

// IsTerminal reports whether listeners must always receive the event.
func (s SessionStatus) IsTerminal() bool {
	return s == CLEARED || s == SESSION_EXPIRED
}

type SessionEvent struct {
	Status  SessionStatus `json:"status" yaml:"status"`
	Message string        `json:"message,omitempty" yaml:"message,omitempty"`
	// ExpiresAt of the stored access token, zero for CLEARED and SESSION_EXPIRED
	ExpiresAt time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	At        time.Time `json:"at" yaml:"at"`
}

type SessionState struct {
	BaseURL         string        `json:"base_url" yaml:"base_url"`
	Backend         string        `json:"backend" yaml:"backend"`
	StoreAvailable  bool          `json:"store_available" yaml:"store_available"`
	Authenticated   bool          `json:"authenticated" yaml:"authenticated"`
	HasRefreshToken bool          `json:"has_refresh_token" yaml:"has_refresh_token"`
	TokenType       string        `json:"token_type,omitempty" yaml:"token_type,omitempty"`
	ExpiresAt       time.Time     `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Expired         bool          `json:"expired" yaml:"expired"`
	RequestTimeout  time.Duration `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty"`
	ExtraHeaders    ExtraHeaders  `json:"extra_headers,omitempty" yaml:"extra_headers,omitempty"`
	// LastEvents latest event seen for each status
	LastEvents map[SessionStatus]SessionEvent `json:"last_events,omitempty" yaml:"last_events,omitempty"`
}

type Response struct {
	StatusCode int
	Headers    http.Header
	// As well as casting to ResponseObject if set, return as byes
	Body []byte
}

// OK reports a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
