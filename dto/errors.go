package dto

import (
	"errors"
	"fmt"
)

// ErrSessionExpired matches every *SessionExpiredError through errors.Is.
var ErrSessionExpired = errors.New("session expired")

// SessionExpiredError is returned when no valid session can be established or
// maintained. Callers should let it propagate and abort the current flow.
type SessionExpiredError struct {
	Reason string
}

func (e *SessionExpiredError) Error() string {
	if e.Reason == "" {
		return ErrSessionExpired.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSessionExpired.Error(), e.Reason)
}

func (e *SessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}

// AuthenticationError login rejected by the server, Message is meant for the user.
type AuthenticationError struct {
	Status  int
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed (%d): %s", e.Status, e.Message)
}

// ProtocolError server answered with success but an unexpected payload.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Msg
}
