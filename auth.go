package gosession

import (
	"context"

	"github.com/joy-dx/gosession/dto"
	"golang.org/x/oauth2"
)

func (s *SessionSvc) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	if s.auth == nil {
		return dto.LoginResponse{}, ErrNotHydrated
	}
	return s.auth.Login(ctx, username, password)
}

func (s *SessionSvc) Logout(ctx context.Context) {
	if s.auth == nil {
		return
	}
	s.auth.Logout(ctx)
}

// Refresh renews the session now, regardless of expiry.
func (s *SessionSvc) Refresh(ctx context.Context) bool {
	if s.auth == nil {
		return false
	}
	return s.auth.Refresh(ctx)
}

func (s *SessionSvc) IsAuthenticated(ctx context.Context) bool {
	if s.auth == nil {
		return false
	}
	return s.auth.IsAuthenticated(ctx)
}

// TokenSource adapts the session for golang.org/x/oauth2 based clients.
func (s *SessionSvc) TokenSource(ctx context.Context) oauth2.TokenSource {
	if s.auth == nil {
		return errTokenSource{err: ErrNotHydrated}
	}
	return s.auth.TokenSource(ctx)
}

type errTokenSource struct{ err error }

func (e errTokenSource) Token() (*oauth2.Token, error) { return nil, e.err }
