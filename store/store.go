// Package store persists session credentials behind a pluggable key-value
// backend and mirrors the access token into a cookie.
//
// A CredentialStore built without a backend models a context with no storage
// access: every operation is a no-op and reads report absent.
package store

import (
	"context"
	"net/http"
	"time"

	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/expiry"
	"github.com/joy-dx/gosession/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyTokenType    = "tokenType"
	KeyExpiresAt    = "expiresAt"

	CookieName = "token"
	CookiePath = "/"
)

var sessionKeys = []string{KeyToken, KeyRefreshToken, KeyTokenType, KeyExpiresAt}

// clearedCookieExpiry is an instant already in the past for every client.
var clearedCookieExpiry = time.Date(1970, 1, 1, 0, 0, 1, 0, time.UTC)

type Config struct {
	Backend dto.Backend
	Cookies dto.CookieSink
	Relay   relayDTO.RelayInterface
	Clock   func() time.Time
}

type CredentialStore struct {
	backend dto.Backend
	cookies dto.CookieSink
	relay   relayDTO.RelayInterface
	clock   func() time.Time
}

func New(cfg Config) *CredentialStore {
	s := &CredentialStore{
		backend: cfg.Backend,
		cookies: cfg.Cookies,
		relay:   cfg.Relay,
		clock:   cfg.Clock,
	}
	if s.cookies == nil {
		s.cookies = NopSink{}
	}
	if s.relay == nil {
		s.relay = relays.NopRelay{}
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	return s
}

// Available reports whether a storage backend is attached.
func (s *CredentialStore) Available() bool {
	return s != nil && s.backend != nil
}

// BackendName for status output.
func (s *CredentialStore) BackendName() string {
	if !s.Available() {
		return "none"
	}
	return s.backend.Name()
}

// Store replaces the current session and refreshes the cookie mirror.
func (s *CredentialStore) Store(ctx context.Context, creds dto.Credentials) {
	if !s.Available() {
		s.relay.Warn(relays.RlySessionLog{Component: "store", Msg: "storage unavailable, session not stored"})
		return
	}

	expiresAt := ""
	if !creds.ExpiresAt.IsZero() {
		expiresAt = expiry.Format(creds.ExpiresAt)
	}
	values := map[string]string{
		KeyToken:        creds.AccessToken,
		KeyRefreshToken: creds.RefreshToken,
		KeyTokenType:    dto.NormalizeTokenType(creds.TokenType),
		KeyExpiresAt:    expiresAt,
	}
	if err := s.backend.SetMany(ctx, values); err != nil {
		s.relay.Warn(relays.RlySessionLog{Component: "store", Msg: "write session", Err: err})
		return
	}

	cookie := &http.Cookie{
		Name:  CookieName,
		Value: creds.AccessToken,
		Path:  CookiePath,
	}
	switch {
	case creds.ExpiresIn > 0:
		cookie.Expires = s.clock().Add(time.Duration(creds.ExpiresIn) * time.Second)
	case !creds.ExpiresAt.IsZero():
		cookie.Expires = creds.ExpiresAt
	}
	s.cookies.SetCookie(cookie)

	s.relay.Debug(relays.RlySessionEvent{
		Status:          dto.STORED,
		Msg:             "session stored",
		ExpiresAt:       creds.ExpiresAt,
		TokenLength:     len(creds.AccessToken),
		HasRefreshToken: creds.RefreshToken != "",
	})
}

func (s *CredentialStore) Get(ctx context.Context) (string, bool) {
	return s.read(ctx, KeyToken)
}

func (s *CredentialStore) GetRefreshToken(ctx context.Context) (string, bool) {
	return s.read(ctx, KeyRefreshToken)
}

// GetTokenType returns the stored scheme, "Bearer" when unset.
func (s *CredentialStore) GetTokenType(ctx context.Context) string {
	v, ok := s.read(ctx, KeyTokenType)
	if !ok {
		return dto.DefaultTokenType
	}
	return dto.NormalizeTokenType(v)
}

// ExpiresAt reports false when no expiry is recorded or it cannot be parsed.
func (s *CredentialStore) ExpiresAt(ctx context.Context) (time.Time, bool) {
	raw, ok := s.read(ctx, KeyExpiresAt)
	if !ok {
		return time.Time{}, false
	}
	t, err := expiry.Parse(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsExpired is true without storage, without a recorded expiry, or once less
// than expiry.Margin remains.
func (s *CredentialStore) IsExpired(ctx context.Context) bool {
	if !s.Available() {
		return true
	}
	raw, ok := s.read(ctx, KeyExpiresAt)
	if !ok {
		return true
	}
	return expiry.ShouldRenewRaw(raw, s.clock())
}

// Snapshot returns every stored field; ok is false when no access token is stored.
func (s *CredentialStore) Snapshot(ctx context.Context) (dto.Credentials, bool) {
	token, ok := s.Get(ctx)
	if !ok {
		return dto.Credentials{}, false
	}
	refresh, _ := s.GetRefreshToken(ctx)
	exp, _ := s.ExpiresAt(ctx)
	return dto.Credentials{
		AccessToken:  token,
		RefreshToken: refresh,
		TokenType:    s.GetTokenType(ctx),
		ExpiresAt:    exp,
	}, true
}

// Clear removes every session field and expires the cookie mirror. Idempotent.
func (s *CredentialStore) Clear(ctx context.Context) {
	if !s.Available() {
		return
	}
	_, hadToken := s.Get(ctx)
	if err := s.backend.Delete(ctx, sessionKeys...); err != nil {
		s.relay.Warn(relays.RlySessionLog{Component: "store", Msg: "delete session", Err: err})
	}
	s.cookies.SetCookie(&http.Cookie{
		Name:    CookieName,
		Value:   "",
		Path:    CookiePath,
		Expires: clearedCookieExpiry,
		MaxAge:  -1,
	})
	if hadToken {
		s.relay.Debug(relays.RlySessionEvent{Status: dto.CLEARED, Msg: "session cleared"})
	}
}

func (s *CredentialStore) read(ctx context.Context, key string) (string, bool) {
	if !s.Available() {
		return "", false
	}
	v, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.relay.Warn(relays.RlySessionLog{Component: "store", Msg: "read " + key, Err: err})
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
