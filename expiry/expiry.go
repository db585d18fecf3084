// Package expiry decides when an access token is due for renewal.
//
// Every function is pure: the caller supplies the clock reading.
package expiry

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joy-dx/gosession/dto"
)

// Margin is how long before the recorded expiry a token is already treated as expired.
const Margin = time.Minute

var ErrEmpty = errors.New("empty expiry")

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ShouldRenew reports expiresAt <= now + Margin. A zero expiresAt always renews.
func ShouldRenew(expiresAt, now time.Time) bool {
	if expiresAt.IsZero() {
		return true
	}
	return !expiresAt.After(now.Add(Margin))
}

// ShouldRenewRaw is ShouldRenew over a stored string; unparseable values renew.
func ShouldRenewRaw(raw string, now time.Time) bool {
	t, err := Parse(raw)
	if err != nil {
		return true
	}
	return ShouldRenew(t, now)
}

// Parse reads an ISO-8601 instant. Values without a zone are taken as UTC.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrEmpty
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Format is the persisted representation of an expiry.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Anchor picks the absolute expiry for a freshly received credential bundle.
// The relative lifetime measured on the local clock wins over the server's
// absolute instant, which in turn wins over the token's own exp claim.
func Anchor(resp dto.LoginResponse, receivedAt time.Time) time.Time {
	if resp.ExpiresIn > 0 {
		return receivedAt.Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	if t, err := Parse(resp.ExpiresAt); err == nil {
		return t
	}
	if t, ok := FromJWT(resp.Token); ok {
		return t
	}
	return time.Time{}
}

// FromJWT reads the exp claim without verifying the signature. It is a hint
// only and reports false for opaque tokens.
func FromJWT(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
