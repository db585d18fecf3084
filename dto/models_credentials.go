package dto

import (
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const DefaultTokenType = "Bearer"

// Credentials is the session as persisted by the credential store.
// Either every persisted field is set or none is.
type Credentials struct {
	AccessToken  string    `json:"token" yaml:"token"`
	RefreshToken string    `json:"refreshToken" yaml:"refreshToken"`
	TokenType    string    `json:"tokenType" yaml:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt" yaml:"expiresAt"`
	// ExpiresIn lifetime in seconds as reported by the server. Not persisted.
	ExpiresIn int64 `json:"-" yaml:"-"`
}

// Complete reports whether the tokens needed for an authenticated session are present.
func (c Credentials) Complete() bool {
	return c.AccessToken != "" && c.RefreshToken != ""
}

// AuthorizationHeader returns "<scheme> <token>", empty without an access token.
func (c Credentials) AuthorizationHeader() string {
	if c.AccessToken == "" {
		return ""
	}
	return NormalizeTokenType(c.TokenType) + " " + c.AccessToken
}

// OAuth2Token converts the session for use with golang.org/x/oauth2 transports.
func (c Credentials) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    NormalizeTokenType(c.TokenType),
		RefreshToken: c.RefreshToken,
		Expiry:       c.ExpiresAt,
	}
}

// NormalizeTokenType ensures proper "Bearer", "Basic", or custom capitalization.
func NormalizeTokenType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "bearer":
		return "Bearer"
	case "basic":
		return "Basic"
	case "":
		return DefaultTokenType
	default:
		return strings.TrimSpace(t)
	}
}
