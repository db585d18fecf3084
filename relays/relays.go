package relays

import (
	"log/slog"
	"time"

	"github.com/joy-dx/gosession/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

const RelaySessionChannel relayDTO.EventChannel = "gosession"

const (
	RlySessionLogRef     relayDTO.EventRef = "gosession.log"
	RlySessionEventRef   relayDTO.EventRef = "gosession.session"
	RlyGatewayRequestRef relayDTO.EventRef = "gosession.gateway.request"
)

// RlySessionLog generic component log line
type RlySessionLog struct {
	Component string
	Msg       string
	Err       error
}

func (e RlySessionLog) RelayChannel() relayDTO.EventChannel { return RelaySessionChannel }
func (e RlySessionLog) RelayType() relayDTO.EventRef        { return RlySessionLogRef }
func (e RlySessionLog) Message() string                     { return e.Msg }
func (e RlySessionLog) ToSlog() []slog.Attr {
	attrs := []slog.Attr{slog.String("component", e.Component)}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return attrs
}

// RlySessionEvent a credential lifecycle transition. Never carries token values.
type RlySessionEvent struct {
	Status          dto.SessionStatus
	Msg             string
	ExpiresAt       time.Time
	TokenLength     int
	HasRefreshToken bool
}

func (e RlySessionEvent) RelayChannel() relayDTO.EventChannel { return RelaySessionChannel }
func (e RlySessionEvent) RelayType() relayDTO.EventRef        { return RlySessionEventRef }
func (e RlySessionEvent) Message() string                     { return e.Msg }
func (e RlySessionEvent) ToSlog() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("status", string(e.Status)),
		slog.Int("token_length", e.TokenLength),
		slog.Bool("has_refresh_token", e.HasRefreshToken),
	}
	if !e.ExpiresAt.IsZero() {
		attrs = append(attrs, slog.Time("expires_at", e.ExpiresAt))
	}
	return attrs
}

type RlyGatewayRequest struct {
	Method     string
	URL        string
	StatusCode int
	Refreshed  bool
	Duration   time.Duration
	Msg        string
}

func (e RlyGatewayRequest) RelayChannel() relayDTO.EventChannel { return RelaySessionChannel }
func (e RlyGatewayRequest) RelayType() relayDTO.EventRef        { return RlyGatewayRequestRef }
func (e RlyGatewayRequest) Message() string                     { return e.Msg }
func (e RlyGatewayRequest) ToSlog() []slog.Attr {
	return []slog.Attr{
		slog.String("method", e.Method),
		slog.String("url", e.URL),
		slog.Int("status", e.StatusCode),
		slog.Bool("refreshed", e.Refreshed),
		slog.Duration("duration", e.Duration),
	}
}
