package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/metrics"
	"github.com/joy-dx/gosession/relays"
)

const refreshKey = "refresh"

// Refresh renews the session with the stored refresh token. Concurrent callers
// share a single round trip and its result. The round trip runs detached from
// any one caller's context, bounded by Config.RefreshTimeout, so a caller that
// gives up returns false without failing the refresh for the others.
func (c *Client) Refresh(ctx context.Context) bool {
	ch := c.group.DoChan(refreshKey, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.RefreshTimeout)
		defer cancel()
		return c.refresh(shared), nil
	})
	select {
	case res := <-ch:
		if res.Shared {
			c.relay.Debug(relays.RlySessionLog{Component: "authclient", Msg: "joined in-flight refresh"})
		}
		ok, _ := res.Val.(bool)
		return ok
	case <-ctx.Done():
		c.relay.Debug(relays.RlySessionLog{Component: "authclient", Msg: "stopped waiting for refresh", Err: ctx.Err()})
		return false
	}
}

func (c *Client) refresh(ctx context.Context) bool {
	refreshToken, ok := c.store.GetRefreshToken(ctx)
	if !ok {
		c.relay.Warn(relays.RlySessionLog{Component: "authclient", Msg: "no refresh token available"})
		c.metrics.Refresh(metrics.OutcomeSkipped)
		return false
	}

	status, body, receivedAt, err := c.post(ctx, c.cfg.RefreshPath, dto.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return c.refreshFailed(ctx, err)
	}
	if status < 200 || status >= 300 {
		apiErr := &dto.APIError{Status: status}
		_ = json.Unmarshal(body, apiErr)
		return c.refreshFailed(ctx, fmt.Errorf("refresh status %d: %w", status, apiErr))
	}

	data, ok := decodeCredentials(body)
	if !ok {
		return c.refreshFailed(ctx, &dto.ProtocolError{Msg: msgInvalidStructure})
	}

	creds := c.credentials(data, receivedAt)
	c.store.Store(ctx, creds)
	c.metrics.Refresh(metrics.OutcomeSuccess)
	c.relay.Info(relays.RlySessionEvent{
		Status:          dto.REFRESHED,
		Msg:             "session refreshed",
		ExpiresAt:       creds.ExpiresAt,
		TokenLength:     len(creds.AccessToken),
		HasRefreshToken: creds.RefreshToken != "",
	})
	c.publish(dto.REFRESHED, "session refreshed", creds.ExpiresAt)
	return true
}

func (c *Client) refreshFailed(ctx context.Context, err error) bool {
	c.relay.Warn(relays.RlySessionLog{Component: "authclient", Msg: "refresh failed, clearing session", Err: err})
	c.metrics.Refresh(metrics.OutcomeFailure)
	c.store.Clear(ctx)
	c.publish(dto.CLEARED, "refresh failed", time.Time{})
	return false
}
