package gateway

import (
	"context"
	"fmt"

	"github.com/joy-dx/gosession/dto"
)

const (
	reasonRefreshFailed = "refresh failed"
	reasonUnauthorized  = "unauthorized"
)

// ensureSession renews an expiring session before the call is sent. It only
// tries when both tokens are present; anonymous calls pass through.
func (g *Gateway) ensureSession(ctx context.Context) (bool, error) {
	if !g.store.Available() {
		return false, nil
	}
	creds, _ := g.store.Snapshot(ctx)
	if !creds.Complete() || !g.store.IsExpired(ctx) {
		return false, nil
	}
	if g.refresher == nil || !g.refresher.Refresh(ctx) {
		// a caller that gave up has not lost its session
		if err := ctx.Err(); err != nil {
			return false, fmt.Errorf("refresh session: %w", err)
		}
		return false, &dto.SessionExpiredError{Reason: reasonRefreshFailed}
	}
	return true, nil
}

// authHeaders returns the Authorization layer, empty without a stored token.
func (g *Gateway) authHeaders(ctx context.Context) map[string]string {
	if !g.store.Available() {
		return nil
	}
	creds, ok := g.store.Snapshot(ctx)
	if !ok {
		return nil
	}
	return map[string]string{"Authorization": creds.AuthorizationHeader()}
}
