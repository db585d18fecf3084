package authclient

import (
	"context"

	"github.com/joy-dx/gosession/dto"
	"golang.org/x/oauth2"
)

// TokenSource exposes the stored session as an oauth2.TokenSource, refreshing
// it when it falls inside the expiry margin.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &sessionTokenSource{ctx: ctx, client: c}
}

type sessionTokenSource struct {
	ctx    context.Context
	client *Client
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	st := s.client.store
	if !st.Available() {
		return nil, &dto.SessionExpiredError{Reason: "storage unavailable"}
	}
	if _, ok := st.Get(s.ctx); !ok {
		return nil, &dto.SessionExpiredError{Reason: "not authenticated"}
	}
	if st.IsExpired(s.ctx) && !s.client.Refresh(s.ctx) {
		if err := s.ctx.Err(); err != nil {
			return nil, err
		}
		return nil, &dto.SessionExpiredError{Reason: "refresh failed"}
	}
	creds, ok := st.Snapshot(s.ctx)
	if !ok {
		return nil, &dto.SessionExpiredError{Reason: "not authenticated"}
	}
	return creds.OAuth2Token(), nil
}
