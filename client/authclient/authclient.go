// Package authclient speaks the backend's login and refresh protocol and keeps
// the credential store in sync with the outcome.
package authclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/metrics"
	"github.com/joy-dx/gosession/relays"
	"github.com/joy-dx/gosession/store"
	"github.com/joy-dx/gosession/utils"
	relayDTO "github.com/joy-dx/relay/dto"
	"golang.org/x/sync/singleflight"
)

const DefaultRefreshTimeout = 20 * time.Second

type Config struct {
	BaseURL     string
	LoginPath   string
	RefreshPath string
	UserAgent   string
	// RefreshTimeout bounds the shared refresh round trip.
	RefreshTimeout time.Duration
	Clock          func() time.Time
	// OnEvent receives STORED, REFRESHED and CLEARED transitions.
	OnEvent dto.SessionEventPublisher
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8080",
		LoginPath:      "/auth/login",
		RefreshPath:    "/auth/refresh",
		RefreshTimeout: DefaultRefreshTimeout,
	}
}

type Client struct {
	cfg     Config
	store   *store.CredentialStore
	doer    dto.Doer
	relay   relayDTO.RelayInterface
	metrics *metrics.Metrics
	group   singleflight.Group
}

func New(cfg Config, credStore *store.CredentialStore, doer dto.Doer, relay relayDTO.RelayInterface, m *metrics.Metrics) *Client {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = DefaultRefreshTimeout
	}
	if doer == nil {
		doer = http.DefaultClient
	}
	if relay == nil {
		relay = relays.NopRelay{}
	}
	return &Client{
		cfg:     cfg,
		store:   credStore,
		doer:    doer,
		relay:   relay,
		metrics: m,
	}
}

// Logout drops the stored session. The backend keeps no server side state to revoke.
func (c *Client) Logout(ctx context.Context) {
	_, had := c.store.Get(ctx)
	c.store.Clear(ctx)
	if had {
		c.publish(dto.CLEARED, "logged out", time.Time{})
	}
}

// IsAuthenticated reports whether an access token is stored. Expiry is not considered.
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	_, ok := c.store.Get(ctx)
	return ok
}

func (c *Client) publish(status dto.SessionStatus, msg string, expiresAt time.Time) {
	if c.cfg.OnEvent == nil {
		return
	}
	c.cfg.OnEvent(dto.SessionEvent{
		Status:    status,
		Message:   msg,
		ExpiresAt: expiresAt,
		At:        c.cfg.Clock(),
	})
}

// post sends a JSON payload and returns the status, the body and the instant
// the response arrived.
func (c *Client) post(ctx context.Context, path string, payload any) (int, []byte, time.Time, error) {
	body, contentType, err := utils.PrepareBody(payload, "application/json")
	if err != nil {
		return 0, nil, time.Time{}, fmt.Errorf("prepare body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, utils.JoinURL(c.cfg.BaseURL, path), bytes.NewReader(body))
	if err != nil {
		return 0, nil, time.Time{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.doer.Do(req)
	if resp != nil {
		defer func() {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}()
	}
	if err != nil {
		return 0, nil, time.Time{}, fmt.Errorf("perform request: %w", err)
	}
	receivedAt := c.cfg.Clock()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, receivedAt, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, data, receivedAt, nil
}
