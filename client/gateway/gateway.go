// Package gateway sends API calls on behalf of the session: it renews an
// expiring session first, injects the Authorization header and turns a 401
// into a cleared session.
package gateway

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
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Gateway struct {
	cfg       *Config
	store     *store.CredentialStore
	refresher dto.Refresher
	relay     relayDTO.RelayInterface
	metrics   *metrics.Metrics
	client    *http.Client
}

func New(cfg *Config, credStore *store.CredentialStore, refresher dto.Refresher, relay relayDTO.RelayInterface, m *metrics.Metrics) *Gateway {
	if relay == nil {
		relay = relays.NopRelay{}
	}
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			MaxIdleConns:        50,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			DisableKeepAlives:   false,
			Proxy:               http.ProxyFromEnvironment,
		}
	}
	if cfg.EnableOTEL {
		transport = otelhttp.NewTransport(transport)
	}
	return &Gateway{
		cfg:       cfg,
		store:     credStore,
		refresher: refresher,
		relay:     relay,
		metrics:   m,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			Jar:       cfg.Jar,
		},
	}
}

// Client is the underlying http.Client, shared with the auth client so both
// use the same jar and transport.
func (g *Gateway) Client() *http.Client {
	return g.client
}

// SetRefresher attaches the refresher after construction.
func (g *Gateway) SetRefresher(r dto.Refresher) {
	g.refresher = r
}

// Request performs one call. On 401 the session is cleared and the response is
// returned together with a *dto.SessionExpiredError. Other statuses are not
// interpreted.
func (g *Gateway) Request(ctx context.Context, inCfg *dto.RequestConfig) (dto.Response, error) {
	if inCfg == nil {
		return dto.Response{}, dto.ErrNilRequestConfig
	}
	start := time.Now()
	req := newRequest(g.cfg.BaseURL, inCfg)

	for _, mw := range g.cfg.Middlewares {
		if err := mw(ctx, req); err != nil {
			g.metrics.Request(metrics.OutcomeError)
			return dto.Response{}, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	refreshed, err := g.ensureSession(ctx)
	if err != nil {
		g.metrics.Request(metrics.OutcomeExpired)
		g.relay.Warn(relays.RlyGatewayRequest{Method: req.Method, URL: req.URL, Msg: "session could not be renewed"})
		return dto.Response{}, err
	}

	if err := req.FinalizeBody(); err != nil {
		g.metrics.Request(metrics.OutcomeError)
		return dto.Response{}, err
	}

	if inCfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inCfg.Timeout)
		defer cancel()
	}

	var body io.Reader
	if req.BodyBytes != nil {
		body = bytes.NewReader(req.BodyBytes)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		g.metrics.Request(metrics.OutcomeError)
		return dto.Response{}, fmt.Errorf("create request: %w", err)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	defaults := map[string]string{"Content-Type": contentType}
	if g.cfg.UserAgent != "" {
		defaults["User-Agent"] = g.cfg.UserAgent
	}
	httpReq.Header = utils.MergeHeaders(defaults, g.authHeaders(ctx), req.Headers)

	// httpResp may be non-nil with error
	httpResp, reqErr := g.client.Do(httpReq)
	if httpResp != nil {
		defer func() {
			io.Copy(io.Discard, httpResp.Body) // drain fully for connection reuse
			httpResp.Body.Close()
		}()
	}
	if reqErr != nil {
		g.metrics.Request(metrics.OutcomeError)
		g.relay.Warn(relays.RlySessionLog{Component: "gateway", Msg: req.Method + " " + req.URL, Err: reqErr})
		return dto.Response{}, fmt.Errorf("perform request: %w", reqErr)
	}

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		g.metrics.Request(metrics.OutcomeError)
		return dto.Response{}, fmt.Errorf("read body: %w", err)
	}

	response := dto.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header.Clone(),
		Body:       bodyBytes,
	}
	event := relays.RlyGatewayRequest{
		Method:     req.Method,
		URL:        req.URL,
		StatusCode: response.StatusCode,
		Refreshed:  refreshed,
		Duration:   time.Since(start),
	}

	if response.StatusCode == http.StatusUnauthorized {
		g.store.Clear(ctx)
		g.metrics.Unauthorized()
		g.metrics.Request(metrics.OutcomeUnauthorized)
		event.Msg = "unauthorized, session cleared"
		g.relay.Warn(event)
		return response, &dto.SessionExpiredError{Reason: reasonUnauthorized}
	}

	g.metrics.Request(metrics.OutcomeSuccess)
	event.Msg = "request completed"
	g.relay.Debug(event)
	return response, nil
}
