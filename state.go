package gosession

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/joy-dx/gosession/client/authclient"
	"github.com/joy-dx/gosession/client/gateway"
	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/metrics"
	"github.com/joy-dx/gosession/relays"
	"github.com/joy-dx/gosession/services"
	"github.com/joy-dx/gosession/store"
)

var ErrNotHydrated = errors.New("session service not hydrated")

func (s *SessionSvc) State(ctx context.Context) *dto.SessionState {
	st := &dto.SessionState{
		LastEvents: s.lastEvents.GetAll(),
	}
	if s.cfg != nil {
		st.BaseURL = s.cfg.API.BaseURL
		st.RequestTimeout = s.cfg.API.RequestTimeout
		st.ExtraHeaders = s.cfg.API.ExtraHeaders
	}
	if s.store == nil {
		st.Expired = true
		return st
	}

	st.Backend = s.store.BackendName()
	st.StoreAvailable = s.store.Available()
	_, st.Authenticated = s.store.Get(ctx)
	_, st.HasRefreshToken = s.store.GetRefreshToken(ctx)
	if st.Authenticated {
		st.TokenType = s.store.GetTokenType(ctx)
	}
	st.ExpiresAt, _ = s.store.ExpiresAt(ctx)
	st.Expired = s.store.IsExpired(ctx)
	return st
}

func (s *SessionSvc) Hydrate(ctx context.Context) error {
	if s.cfg == nil {
		return errors.New("no session config")
	}
	if s.relay == nil {
		return errors.New("no relay implementation")
	}
	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	baseURL, err := url.Parse(s.cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}

	backend, err := s.buildBackend(ctx)
	if err != nil {
		return fmt.Errorf("build store backend: %w", err)
	}

	jar, err := store.NewCookieJar()
	if err != nil {
		return err
	}

	if s.cfg.Metrics.Enable {
		s.metrics = metrics.New(s.cfg.Registerer)
	}

	s.store = store.New(store.Config{
		Backend: backend,
		Cookies: store.NewJarSink(jar, baseURL),
		Relay:   s.relay,
		Clock:   s.cfg.Now,
	})

	gwCfg := gateway.DefaultConfig()
	gwCfg.WithBaseURL(s.cfg.API.BaseURL).
		WithTimeout(s.cfg.API.RequestTimeout).
		WithUserAgent(s.cfg.API.UserAgent).
		WithJar(jar).
		WithTransport(s.cfg.Transport).
		WithOTEL(s.cfg.OTEL.Enable)
	if len(s.cfg.API.ExtraHeaders) > 0 {
		gwCfg.WithMiddleware(gateway.StaticHeaderMiddleware(s.cfg.API.ExtraHeaders))
	}
	gwCfg.WithMiddleware(gateway.RequestIDMiddleware())
	s.gateway = gateway.New(&gwCfg, s.store, nil, s.relay, s.metrics)

	s.auth = authclient.New(authclient.Config{
		BaseURL:        s.cfg.API.BaseURL,
		LoginPath:      s.cfg.API.LoginPath,
		RefreshPath:    s.cfg.API.RefreshPath,
		UserAgent:      s.cfg.API.UserAgent,
		RefreshTimeout: s.cfg.API.RequestTimeout,
		Clock:          s.cfg.Now,
		OnEvent:        s.publishSessionEvent,
	}, s.store, s.gateway.Client(), s.relay, s.metrics)
	s.gateway.SetRefresher(s.auth)

	s.services = services.New(s)

	s.relay.Info(relays.RlySessionLog{Component: "svc", Msg: "session service hydrated with " + s.store.BackendName() + " store"})
	return nil
}
