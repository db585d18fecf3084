package authclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/store"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type recordingSink struct {
	mu      sync.Mutex
	cookies []*http.Cookie
}

func (s *recordingSink) SetCookie(c *http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.cookies = append(s.cookies, &cp)
}

func (s *recordingSink) last() *http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cookies) == 0 {
		return nil
	}
	return s.cookies[len(s.cookies)-1]
}

type eventLog struct {
	mu     sync.Mutex
	events []dto.SessionEvent
}

func (l *eventLog) publish(e dto.SessionEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) statuses() []dto.SessionStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]dto.SessionStatus, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Status)
	}
	return out
}

// authServer is a recording backend for /auth/login and /auth/refresh.
type authServer struct {
	*httptest.Server

	loginCalls   atomic.Int32
	refreshCalls atomic.Int32

	// refreshStatus overrides the refresh HTTP status when non-zero.
	refreshStatus int
	// refreshGate blocks refresh handling until closed when set.
	refreshGate    chan struct{}
	refreshEntered chan struct{}
	enteredOnce    sync.Once

	lastRefreshToken atomic.Value
}

func newAuthServer(t *testing.T) *authServer {
	t.Helper()

	s := &authServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		s.loginCalls.Add(1)
		var req dto.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username != "alice" || req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, dto.APIError{Status: 401, Message: "Invalid credentials", Err: "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, dto.APIResponse[dto.LoginResponse]{
			Status:  200,
			Message: "Login successful",
			Data: dto.LoginResponse{
				Token:        "T1",
				RefreshToken: "R1",
				ExpiresIn:    3600,
				ExpiresAt:    "2026-10-14T13:00:00",
				TokenType:    "Bearer",
			},
		})
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.refreshCalls.Add(1)
		if s.refreshEntered != nil {
			s.enteredOnce.Do(func() { close(s.refreshEntered) })
		}
		if s.refreshGate != nil {
			<-s.refreshGate
		}
		var req dto.RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.lastRefreshToken.Store(req.RefreshToken)

		if s.refreshStatus != 0 {
			writeJSON(w, s.refreshStatus, dto.APIError{Status: s.refreshStatus, Message: "Invalid refresh token"})
			return
		}
		writeJSON(w, http.StatusOK, dto.APIResponse[dto.LoginResponse]{
			Status:  200,
			Message: "Token refreshed",
			Data: dto.LoginResponse{
				Token:        "T2",
				RefreshToken: "R2",
				ExpiresIn:    3600,
				TokenType:    "Bearer",
			},
		})
	})
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-Authorization", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type fixture struct {
	store  *store.CredentialStore
	sink   *recordingSink
	events *eventLog
	client *Client
}

func newFixture(t *testing.T, srv *authServer) *fixture {
	t.Helper()

	sink := &recordingSink{}
	events := &eventLog{}
	st := store.New(store.Config{Backend: store.NewMemoryBackend(), Cookies: sink, Clock: fixedClock})

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Clock = fixedClock
	cfg.OnEvent = events.publish

	return &fixture{
		store:  st,
		sink:   sink,
		events: events,
		client: New(cfg, st, srv.Client(), nil, nil),
	}
}

// seedExpired stores a session that falls inside the renewal margin.
func (f *fixture) seedExpired(t *testing.T, refreshToken string) {
	t.Helper()
	f.store.Store(t.Context(), dto.Credentials{
		AccessToken:  "T1",
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    testNow.Add(30 * time.Second),
	})
}
