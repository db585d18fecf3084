package gosession

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joy-dx/gosession/config"
	"github.com/joy-dx/gosession/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

// ---------- fakes ----------

type fakeRelay struct {
	mu   sync.Mutex
	msgs []string
	evts []relayDTO.RelayEventInterface
}

func (r *fakeRelay) Debug(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Info(data relayDTO.RelayEventInterface)  { r.add(data) }
func (r *fakeRelay) Warn(data relayDTO.RelayEventInterface)  { r.add(data) }
func (r *fakeRelay) Error(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Fatal(data relayDTO.RelayEventInterface) { r.add(data) }
func (r *fakeRelay) Meta(data relayDTO.RelayEventInterface)  { r.add(data) }

func (r *fakeRelay) add(e relayDTO.RelayEventInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evts = append(r.evts, e)
	if e != nil {
		r.msgs = append(r.msgs, e.Message())
	}
}

// leaked reports whether any relayed attribute carries one of the secrets.
func (r *fakeRelay) leaked(secrets ...string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.evts {
		var b strings.Builder
		b.WriteString(e.Message())
		for _, a := range e.ToSlog() {
			b.WriteString(" " + a.String())
		}
		for _, s := range secrets {
			if strings.Contains(b.String(), s) {
				return true
			}
		}
	}
	return false
}

type noWaitDelay struct{}

func (d noWaitDelay) Wait(ctx context.Context, taskName string, attempt int) error { return ctx.Err() }

// testClock is a settable clock shared by the service and the test. It starts
// at the wall clock so the cookie jar keeps the mirrored cookie.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now().UTC().Truncate(time.Second)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// walletServer fakes the backend: auth endpoints plus /accounts guarded by the
// latest issued access token.
type walletServer struct {
	*httptest.Server

	loginCalls    atomic.Int32
	refreshCalls  atomic.Int32
	resourceCalls atomic.Int32

	mu          sync.Mutex
	validTokens map[string]bool
	issued      int
	failRefresh bool
	// resourceStatus forces the /accounts status when non-zero.
	resourceStatus []int
}

func newWalletServer(t *testing.T) *walletServer {
	t.Helper()

	ws := &walletServer{validTokens: map[string]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		ws.loginCalls.Add(1)
		var req dto.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username != "alice" || req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, dto.APIError{Status: 401, Message: "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, ws.issue("T1", "R1"))
	})
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		ws.refreshCalls.Add(1)
		ws.mu.Lock()
		fail := ws.failRefresh
		ws.mu.Unlock()
		if fail {
			writeJSON(w, http.StatusUnauthorized, dto.APIError{Status: 401, Message: "Refresh token expired"})
			return
		}
		writeJSON(w, http.StatusOK, ws.issue("T2", "R2"))
	})
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		ws.resourceCalls.Add(1)
		ws.mu.Lock()
		var forced int
		if len(ws.resourceStatus) > 0 {
			forced = ws.resourceStatus[0]
			ws.resourceStatus = ws.resourceStatus[1:]
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		valid := ws.validTokens[token]
		ws.mu.Unlock()

		if forced != 0 {
			writeJSON(w, forced, dto.APIError{Status: forced, Message: http.StatusText(forced)})
			return
		}
		if !valid {
			writeJSON(w, http.StatusUnauthorized, dto.APIError{Status: 401, Message: "Unauthorized"})
			return
		}
		writeJSON(w, http.StatusOK, dto.APIResponse[[]dto.Account]{
			Status: 200,
			Data:   []dto.Account{{ID: 1, Description: "Wallet", Balance: 10}},
		})
	})

	ws.Server = httptest.NewServer(mux)
	t.Cleanup(ws.Close)
	return ws
}

func (ws *walletServer) issue(token, refresh string) dto.APIResponse[dto.LoginResponse] {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.issued++
	ws.validTokens = map[string]bool{token: true}
	return dto.APIResponse[dto.LoginResponse]{
		Status:  200,
		Message: "ok",
		Data: dto.LoginResponse{
			Token:        token,
			RefreshToken: refresh,
			ExpiresIn:    3600,
			TokenType:    "Bearer",
		},
	}
}

func (ws *walletServer) revokeAll() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.validTokens = map[string]bool{}
}

func (ws *walletServer) setFailRefresh(v bool) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.failRefresh = v
}

func (ws *walletServer) forceStatuses(codes ...int) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.resourceStatus = append(ws.resourceStatus, codes...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// expiredHook counts OnSessionExpired calls.
type expiredHook struct {
	calls atomic.Int32
	mu    sync.Mutex
	last  error
}

func (h *expiredHook) fn(ctx context.Context, err error) {
	h.calls.Add(1)
	h.mu.Lock()
	h.last = err
	h.mu.Unlock()
}

// ---------- helpers ----------

type testEnv struct {
	svc    *SessionSvc
	server *walletServer
	clock  *testClock
	hook   *expiredHook
	relay  *fakeRelay
}

func newTestEnv(t *testing.T, mutate ...func(cfg *config.SessionSvcConfig)) *testEnv {
	t.Helper()

	server := newWalletServer(t)
	clock := newTestClock()
	hook := &expiredHook{}
	relay := &fakeRelay{}

	cfg := config.DefaultSessionSvcConfig()
	cfg.WithRelay(relay).
		WithBaseURL(server.URL).
		WithRequestTimeout(5 * time.Second).
		WithClock(clock.Now).
		WithOnSessionExpired(hook.fn)
	for _, m := range mutate {
		m(&cfg)
	}

	svc := NewSessionSvc(&cfg)
	if err := svc.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate error: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	return &testEnv{svc: svc, server: server, clock: clock, hook: hook, relay: relay}
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	if _, err := e.svc.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login error: %v", err)
	}
}

func accountsRequest() *dto.RequestConfig {
	cfg := dto.DefaultRequestConfig()
	cfg.WithEndpoint("/accounts").WithDelay(noWaitDelay{})
	return &cfg
}

func waitEvent(t *testing.T, ch <-chan dto.SessionEvent, want dto.SessionStatus) dto.SessionEvent {
	t.Helper()
	timeout := time.After(time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("listener closed before %s", want)
			}
			if ev.Status == want {
				return ev
			}
		case <-timeout:
			t.Fatalf("timeout waiting for %s", want)
		}
	}
}
