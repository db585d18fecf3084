package gateway

import (
	"context"
	"io"
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

// sequence records the order of refreshes and server hits.
type sequence struct {
	mu    sync.Mutex
	steps []string
}

func (s *sequence) add(step string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
}

func (s *sequence) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.steps...)
}

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

type recordingServer struct {
	*httptest.Server
	calls atomic.Int32
	mu    sync.Mutex
	last  recordedRequest
	seq   *sequence
}

func newRecordingServer(t *testing.T, seq *sequence, status int, body string) *recordingServer {
	t.Helper()

	rs := &recordingServer{seq: seq}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.calls.Add(1)
		b, _ := io.ReadAll(r.Body)
		rs.mu.Lock()
		rs.last = recordedRequest{Method: r.Method, Path: r.URL.RequestURI(), Header: r.Header.Clone(), Body: string(b)}
		rs.mu.Unlock()
		if rs.seq != nil {
			rs.seq.add("call:" + r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) lastRequest() recordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.last
}

// fakeRefresher swaps in T2 on success, or clears the session on failure.
type fakeRefresher struct {
	store *store.CredentialStore
	ok    bool
	calls atomic.Int32
	seq   *sequence
}

func (f *fakeRefresher) Refresh(ctx context.Context) bool {
	f.calls.Add(1)
	if f.seq != nil {
		f.seq.add("refresh")
	}
	if !f.ok {
		f.store.Clear(ctx)
		return false
	}
	f.store.Store(ctx, dto.Credentials{
		AccessToken:  "T2",
		RefreshToken: "R2",
		TokenType:    "Bearer",
		ExpiresAt:    testNow.Add(time.Hour),
		ExpiresIn:    3600,
	})
	return true
}

// cancelledRefresher reports failure once the caller's context is done, the
// way authclient does for a caller that stops waiting.
type cancelledRefresher struct{}

func (cancelledRefresher) Refresh(ctx context.Context) bool {
	return ctx.Err() == nil
}

func newMemoryStore() *store.CredentialStore {
	return store.New(store.Config{Backend: store.NewMemoryBackend(), Clock: fixedClock})
}

func seed(t *testing.T, st *store.CredentialStore, refreshToken string, expiresIn time.Duration) {
	t.Helper()
	st.Store(context.Background(), dto.Credentials{
		AccessToken:  "T1",
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresAt:    testNow.Add(expiresIn),
	})
}

func newTestGateway(srvURL string, st *store.CredentialStore, r dto.Refresher, mws ...Middleware) *Gateway {
	cfg := DefaultConfig()
	cfg.WithBaseURL(srvURL).WithTimeout(5 * time.Second).WithMiddleware(mws...)
	return New(&cfg, st, r, nil, nil)
}
