package gosession

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/joy-dx/gosession/config"
	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/store"
	"github.com/stretchr/testify/require"
)

func TestSessionSvc_Listeners_Golden(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultSessionSvcConfig()
	s := NewSessionSvc(&cfg)

	ch1, unsub1 := s.SessionListener()
	ch2, _ := s.SessionListener()

	s.publishSessionEvent(dto.SessionEvent{Status: dto.REFRESHED, Message: "session refreshed"})

	for i, ch := range []<-chan dto.SessionEvent{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Status != dto.REFRESHED {
				t.Fatalf("ch%d status=%s want %s", i+1, ev.Status, dto.REFRESHED)
			}
			if ev.At.IsZero() {
				t.Fatalf("ch%d event has no timestamp", i+1)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("timeout waiting for ch%d update", i+1)
		}
	}

	unsub1()
	unsub1()
	if _, ok := <-ch1; ok {
		t.Fatalf("ch1 should be closed after unsubscribe")
	}

	s.publishSessionEvent(dto.SessionEvent{Status: dto.SESSION_EXPIRED, Message: "session expired: unauthorized"})
	select {
	case ev := <-ch2:
		if ev.Status != dto.SESSION_EXPIRED {
			t.Fatalf("ch2 status=%s want %s", ev.Status, dto.SESSION_EXPIRED)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for ch2 SESSION_EXPIRED")
	}

	last := s.State(context.Background()).LastEvents
	require.Contains(t, last, dto.REFRESHED)
	require.Contains(t, last, dto.SESSION_EXPIRED)
}

func TestSessionSvc_TerminalEventSurvivesFullBuffer(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultSessionSvcConfig()
	s := NewSessionSvc(&cfg)
	ch, unsub := s.SessionListener()
	defer unsub()

	for i := 0; i < 15; i++ {
		s.publishSessionEvent(dto.SessionEvent{Status: dto.REFRESHED})
	}
	s.publishSessionEvent(dto.SessionEvent{Status: dto.CLEARED})

	refreshed := 0
	for {
		select {
		case ev := <-ch:
			if ev.Status == dto.CLEARED {
				if refreshed != 10 {
					t.Fatalf("refreshed=%d; want buffer of 10, extra progress dropped", refreshed)
				}
				return
			}
			refreshed++
		case <-time.After(time.Second):
			t.Fatalf("terminal event was not delivered")
		}
	}
}

func TestSessionSvc_PublishWhileUnsubscribing(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultSessionSvcConfig()
	for i := 0; i < 200; i++ {
		s := NewSessionSvc(&cfg)
		unsubs := make([]func(), 0, 4)
		for j := 0; j < 4; j++ {
			_, unsub := s.SessionListener()
			unsubs = append(unsubs, unsub)
		}

		var wg sync.WaitGroup
		for p := 0; p < 4; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for n := 0; n < 20; n++ {
					status := dto.REFRESHED
					if (n+p)%5 == 0 {
						status = dto.CLEARED
					}
					s.publishSessionEvent(dto.SessionEvent{Status: status})
				}
			}(p)
		}
		for _, unsub := range unsubs[:2] {
			wg.Add(1)
			go func(unsub func()) {
				defer wg.Done()
				unsub()
			}(unsub)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SessionListenerClose()
		}()
		wg.Wait()
		require.NoError(t, s.Close())
	}
}

func TestSessionSvc_CloseReleasesPendingTerminalEvent(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultSessionSvcConfig()
	s := NewSessionSvc(&cfg)
	_, _ = s.SessionListener()

	for i := 0; i < 10; i++ {
		s.publishSessionEvent(dto.SessionEvent{Status: dto.REFRESHED})
	}
	// nobody reads, so this one waits for room
	s.publishSessionEvent(dto.SessionEvent{Status: dto.SESSION_EXPIRED})

	closed := make(chan struct{})
	go func() {
		_ = s.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatalf("Close blocked on an undeliverable terminal event")
	}
}

func TestSessionSvc_Hydrate_Golden(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	tests := []struct {
		name        string
		mutate      func(cfg *config.SessionSvcConfig)
		wantBackend string
		wantErr     bool
	}{
		{
			name:        "memory by default",
			mutate:      func(cfg *config.SessionSvcConfig) {},
			wantBackend: "memory",
		},
		{
			name: "file",
			mutate: func(cfg *config.SessionSvcConfig) {
				cfg.WithStoreBackend(config.BackendFile)
				cfg.Store.FilePath = filepath.Join(t.TempDir(), "session.json")
			},
			wantBackend: "file",
		},
		{
			name: "redis",
			mutate: func(cfg *config.SessionSvcConfig) {
				cfg.WithStoreBackend(config.BackendRedis)
				cfg.Store.Redis.Addr = mr.Addr()
				cfg.Store.Prefix = "alice:"
			},
			wantBackend: "redis",
		},
		{
			name:        "injected backend wins",
			mutate:      func(cfg *config.SessionSvcConfig) { cfg.WithBackend(store.NewMemoryBackend()).WithStoreBackend("bogus") },
			wantBackend: "memory",
		},
		{
			name:    "unknown backend",
			mutate:  func(cfg *config.SessionSvcConfig) { cfg.WithStoreBackend("bogus") },
			wantErr: true,
		},
		{
			name: "unreachable redis",
			mutate: func(cfg *config.SessionSvcConfig) {
				cfg.WithStoreBackend(config.BackendRedis)
				cfg.Store.Redis.Addr = "127.0.0.1:1"
			},
			wantErr: true,
		},
		{
			name:    "bad base url",
			mutate:  func(cfg *config.SessionSvcConfig) { cfg.WithBaseURL("ftp://example.com") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultSessionSvcConfig()
			cfg.WithRelay(&fakeRelay{})
			tt.mutate(&cfg)

			s := NewSessionSvc(&cfg)
			err := s.Hydrate(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer s.Close()
			state := s.State(context.Background())
			if state.Backend != tt.wantBackend {
				t.Fatalf("backend=%s want %s", state.Backend, tt.wantBackend)
			}
			if state.Authenticated || !state.Expired || !state.StoreAvailable {
				t.Fatalf("fresh state=%+v; want available, unauthenticated, expired", state)
			}
		})
	}
}

func TestSessionSvc_NotHydrated(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultSessionSvcConfig()
	s := NewSessionSvc(&cfg)
	ctx := context.Background()

	if _, err := s.Login(ctx, "alice", "secret"); !errors.Is(err, ErrNotHydrated) {
		t.Fatalf("Login err=%v; want ErrNotHydrated", err)
	}
	if _, err := s.Get(ctx, "/accounts"); !errors.Is(err, ErrNotHydrated) {
		t.Fatalf("Get err=%v; want ErrNotHydrated", err)
	}
	if _, err := s.TokenSource(ctx).Token(); !errors.Is(err, ErrNotHydrated) {
		t.Fatalf("Token err=%v; want ErrNotHydrated", err)
	}
	if s.Refresh(ctx) || s.IsAuthenticated(ctx) {
		t.Fatalf("unhydrated service must report no session")
	}
	s.Logout(ctx)
	if !s.State(ctx).Expired {
		t.Fatalf("unhydrated state must be expired")
	}

	if err := NewSessionSvc(nil).Hydrate(ctx); err == nil {
		t.Fatalf("expected error without config")
	}
}
