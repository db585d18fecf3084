package gosession

import (
	"sync"

	"github.com/joy-dx/gosession/client/authclient"
	"github.com/joy-dx/gosession/client/gateway"
	"github.com/joy-dx/gosession/config"
	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/metrics"
	"github.com/joy-dx/gosession/services"
	"github.com/joy-dx/gosession/store"
	"github.com/joy-dx/lockablemap"
	relayDTO "github.com/joy-dx/relay/dto"
	"github.com/redis/go-redis/v9"
)

// SessionSvc owns the credential store, the auth client and the request
// gateway, and is the boundary where an expired session is reported.
type SessionSvc struct {
	cfg      *config.SessionSvcConfig
	relay    relayDTO.RelayInterface
	metrics  *metrics.Metrics
	store    *store.CredentialStore
	auth     *authclient.Client
	gateway  *gateway.Gateway
	services *services.Services
	redis    *redis.Client

	lastEvents  *lockablemap.LockableMap[dto.SessionStatus, dto.SessionEvent]
	muListeners sync.Mutex
	listeners   []*sessionListener
	// late tracks terminal events still waiting on a full listener
	late sync.WaitGroup
}

type sessionListener struct {
	ch   chan dto.SessionEvent
	done chan struct{}
}

// close must be called with muListeners held.
func (l *sessionListener) close() {
	close(l.done)
	close(l.ch)
}

var _ dto.SessionInterface = (*SessionSvc)(nil)

// Services returns the typed wallet resources bound to this session.
func (s *SessionSvc) Services() *services.Services {
	return s.services
}

// Store exposes the credential store, mostly for status output.
func (s *SessionSvc) Store() *store.CredentialStore {
	return s.store
}

// SessionListener returns a channel of session transitions
func (s *SessionSvc) SessionListener() (<-chan dto.SessionEvent, func()) {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()

	l := &sessionListener{
		ch:   make(chan dto.SessionEvent, 10),
		done: make(chan struct{}),
	}
	s.listeners = append(s.listeners, l)

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			s.muListeners.Lock()
			defer s.muListeners.Unlock()

			out := s.listeners[:0]
			found := false
			for _, c := range s.listeners {
				if c != l {
					out = append(out, c)
				} else {
					found = true
				}
			}
			s.listeners = out
			if found {
				l.close()
			}
		})
	}

	return l.ch, unsub
}

// SessionListenerClose closes every listener channel
func (s *SessionSvc) SessionListenerClose() {
	s.muListeners.Lock()
	defer s.muListeners.Unlock()
	for _, l := range s.listeners {
		l.close()
	}
	s.listeners = nil
}

// Close releases backend connections and listeners.
func (s *SessionSvc) Close() error {
	s.SessionListenerClose()
	s.late.Wait()
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
