package gosession

import (
	"context"

	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/relays"
)

// publishSessionEvent is the unified notification function
func (s *SessionSvc) publishSessionEvent(event dto.SessionEvent) {
	if event.At.IsZero() && s.cfg != nil {
		event.At = s.cfg.Now()
	}
	s.lastEvents.Set(event.Status, event)

	// Sends never block, so they run under the lock and cannot race a close.
	s.muListeners.Lock()
	for _, l := range s.listeners {
		select {
		case l.ch <- event:
		default:
			if event.Status.IsTerminal() {
				s.late.Add(1)
				go s.deliverLate(l, event)
			}
		}
	}
	s.muListeners.Unlock()

	if s.relay != nil {
		s.relay.Info(relays.RlySessionEvent{
			Status:    event.Status,
			Msg:       event.Message,
			ExpiresAt: event.ExpiresAt,
		})
	}
}

// deliverLate waits for room in a full listener until it unsubscribes.
func (s *SessionSvc) deliverLate(l *sessionListener, event dto.SessionEvent) {
	defer s.late.Done()
	// both channels may already be closed, and select then picks at random
	defer func() { _ = recover() }()
	select {
	case <-l.done:
	case l.ch <- event:
	}
}

// sessionExpired is the single place an unusable session is reported. The
// configured hook decides what that means for the caller, e.g. go back to login.
func (s *SessionSvc) sessionExpired(ctx context.Context, err error) {
	s.publishSessionEvent(dto.SessionEvent{
		Status:  dto.SESSION_EXPIRED,
		Message: err.Error(),
	})
	if s.cfg != nil && s.cfg.OnSessionExpired != nil {
		s.cfg.OnSessionExpired(ctx, err)
	}
}
