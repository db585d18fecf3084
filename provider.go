package gosession

import (
	"sync"

	"github.com/joy-dx/gosession/config"
	"github.com/joy-dx/gosession/dto"
	"github.com/joy-dx/gosession/relays"
	"github.com/joy-dx/lockablemap"
)

var (
	service     *SessionSvc
	serviceOnce sync.Once
)

// ProvideSessionSvc returns the process wide session service.
func ProvideSessionSvc(cfg *config.SessionSvcConfig) *SessionSvc {
	serviceOnce.Do(func() {
		service = NewSessionSvc(cfg)
	})
	return service
}

// NewSessionSvc builds an unhydrated service; call Hydrate before use.
func NewSessionSvc(cfg *config.SessionSvcConfig) *SessionSvc {
	s := &SessionSvc{
		cfg:        cfg,
		lastEvents: lockablemap.NewLockableMap[dto.SessionStatus, dto.SessionEvent](),
	}
	if cfg != nil {
		s.relay = cfg.Relay()
		s.relay.Debug(relays.RlySessionLog{Component: "svc", Msg: "Session service started"})
	}
	return s
}
