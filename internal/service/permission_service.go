package service

import (
	"sync"

	"github.com/tazhate/tripbot/internal/domain"
	"github.com/tazhate/tripbot/internal/storage"
	"go.uber.org/zap"
)

// PermissionService is the notification capability gate. The family grants or
// denies notifications explicitly; until then the state is "default".
type PermissionService struct {
	mu        sync.RWMutex
	store     Store
	log       *zap.Logger
	available bool
	state     domain.Permission
}

// NewPermissionService loads the saved state. available reports whether a
// notification sender exists at all.
func NewPermissionService(s Store, available bool, log *zap.Logger) *PermissionService {
	p := &PermissionService{
		store:     s,
		log:       log.Named("permission"),
		available: available,
		state:     domain.PermissionDefault,
	}

	var saved string
	if s.Load(storage.KeyNotificationPerm, &saved) {
		p.state = domain.ParsePermission(saved)
	}
	return p
}

// Permission is checked once per scheduler tick.
func (p *PermissionService) Permission() domain.Permission {
	if !p.available {
		return domain.PermissionUnavailable
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Request grants notifications. It returns the resulting state, which stays
// unavailable when there is no sender.
func (p *PermissionService) Request() domain.Permission {
	return p.set(domain.PermissionGranted)
}

func (p *PermissionService) Deny() domain.Permission {
	return p.set(domain.PermissionDenied)
}

func (p *PermissionService) set(state domain.Permission) domain.Permission {
	if !p.available {
		return domain.PermissionUnavailable
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = state
	if err := p.store.Save(storage.KeyNotificationPerm, string(state)); err != nil {
		p.log.Warn("save notification permission", zap.Error(err))
	}
	p.log.Info("notification permission changed", zap.String("state", string(state)))
	return state
}
