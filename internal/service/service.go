package service

import (
	"regulariza/internal/engine"
	"regulariza/internal/model"
	"regulariza/pkg/apperror"
)

// Notifier receives every committed timeline entry for fan-out to connected
// clients. Delivery is best-effort and never affects command outcomes.
type Notifier interface {
	NotifyTimeline(entry model.TimelineEntry)
}

// noopNotifier is used when no hub is wired (tests, batch tooling).
type noopNotifier struct{}

func (noopNotifier) NotifyTimeline(model.TimelineEntry) {}

// authorizeProcessAccess scopes clients to their own processes. Foreign
// processes answer as not-found so ids don't leak across clients.
func authorizeProcessAccess(p *model.Process, actor engine.Actor) error {
	if actor.Role == model.ActorAdmin {
		return nil
	}
	if p.ClientID != nil && *p.ClientID == actor.ID {
		return nil
	}
	return apperror.NotFoundf("processo %s não encontrado", p.ID)
}
