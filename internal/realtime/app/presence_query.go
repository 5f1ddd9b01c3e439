package app

import (
	"context"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/internal/realtime/presence"
	"talent_realtime_service/internal/realtime/repository"
	"talent_realtime_service/pkg/logger"

	"go.uber.org/zap"
)

// PresenceQuery read side of presence, lastSeen may be nil
type PresenceQuery struct {
	registry *presence.Registry
	lastSeen repository.LastSeenRepository
}

// NewPresenceQuery create presence query
func NewPresenceQuery(registry *presence.Registry, lastSeen repository.LastSeenRepository) *PresenceQuery {
	return &PresenceQuery{registry: registry, lastSeen: lastSeen}
}

// Online actors with a live session on this node
func (q *PresenceQuery) Online() []domain.ActorRef {
	return q.registry.OnlineActors()
}

// Status online flag, otherwise the latest last seen of this node and the shared store
func (q *PresenceQuery) Status(ctx context.Context, actor domain.ActorRef) (domain.PresenceStatus, error) {
	if err := actor.Validate(); err != nil {
		return domain.PresenceStatus{}, err
	}
	status := domain.PresenceStatus{Actor: actor}
	if q.registry.IsOnline(actor) {
		status.Online = true
		return status, nil
	}

	at, ok := q.registry.LastSeen(actor)
	if q.lastSeen != nil {
		stored, found, err := q.lastSeen.Get(ctx, actor)
		switch {
		case err != nil:
			// 共享存放掛了就只用本機的紀錄
			logger.Log.Warn("load last seen failed", zap.String("actor", actor.Key()), zap.Error(err))
		case found && (!ok || stored.After(at)):
			at, ok = stored, true
		}
	}
	if ok {
		status.LastSeen = &at
	}
	return status, nil
}
