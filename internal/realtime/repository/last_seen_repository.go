package repository

import (
	"context"
	"errors"
	"time"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/pkg/database"

	"github.com/go-redis/redis/v8"
)

const (
	lastSeenPrefix = "presence:last_seen:"
	lastSeenTTL    = 30 * 24 * time.Hour
)

// LastSeenRepository last seen of actors, survives a node restart
type LastSeenRepository interface {
	Set(ctx context.Context, actor domain.ActorRef, at time.Time) error
	Get(ctx context.Context, actor domain.ActorRef) (time.Time, bool, error)
}

type lastSeenRepository struct {
	cache database.RedisRepository[time.Time]
}

// NewRedisLastSeenRepository create last seen store on redis
func NewRedisLastSeenRepository(client *redis.Client) LastSeenRepository {
	return &lastSeenRepository{cache: database.NewRedisRepository[time.Time](client, lastSeenPrefix)}
}

func (r *lastSeenRepository) Set(ctx context.Context, actor domain.ActorRef, at time.Time) error {
	return r.cache.Set(ctx, actor.Key(), at, lastSeenTTL)
}

func (r *lastSeenRepository) Get(ctx context.Context, actor domain.ActorRef) (time.Time, bool, error) {
	at, err := r.cache.Get(ctx, actor.Key())
	if errors.Is(err, database.ErrCacheMiss) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}
