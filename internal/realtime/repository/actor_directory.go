package repository

import (
	"context"
	"errors"
	"time"

	"talent_realtime_service/internal/realtime/domain"
	"talent_realtime_service/pkg/database"
	"talent_realtime_service/pkg/logger"

	"github.com/jackc/pgx/v4"
	"go.uber.org/zap"
)

// ActorDirectory resolve actor refs to profiles, never fails for a dangling ref
type ActorDirectory interface {
	Resolve(ctx context.Context, ref domain.ActorRef) domain.Profile
}

// RowQuerier subset of pgxpool.Pool used by the directory
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const (
	queryCandidate    = `SELECT full_name, COALESCE(avatar_url, '') FROM candidates WHERE id = $1`
	queryOrganization = `SELECT name, COALESCE(logo_url, '') FROM organizations WHERE id = $1`
)

type actorDirectory struct {
	db    RowQuerier
	cache database.RedisRepository[domain.Profile]
	ttl   time.Duration
}

// NewActorDirectory postgres lookup with optional redis cache (cache may be nil)
func NewActorDirectory(db RowQuerier, cache database.RedisRepository[domain.Profile], ttl time.Duration) ActorDirectory {
	return &actorDirectory{db: db, cache: cache, ttl: ttl}
}

// Resolve cache, then postgres, unknown actor when not found or lookup failed
func (d *actorDirectory) Resolve(ctx context.Context, ref domain.ActorRef) domain.Profile {
	if ref.Validate() != nil {
		return domain.UnknownProfile(ref)
	}

	if d.cache != nil {
		p, err := d.cache.Get(ctx, ref.Key())
		if err == nil {
			return p
		}
		if !errors.Is(err, database.ErrCacheMiss) {
			logger.Log.Warn("profile cache get failed", zap.String("actor", ref.Key()), zap.Error(err))
		}
	}

	query := queryCandidate
	if ref.Kind == domain.Organization {
		query = queryOrganization
	}

	profile := domain.Profile{Ref: ref}
	err := d.db.QueryRow(ctx, query, ref.ID).Scan(&profile.DisplayName, &profile.AvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UnknownProfile(ref)
	}
	if err != nil {
		logger.Log.Warn("actor directory lookup failed", zap.String("actor", ref.Key()), zap.Error(err))
		return domain.UnknownProfile(ref)
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, ref.Key(), profile, d.ttl); err != nil {
			logger.Log.Warn("profile cache set failed", zap.String("actor", ref.Key()), zap.Error(err))
		}
	}
	return profile
}

// StaticDirectory in memory directory, used when no postgres is configured and by tests
type StaticDirectory map[string]domain.Profile

// Resolve lookup by key
func (s StaticDirectory) Resolve(_ context.Context, ref domain.ActorRef) domain.Profile {
	if p, ok := s[ref.Key()]; ok {
		return p
	}
	return domain.UnknownProfile(ref)
}
