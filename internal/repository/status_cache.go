package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StatusSnapshotKey is the Redis key holding the JSON encoded status list.
const StatusSnapshotKey = "license:statuses"

type cachedStatusRepository struct {
	inner  StatusRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedStatusRepository shares one status snapshot between processes through Redis.
// Redis failures fall back to inner; they never fail the load.
func NewCachedStatusRepository(inner StatusRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) StatusRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedStatusRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (r *cachedStatusRepository) LoadAll(ctx context.Context) ([]StatusRecord, error) {
	raw, err := r.client.Get(ctx, StatusSnapshotKey).Bytes()
	switch {
	case err == nil:
		var statuses []StatusRecord
		if decodeErr := json.Unmarshal(raw, &statuses); decodeErr == nil && len(statuses) > 0 {
			return statuses, nil
		}
		r.logger.Warn("discarding unreadable status snapshot", zap.String("key", StatusSnapshotKey))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("status snapshot read failed", zap.Error(err))
	}

	statuses, err := r.inner.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return statuses, nil
	}

	payload, err := json.Marshal(statuses)
	if err != nil {
		return statuses, nil
	}
	if err := r.client.Set(ctx, StatusSnapshotKey, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("status snapshot write failed", zap.Error(err))
	}
	return statuses, nil
}
