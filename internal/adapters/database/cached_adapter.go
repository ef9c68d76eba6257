package database

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
)

// loadThrough serves key from cache, falling back to load and storing its
// result. Cache failures are logged and never fail the call.
func loadThrough[T any](ctx context.Context, cache providers.CacheProvider, entity, key string, ttl int, load func() (T, error)) (T, error) {
	logger := observability.LoggerFromContext(ctx)

	cached, err := cache.Get(ctx, key)
	if err == nil {
		var value T
		if err := json.Unmarshal(cached, &value); err == nil {
			observability.RecordCacheHit(entity)
			return value, nil
		}
		logger.Warn().Err(err).Str("key", key).Msg("failed to unmarshal cached value")
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	observability.RecordCacheMiss(entity)

	value, err := load()
	if err != nil {
		return value, err
	}

	if data, err := json.Marshal(value); err == nil {
		if err := cache.Set(ctx, key, data, ttl); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to cache value")
		}
	}
	return value, nil
}
