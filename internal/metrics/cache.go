package metrics

import (
	"context"
	"time"

	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
)

// CacheWrapper provides a read-through cache for metrics gauge data.
// It queries the database on cache miss and updates the cache for subsequent requests.
// Uses the cache's GetWithFetch method for optimal cache-aside pattern support.
type CacheWrapper struct {
	store core.MetricsStore
	cache core.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store core.MetricsStore, cache core.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetActiveConnectionsCount retrieves the count of active connections.
// Uses cache-aside pattern via GetWithFetch for optimal performance.
func (m *CacheWrapper) GetActiveConnectionsCount(
	ctx context.Context,
	ttl time.Duration,
) (int64, error) {
	return m.getCountWithCache(
		ctx,
		"connections:active",
		ttl,
		m.store.CountActiveConnections,
	)
}

// GetRunningTimersCount retrieves the count of open timers.
// Uses cache-aside pattern via GetWithFetch for optimal performance.
func (m *CacheWrapper) GetRunningTimersCount(
	ctx context.Context,
	ttl time.Duration,
) (int64, error) {
	return m.getCountWithCache(
		ctx,
		"timers:running",
		ttl,
		m.store.CountRunningTimers,
	)
}

// getCountWithCache retrieves a count using the cache-aside pattern.
func (m *CacheWrapper) getCountWithCache(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func() (int64, error),
) (int64, error) {
	return m.cache.GetWithFetch(
		ctx,
		key,
		ttl,
		func(ctx context.Context, key string) (int64, error) {
			return fetchFunc()
		},
	)
}
