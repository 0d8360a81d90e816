package bootstrap

import (
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/peacepeacecreation/life-designer-sub003/internal/cache"
	"github.com/peacepeacecreation/life-designer-sub003/internal/client"
	"github.com/peacepeacecreation/life-designer-sub003/internal/clockify"
	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
	"github.com/peacepeacecreation/life-designer-sub003/internal/metrics"
	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
)

// initializeMetrics sets up the metrics recorder
func initializeMetrics(cfg *config.Config) core.Recorder {
	recorder := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Metrics enabled")
	}
	return recorder
}

// initializeMetricsCache creates the cache backing gauge updates
func initializeMetricsCache(cfg *config.Config) core.Cache[int64] {
	return cache.NewMemoryCache[int64]()
}

// initializeRateLimitRedisClient creates the shared Redis client for
// rate limiting. Returns nil when rate limiting does not use Redis, so
// no connection is opened for deployments that never need one.
func initializeRateLimitRedisClient(cfg *config.Config) (*redis.Client, error) {
	if !cfg.EnableRateLimit || cfg.RateLimitStore != config.RateLimitStoreRedis {
		return nil, nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}), nil
}

// createClientFactory builds the factory used to construct external
// time-tracking clients per API key. Every client carries the key
// header automatically and retries per the configured policy.
func createClientFactory(cfg *config.Config) services.ClientFactory {
	return func(apiKey string) (services.TimeTracker, error) {
		httpClient, err := client.CreateAPIClient(
			apiKey,
			cfg.ClockifyTimeout,
			cfg.ClockifyMaxRetries,
			cfg.ClockifyRetryDelay,
			cfg.ClockifyMaxRetryDelay,
		)
		if err != nil {
			return nil, err
		}
		return clockify.New(cfg.ClockifyBaseURL, httpClient), nil
	}
}
