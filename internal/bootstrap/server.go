package bootstrap

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"

	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
	"github.com/peacepeacecreation/life-designer-sub003/internal/metrics"
)

const (
	serverReadTimeout     = 10 * time.Second
	serverWriteTimeout    = 30 * time.Second
	serverIdleTimeout     = 120 * time.Second
	serverShutdownTimeout = 10 * time.Second

	auditShutdownTimeout  = 5 * time.Second
	auditCleanupInterval  = 24 * time.Hour
	errorLogMinInterval   = time.Minute
	gaugeCacheTTLDivisor  = 2 // cache entries live half an update interval
)

// createHTTPServer creates the HTTP server with sane timeouts
func createHTTPServer(cfg *config.Config, router http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}
}

// startWithGracefulShutdown starts the server and background jobs and
// blocks until shutdown completes
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	app.addServerRunningJob(m)
	app.addServerShutdownJob(m)
	app.addAutoSyncSchedulerJob(m)
	app.addMetricsGaugeUpdateJob(m)
	app.addAuditLogCleanupJob(m)
	app.addAuditServiceShutdownJob(m)
	app.addRedisClientShutdownJob(m)
	app.addCacheShutdownJob(m)
	app.addDatabaseShutdownJob(m)

	logStartupInfo(app.Config)

	<-m.Done()
}

func (app *Application) addServerRunningJob(m *graceful.Manager) {
	m.AddRunningJob(func(ctx context.Context) error {
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func (app *Application) addServerShutdownJob(m *graceful.Manager) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down HTTP server...")
		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		return app.Server.Shutdown(ctx)
	})
}

// addAutoSyncSchedulerJob runs the in-process sync scheduler. Skipped
// when auto sync is driven by an external cron hitting /sync/run-due.
func (app *Application) addAutoSyncSchedulerJob(m *graceful.Manager) {
	if !app.Config.AutoSyncEnabled {
		return
	}

	interval := app.Config.SyncSchedulerInterval
	limit := app.Config.SyncBatchLimit

	m.AddRunningJob(func(ctx context.Context) error {
		log.Printf("Auto-sync scheduler started (interval: %s, batch limit: %d)", interval, limit)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("Auto-sync scheduler stopped")
				return nil
			case <-ticker.C:
				result, err := app.SyncService.SyncDueConnections(ctx, limit)
				if err != nil {
					log.Printf("Auto-sync pass failed: %v", err)
					continue
				}
				if result.Synced > 0 || result.Failed > 0 {
					log.Printf(
						"Auto-sync pass: %d synced, %d failed, %d skipped",
						result.Synced, result.Failed, result.Skipped,
					)
				}
			}
		}
	})
}

// addMetricsGaugeUpdateJob periodically refreshes gauge metrics from
// the database through the metrics cache
func (app *Application) addMetricsGaugeUpdateJob(m *graceful.Manager) {
	if !app.Config.MetricsEnabled || !app.Config.MetricsGaugeUpdateEnabled {
		return
	}

	interval := app.Config.MetricsGaugeUpdateInterval
	cacheWrapper := metrics.NewCacheWrapper(app.DB, app.MetricsCache)
	logger := newErrorLogger(errorLogMinInterval)

	m.AddRunningJob(func(ctx context.Context) error {
		log.Printf("Metrics gauge updater started (interval: %s)", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				updateGaugeMetricsWithCache(ctx, app.MetricsRecorder, cacheWrapper, interval, logger)
			}
		}
	})
}

// updateGaugeMetricsWithCache refreshes both gauges. A failed read
// keeps the previous gauge value rather than zeroing it.
func updateGaugeMetricsWithCache(
	ctx context.Context,
	recorder core.Recorder,
	cacheWrapper *metrics.CacheWrapper,
	interval time.Duration,
	logger *errorLogger,
) {
	ttl := interval / gaugeCacheTTLDivisor

	if count, err := cacheWrapper.GetActiveConnectionsCount(ctx, ttl); err != nil {
		recorder.RecordDatabaseQueryError("count_active_connections")
		logger.log("count_active_connections", err)
	} else {
		recorder.SetActiveConnectionsCount(int(count))
	}

	if count, err := cacheWrapper.GetRunningTimersCount(ctx, ttl); err != nil {
		recorder.RecordDatabaseQueryError("count_running_timers")
		logger.log("count_running_timers", err)
	} else {
		recorder.SetRunningTimersCount(int(count))
	}
}

// addAuditLogCleanupJob deletes audit logs older than the retention
// window once a day
func (app *Application) addAuditLogCleanupJob(m *graceful.Manager) {
	retentionDays := app.Config.AuditLogRetention
	if !app.Config.EnableAuditLogging || retentionDays <= 0 {
		return
	}

	retention := time.Duration(retentionDays) * 24 * time.Hour

	m.AddRunningJob(func(ctx context.Context) error {
		log.Printf("Audit log cleanup started (retention: %d days)", retentionDays)
		ticker := time.NewTicker(auditCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				deleted, err := app.AuditService.CleanupOldLogs(retention)
				if err != nil {
					log.Printf("Audit log cleanup failed: %v", err)
					continue
				}
				if deleted > 0 {
					log.Printf("Audit log cleanup: deleted %d entries", deleted)
				}
			}
		}
	})
}

// addAuditServiceShutdownJob flushes buffered audit logs on shutdown
func (app *Application) addAuditServiceShutdownJob(m *graceful.Manager) {
	m.AddShutdownJob(func() error {
		log.Println("Flushing audit logs...")
		ctx, cancel := context.WithTimeout(context.Background(), auditShutdownTimeout)
		defer cancel()
		return app.AuditService.Shutdown(ctx)
	})
}

func (app *Application) addRedisClientShutdownJob(m *graceful.Manager) {
	if app.RateLimitRedisClient == nil {
		return
	}
	closeRedisClient(m, app.RateLimitRedisClient)
}

func closeRedisClient(m *graceful.Manager, client *redis.Client) {
	m.AddShutdownJob(func() error {
		log.Println("Closing Redis client...")
		return client.Close()
	})
}

func (app *Application) addCacheShutdownJob(m *graceful.Manager) {
	m.AddShutdownJob(func() error {
		return app.MetricsCache.Close()
	})
}

func (app *Application) addDatabaseShutdownJob(m *graceful.Manager) {
	m.AddShutdownJob(func() error {
		log.Println("Closing database connection...")
		return app.DB.Close()
	})
}

// logStartupInfo prints the effective configuration on boot
func logStartupInfo(cfg *config.Config) {
	log.Printf("Server listening on %s", cfg.ServerAddr)
	log.Printf("Base URL: %s", cfg.BaseURL)
	log.Printf("Database driver: %s", cfg.DatabaseDriver)
	if cfg.AutoSyncEnabled {
		log.Printf("Auto-sync: enabled (every %s)", cfg.SyncSchedulerInterval)
	} else {
		log.Println("Auto-sync: disabled (external scheduler expected)")
	}
	if cfg.EnableRateLimit {
		log.Printf("Rate limiting: enabled (store: %s)", cfg.RateLimitStore)
	}
}

// errorLogger rate-limits repeated background job error logging so a
// flapping dependency does not flood the log
type errorLogger struct {
	minInterval time.Duration
	lastLogged  map[string]time.Time
}

func newErrorLogger(minInterval time.Duration) *errorLogger {
	return &errorLogger{
		minInterval: minInterval,
		lastLogged:  make(map[string]time.Time),
	}
}

func (l *errorLogger) log(what string, err error) {
	now := time.Now()
	if last, ok := l.lastLogged[what]; ok && now.Sub(last) < l.minInterval {
		return
	}
	l.lastLogged[what] = now
	log.Printf("Failed to update %s: %v", what, err)
}
