package bootstrap

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/peacepeacecreation/life-designer-sub003/internal/config"
	"github.com/peacepeacecreation/life-designer-sub003/internal/core"
	"github.com/peacepeacecreation/life-designer-sub003/internal/metrics"
	"github.com/peacepeacecreation/life-designer-sub003/internal/middleware"
	"github.com/peacepeacecreation/life-designer-sub003/internal/models"
	"github.com/peacepeacecreation/life-designer-sub003/internal/services"
	"github.com/peacepeacecreation/life-designer-sub003/internal/store"
	"github.com/peacepeacecreation/life-designer-sub003/internal/util"
)

// ginModeMap maps deployment mode to gin mode
var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

// setupRouter creates and configures the HTTP router
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	recorder core.Recorder,
	audit *services.AuditService,
	redisClient *redis.Client,
) *gin.Engine {
	gin.SetMode(ginModeMap[cfg.IsProduction])

	router := gin.New()

	// Order matters: metrics middleware first so it observes the full
	// request, including time spent in logging and recovery.
	router.Use(metrics.HTTPMetricsMiddleware(recorder))
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(util.IPMiddleware())

	setupSessionMiddleware(router, cfg)

	// Health check (no auth)
	router.GET("/health", createHealthCheckHandler(db))

	// Prometheus metrics (token protected when configured)
	setupMetricsEndpoint(router, cfg)

	// Scheduler trigger for due connections. Called by an external cron,
	// authenticated by a static bearer token instead of a session.
	router.POST("/sync/run-due",
		middleware.TokenAuthMiddleware(cfg.SchedulerToken),
		h.Sync.RunDue,
	)

	setupAPIRoutes(router, cfg, h, audit, redisClient)

	return router
}

// setupSessionMiddleware configures cookie-based sessions
func setupSessionMiddleware(router *gin.Engine, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("lifedesigner_session", sessionStore))
}

// setupMetricsEndpoint exposes /metrics when enabled
func setupMetricsEndpoint(router *gin.Engine, cfg *config.Config) {
	if !cfg.MetricsEnabled {
		return
	}

	if cfg.MetricsToken == "" {
		log.Println("WARNING: metrics endpoint enabled without METRICS_TOKEN, /metrics is public")
	}

	router.GET("/metrics",
		middleware.TokenAuthMiddleware(cfg.MetricsToken),
		gin.WrapH(promhttp.Handler()),
	)
}

// setupAPIRoutes registers the session-protected API surface
func setupAPIRoutes(
	router *gin.Engine,
	cfg *config.Config,
	h handlerSet,
	audit *services.AuditService,
	redisClient *redis.Client,
) {
	connectLimiter := createRateLimiter(cfg, cfg.ConnectRateLimit, audit, redisClient)
	syncLimiter := createRateLimiter(cfg, cfg.SyncRateLimit, audit, redisClient)

	api := router.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		// Connection management
		api.POST("/connections", connectLimiter, h.Connection.Connect)
		api.GET("/connections", h.Connection.GetConnection)
		api.DELETE("/connections/:id", h.Connection.Disconnect)
		api.GET("/projects", h.Connection.ListProjects)

		// Sync
		api.POST("/sync", syncLimiter, h.Sync.TriggerSync)
		api.GET("/sync/logs", h.Sync.ListSyncLogs)

		// Timer
		api.POST("/timer/start", h.Timer.StartTimer)
		api.POST("/timer/stop", h.Timer.StopTimer)
		api.GET("/timer/current", h.Timer.CurrentTimer)
		api.GET("/timer/weekly", h.Timer.WeeklyEntries)

		// Weekly snapshots
		api.GET("/snapshots", h.Snapshot.GetSnapshot)
		api.POST("/snapshots", h.Snapshot.CreateSnapshot)
		api.GET("/snapshots/check-changes", h.Snapshot.CheckChanges)
		api.POST("/snapshots/recalculate", h.Snapshot.Recalculate)
		api.POST("/snapshots/freeze", h.Snapshot.Freeze)

		// Goals
		api.GET("/goals", h.Goal.ListGoals)
		api.POST("/goals", h.Goal.CreateGoal)
		api.PUT("/goals/:id", h.Goal.UpdateGoal)
		api.DELETE("/goals/:id", h.Goal.DeleteGoal)

		// Recurring events
		api.GET("/recurring-events", h.Goal.ListRecurringEvents)
		api.POST("/recurring-events", h.Goal.CreateRecurringEvent)
		api.PUT("/recurring-events/:id", h.Goal.UpdateRecurringEvent)
		api.DELETE("/recurring-events/:id", h.Goal.DeleteRecurringEvent)
	}
}

// createRateLimiter builds a per-route rate limiter, or a no-op when
// rate limiting is disabled. Failures fall back to no limiting rather
// than blocking startup.
func createRateLimiter(
	cfg *config.Config,
	requestsPerMinute int,
	audit *services.AuditService,
	redisClient *redis.Client,
) gin.HandlerFunc {
	if !cfg.EnableRateLimit {
		return func(c *gin.Context) { c.Next() }
	}

	limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		CleanupInterval:   cfg.RateLimitCleanupInterval,
		StoreType:         middleware.RateLimitStoreType(cfg.RateLimitStore),
		RedisAddr:         cfg.RedisAddr,
		RedisPassword:     cfg.RedisPassword,
		RedisDB:           cfg.RedisDB,
		RedisClient:       redisClient,
		OnLimitReached: func(c *gin.Context) {
			audit.Log(c.Request.Context(), services.AuditLogEntry{
				EventType:   models.EventRateLimitExceeded,
				Severity:    models.SeverityWarning,
				ActorUserID: c.GetString("user_id"),
				ActorIP:     c.ClientIP(),
				Action:      "rate_limit_exceeded",
				Details: models.AuditDetails{
					"path":   c.FullPath(),
					"method": c.Request.Method,
				},
				Success: false,
			})
		},
	})
	if err != nil {
		log.Printf("WARNING: failed to create rate limiter, requests will not be limited: %v", err)
		return func(c *gin.Context) { c.Next() }
	}

	return limiter
}

// createHealthCheckHandler returns the health endpoint handler
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch err := db.Health(); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
	}
}
