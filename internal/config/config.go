package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Sync type constants
const (
	SyncTypeFull        = "full"
	SyncTypeIncremental = "incremental"
)

// Rate limit store constants
const (
	RateLimitStoreMemory = "memory"
	RateLimitStoreRedis  = "redis"
)

// MinEncryptionKeyLength is the minimum accepted length for the
// credential encryption key.
const MinEncryptionKeyLength = 32

// MaxEntryPageSize is the largest page size the external time-tracking
// API accepts for time-entry listings.
const MaxEntryPageSize = 500

type Config struct {
	// Server settings
	ServerAddr   string
	BaseURL      string
	IsProduction bool

	// Session settings
	SessionSecret string
	SessionMaxAge int // seconds

	// Database
	DatabaseDriver string // "sqlite" or "postgres"
	DatabaseDSN    string // Database connection string (DSN or path)

	// Credential encryption
	EncryptionKey string

	// External time-tracking API (Clockify)
	ClockifyBaseURL       string
	ClockifyTimeout       time.Duration
	ClockifyMaxRetries    int // 0 = no retries; a failed call aborts the operation
	ClockifyRetryDelay    time.Duration
	ClockifyMaxRetryDelay time.Duration

	// Sync engine
	EntryPageSize           int // capped at MaxEntryPageSize
	FullSyncLookbackDays    int
	IncrementalFallbackDays int

	// Auto-sync scheduler
	AutoSyncEnabled       bool
	SyncSchedulerInterval time.Duration
	SyncBatchLimit        int    // connections per scheduler pass
	SchedulerToken        string // bearer token for the external cron trigger

	// Metrics
	MetricsEnabled             bool
	MetricsToken               string
	MetricsGaugeUpdateEnabled  bool
	MetricsGaugeUpdateInterval time.Duration

	// Rate limiting
	EnableRateLimit          bool
	RateLimitStore           string // "memory" or "redis"
	ConnectRateLimit         int    // requests per minute
	SyncRateLimit            int    // requests per minute
	RateLimitCleanupInterval time.Duration

	// Redis (rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Audit logging
	EnableAuditLogging bool
	AuditLogBufferSize int
	AuditLogRetention  int // days, 0 disables cleanup
}

func Load() *Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	// Determine database driver and DSN
	driver := getEnv("DATABASE_DRIVER", "sqlite")
	var dsn string
	if driver == "sqlite" {
		dsn = getEnv("DATABASE_DSN", getEnv("DATABASE_PATH", "lifedesigner.db"))
	} else {
		dsn = getEnv("DATABASE_DSN", "")
	}

	return &Config{
		ServerAddr:   getEnv("SERVER_ADDR", ":8080"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		IsProduction: getEnvBool("PRODUCTION", false),

		SessionSecret: getEnv("SESSION_SECRET", "session-secret-change-in-production"),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 3600),

		DatabaseDriver: driver,
		DatabaseDSN:    dsn,

		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),

		ClockifyBaseURL:       getEnv("CLOCKIFY_BASE_URL", "https://api.clockify.me/api/v1"),
		ClockifyTimeout:       getEnvDuration("CLOCKIFY_TIMEOUT", 15*time.Second),
		ClockifyMaxRetries:    getEnvInt("CLOCKIFY_MAX_RETRIES", 0),
		ClockifyRetryDelay:    getEnvDuration("CLOCKIFY_RETRY_DELAY", 1*time.Second),
		ClockifyMaxRetryDelay: getEnvDuration("CLOCKIFY_MAX_RETRY_DELAY", 10*time.Second),

		EntryPageSize:           getEnvInt("SYNC_ENTRY_PAGE_SIZE", MaxEntryPageSize),
		FullSyncLookbackDays:    getEnvInt("SYNC_FULL_LOOKBACK_DAYS", 90),
		IncrementalFallbackDays: getEnvInt("SYNC_INCREMENTAL_FALLBACK_DAYS", 7),

		AutoSyncEnabled:       getEnvBool("AUTO_SYNC_ENABLED", false),
		SyncSchedulerInterval: getEnvDuration("SYNC_SCHEDULER_INTERVAL", 15*time.Minute),
		SyncBatchLimit:        getEnvInt("SYNC_BATCH_LIMIT", 10),
		SchedulerToken:        getEnv("SCHEDULER_TOKEN", ""),

		MetricsEnabled:             getEnvBool("METRICS_ENABLED", false),
		MetricsToken:               getEnv("METRICS_TOKEN", ""),
		MetricsGaugeUpdateEnabled:  getEnvBool("METRICS_GAUGE_UPDATE_ENABLED", true),
		MetricsGaugeUpdateInterval: getEnvDuration("METRICS_GAUGE_UPDATE_INTERVAL", 30*time.Second),

		EnableRateLimit:          getEnvBool("ENABLE_RATE_LIMIT", false),
		RateLimitStore:           getEnv("RATE_LIMIT_STORE", RateLimitStoreMemory),
		ConnectRateLimit:         getEnvInt("CONNECT_RATE_LIMIT", 10),
		SyncRateLimit:            getEnvInt("SYNC_RATE_LIMIT", 30),
		RateLimitCleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EnableAuditLogging: getEnvBool("ENABLE_AUDIT_LOGGING", true),
		AuditLogBufferSize: getEnvInt("AUDIT_LOG_BUFFER_SIZE", 1000),
		AuditLogRetention:  getEnvInt("AUDIT_LOG_RETENTION_DAYS", 90),
	}
}

// Validate checks that the configuration is usable. Encryption key
// problems are fatal here rather than at first use, so a misconfigured
// deployment fails on boot instead of on the first connect request.
func (c *Config) Validate() error {
	if c.EncryptionKey == "" {
		return errors.New("ENCRYPTION_KEY is required")
	}
	if len(c.EncryptionKey) < MinEncryptionKeyLength {
		return fmt.Errorf(
			"ENCRYPTION_KEY must be at least %d characters (got %d)",
			MinEncryptionKeyLength, len(c.EncryptionKey),
		)
	}
	if c.DatabaseDriver == "postgres" && c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required when DATABASE_DRIVER=postgres")
	}
	if c.EntryPageSize < 1 || c.EntryPageSize > MaxEntryPageSize {
		return fmt.Errorf(
			"SYNC_ENTRY_PAGE_SIZE must be between 1 and %d (got %d)",
			MaxEntryPageSize, c.EntryPageSize,
		)
	}
	if c.FullSyncLookbackDays < 1 {
		return fmt.Errorf("SYNC_FULL_LOOKBACK_DAYS must be positive (got %d)", c.FullSyncLookbackDays)
	}
	if c.IncrementalFallbackDays < 1 {
		return fmt.Errorf(
			"SYNC_INCREMENTAL_FALLBACK_DAYS must be positive (got %d)",
			c.IncrementalFallbackDays,
		)
	}
	if c.SyncBatchLimit < 1 {
		return fmt.Errorf("SYNC_BATCH_LIMIT must be positive (got %d)", c.SyncBatchLimit)
	}
	if c.RateLimitStore != RateLimitStoreMemory && c.RateLimitStore != RateLimitStoreRedis {
		return fmt.Errorf(
			"invalid RATE_LIMIT_STORE: %s (must be: memory, redis)",
			c.RateLimitStore,
		)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
