package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-sync/cmd/usersync/infrastructure"
	"user-sync/internal/adapter/cache"
	journaldb "user-sync/internal/adapter/db/journal"
	ginhandler "user-sync/internal/adapter/gin/handler"
	"user-sync/internal/adapter/gin/middleware"
	"user-sync/internal/adapter/metrics"
	"user-sync/internal/adapter/remote/recorded"
	"user-sync/internal/config"
	"user-sync/internal/usecase/user"
	redisclient "user-sync/pkg/redis"
)

var (
	_ recorded.JournalWriter   = (*journaldb.JournalRepo)(nil)
	_ ginhandler.JournalReader = (*journaldb.JournalRepo)(nil)
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client

	Journal   *journaldb.JournalRepo
	Store     *user.Store
	Mirror    *cache.RedisUserMirror
	Publisher *cache.Publisher

	RateLimiter    *middleware.RateLimiter
	UserHandler    *ginhandler.UserHandler
	JournalHandler *ginhandler.JournalHandler

	unsubscribe []func()
}

// NewContainer creates and initializes all application dependencies.
// The database and Redis are only opened when their features are enabled.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	// Journal database
	var journalWriter recorded.JournalWriter
	var journalReader ginhandler.JournalReader
	if cfg.App.JournalEnabled {
		db, err := infrastructure.NewDatabase(cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		c.Journal = journaldb.NewJournalRepo(db, l.Named("journal"))
		journalWriter = c.Journal
		journalReader = c.Journal
	}

	// Redis client
	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
	}

	// Remote service and store
	client := infrastructure.NewUpstreamClient(cfg, l)
	remote := recorded.NewService(client, journalWriter, l)
	c.Store = user.NewStore(remote, l.Named("store"))
	c.subscribe(metrics.StoreObserver())

	// Snapshot mirror
	if c.RedisClient != nil {
		c.Mirror = cache.NewRedisUserMirror(c.RedisClient.Client, cfg.Redis.CacheTTL(), l.Named("mirror"))
		c.Publisher = cache.NewPublisher(c.Mirror, l.Named("mirror"))
		c.subscribe(c.Publisher.Observe)

		// Rate limiter
		c.RateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				Enabled:           cfg.RateLimit.Enabled,
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
			},
			l.Named("ratelimit"),
		)
	} else if cfg.RateLimit.Enabled {
		l.Warn("rate limiting requires Redis, continuing without it")
	}

	// Gin handlers
	c.UserHandler = ginhandler.NewUserHandler(c.Store, l)
	c.JournalHandler = ginhandler.NewJournalHandler(journalReader, l)

	return c, nil
}

func (c *Container) subscribe(fn user.Observer) {
	c.unsubscribe = append(c.unsubscribe, c.Store.Subscribe(fn))
}

// FlushMirror writes the newest pending snapshot to Redis, if any. One-shot
// commands call it before exiting because they do not run the publisher loop.
func (c *Container) FlushMirror(ctx context.Context) {
	if c.Publisher == nil {
		return
	}
	done, cancel := context.WithCancel(ctx)
	cancel()
	_ = c.Publisher.Run(done)
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil

	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
