package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge/internal/infrastructure/config"
	"github.com/studyforge/studyforge/internal/infrastructure/metrics"
	"github.com/studyforge/studyforge/internal/infrastructure/permission"
	"github.com/studyforge/studyforge/internal/infrastructure/ratelimit"
	"github.com/studyforge/studyforge/internal/infrastructure/scheduler"
	"github.com/studyforge/studyforge/internal/interfaces/http/handlers"
	"github.com/studyforge/studyforge/internal/interfaces/http/middleware"
	"github.com/studyforge/studyforge/internal/shared/logger"
)

// redisPingTimeout bounds the start-up connectivity check.
const redisPingTimeout = 5 * time.Second

// Container holds the infrastructure, services, handlers and background
// jobs of the HTTP server, and tears them down in Shutdown.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	metrics  *metrics.Metrics
	services *Services
	enforcer *permission.Enforcer

	// Handlers
	authHandler       *handlers.AuthHandler
	planHandler       *handlers.PlanHandler
	generationHandler *handlers.GenerationHandler
	accountHandler    *handlers.AccountHandler
	adminHandler      *handlers.AdminHandler

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *ratelimit.RedisRateLimiter // nil when redis is disabled

	expiryScheduler *scheduler.ExpiryScheduler // nil when the sweep is disabled
}

// NewContainer wires every component of the server. It fails when a
// required collaborator (Redis when enabled, the policy store) is unusable.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:  gin.New(),
		db:      db,
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
	}

	if err := c.initInfrastructure(); err != nil {
		c.Shutdown()
		return nil, err
	}

	services, err := NewServices(db, cfg, log, c.metrics)
	if err != nil {
		c.Shutdown()
		return nil, err
	}
	c.services = services

	c.initHandlers()
	c.initBackgroundJobs()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	enforcer, err := permission.NewEnforcer(c.db, c.log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := enforcer.Seed(permission.DefaultPolicies); err != nil {
		return fmt.Errorf("failed to seed permission policies: %w", err)
	}
	c.enforcer = enforcer

	if !c.cfg.Redis.Enabled {
		c.log.Infow("redis disabled, generation routes are not rate limited")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis at %s: %w", c.cfg.Redis.GetAddr(), err)
	}
	c.log.Infow("redis connection established", "addr", c.cfg.Redis.GetAddr())

	c.redis = client
	c.rateLimiter = ratelimit.NewRedisRateLimiter(client, c.cfg.RateLimit.Requests, c.cfg.RateLimit.Window())
	return nil
}

func (c *Container) initHandlers() {
	s := c.services

	c.authMiddleware = middleware.NewAuthMiddleware(s.JWT, c.log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log)

	c.authHandler = handlers.NewAuthHandler(s.Accounts, c.log)
	c.planHandler = handlers.NewPlanHandler(s.Catalog, c.log)
	c.generationHandler = handlers.NewGenerationHandler(s.Generation, c.log)
	c.accountHandler = handlers.NewAccountHandler(s.Accounts, s.Generation, c.log)
	c.adminHandler = handlers.NewAdminHandler(s.Accounts, c.log)
}

func (c *Container) initBackgroundJobs() {
	sweep := c.cfg.Subscription.ExpirySweep
	if !sweep.Enabled {
		return
	}
	interval := time.Duration(sweep.IntervalMinutes) * time.Minute
	c.expiryScheduler = scheduler.NewExpiryScheduler(c.services.Lifecycle, interval, c.log)
}

// StartBackgroundJobs launches the optional expiry sweep.
func (c *Container) StartBackgroundJobs(ctx context.Context) {
	if c.expiryScheduler != nil {
		c.expiryScheduler.Start(ctx)
	}
}

// Shutdown stops background jobs and closes Redis. The database is owned by
// the caller.
func (c *Container) Shutdown() {
	if c.expiryScheduler != nil {
		c.expiryScheduler.Stop()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
