package provider

import (
	"github.com/userdesk/internal/authflow"
	"github.com/userdesk/internal/authz"
	"github.com/userdesk/internal/cache"
	"github.com/userdesk/internal/config"
	"github.com/userdesk/internal/logger"
	"github.com/userdesk/internal/models"
	"github.com/userdesk/internal/queue"
	"github.com/userdesk/internal/ratelimit"
	"github.com/userdesk/internal/repository"
	"github.com/userdesk/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	UserRepo repository.UserRepository

	// Services
	AuthzService       *authz.Service
	TokenService       *service.TokenService
	EmailService       *service.EmailService
	VerificationMailer *service.VerificationMailer
	UserAuthService    *service.UserAuthService
	UserAdminService   *service.UserAdminService
	StatsCache         *cache.UserStatsCache

	// Middleware dependencies
	AuthRateLimiter ratelimit.Limiter
	AuthPipeline    *authflow.Pipeline
	ActivePipeline  *authflow.Pipeline
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          models.DB,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	// 3. 初始化中间件依赖
	c.initMiddleware()

	return c
}

func (c *Container) initRepositories() {
	c.UserRepo = repository.NewUserRepository(c.DB)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapStatusPolicies(); err != nil {
		logger.Errorw("provider_bootstrap_status_policies_failed", "error", err)
		panic(err)
	}

	c.StatsCache = cache.NewUserStatsCache()
	c.TokenService = service.NewTokenService(c.Config.JWT)
	c.EmailService = service.NewEmailService(&c.Config.Email, c.Config.App.Name)
	c.VerificationMailer = service.NewVerificationMailer(c.Config, c.EmailService, c.QueueClient)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo, c.StatsCache)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.TokenService, c.VerificationMailer)
	c.UserAuthService.OnUserChanged(c.UserAdminService.InvalidateStats)
}

func (c *Container) initMiddleware() {
	c.AuthRateLimiter = ratelimit.New(c.Config.Security.AuthRateLimit, cache.Client(), c.Config.Redis.Prefix)
	c.AuthPipeline = authflow.New(
		authflow.Authenticate(c.TokenService),
		authflow.Revalidate(c.UserRepo),
	)
	c.ActivePipeline = c.AuthPipeline.Then(authflow.RequireActive(c.AuthzService))
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	c.VerificationMailer.Wait()
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
