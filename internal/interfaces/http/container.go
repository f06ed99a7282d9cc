package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/azampay/momo-checkout/internal/application/payment"
	"github.com/azampay/momo-checkout/internal/infrastructure/auth"
	"github.com/azampay/momo-checkout/internal/infrastructure/config"
	infraPayment "github.com/azampay/momo-checkout/internal/infrastructure/payment"
	"github.com/azampay/momo-checkout/internal/infrastructure/ratelimit"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases and
// handlers, and wires them together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Provider transport
	transport *infraPayment.HTTPTransport

	// Repositories and stores
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Gateway facade
	gateway *payment.AzamPayGateway

	// Handlers
	hdlrs *allHandlers

	rateLimiter  ratelimit.RateLimiter
	noticeTokens *auth.NoticeTokenService
}

// NewContainer builds every component in dependency order.
func NewContainer(engine *gin.Engine, db *gorm.DB, cfg *config.Config, log logger.Interface, redisClient *redis.Client) *Container {
	c := &Container{
		engine: engine,
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	c.initInfrastructure()
	c.initRepositories()
	c.initUseCases()
	c.initGateway()
	c.initHandlers()

	return c
}

func (c *Container) initInfrastructure() {
	c.transport = infraPayment.NewHTTPTransport(
		c.cfg.AzamPay.RequestTimeout,
		c.cfg.AzamPay.Breaker,
		c.log.Named("azampay"),
	)
	c.rateLimiter = ratelimit.NewRedisRateLimiter(c.redis)
	c.noticeTokens = auth.NewNoticeTokenService(c.cfg.Server.NoticeSecret)
}

func (c *Container) initGateway() {
	c.gateway = payment.NewAzamPayGateway(
		GatewaySettings(c.cfg.AzamPay),
		c.cfg.AzamPay.StoreCurrency,
		c.ucs.openSession,
		c.ucs.initiateCheckout,
		c.ucs.reconcileWebhook,
		c.ucs.orderReceived,
		c.log,
	)
}

// Gateway exposes the payment facade, e.g. for startup diagnostics.
func (c *Container) Gateway() *payment.AzamPayGateway {
	return c.gateway
}

func (c *Container) pingDatabase(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Container) pingRedis(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}
