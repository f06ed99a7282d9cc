package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/azampay/momo-checkout/internal/infrastructure/config"
	"github.com/azampay/momo-checkout/internal/interfaces/http/middleware"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

// WebhookPath is the callback URL registered with AzamPay.
const WebhookPath = "/wc-api/wc_azampay_webhook"

// Router represents the HTTP router configuration
type Router struct {
	engine    *gin.Engine
	container *Container
}

func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()
	return &Router{
		engine:    engine,
		container: NewContainer(engine, db, cfg, log, redisClient),
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	c := r.container

	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(c.log))
	r.engine.Use(middleware.Recovery(c.log))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/healthz", c.hdlrs.health.Health)
	r.engine.Any(WebhookPath, c.hdlrs.webhook.Handle)

	r.setupCheckoutRoutes()
}

func (r *Router) setupCheckoutRoutes() {
	c := r.container

	checkout := r.engine.Group("/checkout")
	checkout.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	{
		checkout.GET("/payment-fields", c.hdlrs.checkout.PaymentFields)
		checkout.GET("/partners", c.hdlrs.checkout.Partners)
		checkout.POST("/validate", c.hdlrs.checkout.ValidateFields)
		checkout.POST("/orders/:order_id/pay",
			middleware.CheckoutRateLimit(c.rateLimiter, c.cfg.RateLimit, c.log),
			c.hdlrs.checkout.Pay,
		)
		checkout.GET("/order-received/:order_id", c.hdlrs.checkout.OrderReceived)
		checkout.GET("/notices", c.hdlrs.checkout.Notices)

		// Preflight requests are answered by the CORS middleware.
		checkout.OPTIONS("/*path", func(*gin.Context) {})
	}
}

// GetEngine returns the gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Container returns the wired components.
func (r *Router) Container() *Container {
	return r.container
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
