package http

import (
	"github.com/azampay/momo-checkout/internal/interfaces/http/handlers"
)

type allHandlers struct {
	checkout *handlers.CheckoutHandler
	webhook  *handlers.WebhookHandler
	health   *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	c.hdlrs = &allHandlers{
		checkout: handlers.NewCheckoutHandler(c.gateway, c.repos.notice, c.noticeTokens, c.log),
		webhook:  handlers.NewWebhookHandler(c.gateway, c.log),
		health: handlers.NewHealthHandler(map[string]handlers.HealthChecker{
			"database": c.pingDatabase,
			"redis":    c.pingRedis,
		}, c.log),
	}
}
