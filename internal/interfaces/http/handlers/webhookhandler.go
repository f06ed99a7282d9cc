package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/azampay/momo-checkout/internal/application/payment/usecases"
	"github.com/azampay/momo-checkout/internal/shared/logger"
	"github.com/azampay/momo-checkout/internal/shared/utils"
)

// Maximum webhook body size (64KB)
const maxWebhookBodySize = 64 << 10

// WebhookHandler receives AzamPay transaction callbacks. Replies are plain
// text; the provider does not read the JSON envelope.
type WebhookHandler struct {
	reconciler webhookReconciler
	logger     logger.Interface
}

func NewWebhookHandler(reconciler webhookReconciler, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{
		reconciler: reconciler,
		logger:     logger,
	}
}

// Handle serves every method on /wc-api/wc_azampay_webhook so non-POST
// deliveries get the reconciler's 405 rather than a router 404.
func (h *WebhookHandler) Handle(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodySize)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Warnw("failed to read webhook body",
			"client_ip", c.ClientIP(),
			"error", err,
		)
		utils.PlainTextResponse(c, http.StatusBadRequest, "")
		return
	}

	resp := h.reconciler.Reconcile(c.Request.Context(), usecases.WebhookRequest{
		Method: c.Request.Method,
		Body:   body,
	})

	h.logger.Infow("webhook processed",
		"method", c.Request.Method,
		"status", resp.StatusCode,
		"outcome", resp.Outcome,
		"client_ip", c.ClientIP(),
	)

	utils.PlainTextResponse(c, resp.StatusCode, resp.Body)
}
