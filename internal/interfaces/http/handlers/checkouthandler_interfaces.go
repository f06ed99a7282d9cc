package handlers

import (
	"context"

	"github.com/azampay/momo-checkout/internal/application/payment/usecases"
	"github.com/azampay/momo-checkout/internal/domain/gateway"
)

// Service interfaces for CheckoutHandler and WebhookHandler - enable unit testing with mocks.

type checkoutGateway interface {
	OpenSession(ctx context.Context) *usecases.Session
	ListPartners(ctx context.Context) ([]gateway.Partner, error)
	Validate(ctx context.Context, network, phoneNumber string) (gateway.Partner, error)
	Initiate(ctx context.Context, cmd usecases.InitiateCheckoutCommand) (*usecases.CheckoutResult, error)
	OrderReceived(ctx context.Context, orderID uint) (*usecases.OrderReceivedView, error)
}

type noticeDrainer interface {
	Drain(ctx context.Context, customerID uint) ([]usecases.Notice, error)
}

type noticeTokens interface {
	Generate(customerID uint) string
	Verify(token string) (uint, error)
}

type webhookReconciler interface {
	Reconcile(ctx context.Context, req usecases.WebhookRequest) usecases.WebhookResponse
}
