// Package payment exposes the AzamPay checkout capabilities to the transport
// layer. Every call resolves a fresh settings snapshot; nothing is cached
// between requests.
package payment

import (
	"context"

	"github.com/azampay/momo-checkout/internal/application/payment/usecases"
	"github.com/azampay/momo-checkout/internal/domain/gateway"
	apperrors "github.com/azampay/momo-checkout/internal/shared/errors"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

// Gateway is the payment method as seen by checkout and the webhook endpoint.
type Gateway interface {
	Snapshot() gateway.Snapshot
	OpenSession(ctx context.Context) *usecases.Session
	ListPartners(ctx context.Context) ([]gateway.Partner, error)
	Validate(ctx context.Context, network, phoneNumber string) (gateway.Partner, error)
	Initiate(ctx context.Context, cmd usecases.InitiateCheckoutCommand) (*usecases.CheckoutResult, error)
	Reconcile(ctx context.Context, req usecases.WebhookRequest) usecases.WebhookResponse
	OrderReceived(ctx context.Context, orderID uint) (*usecases.OrderReceivedView, error)
}

// AzamPayGateway implements Gateway on top of the payment use cases.
type AzamPayGateway struct {
	settings      gateway.Settings
	storeCurrency string

	openSession   *usecases.OpenSessionUseCase
	initiate      *usecases.InitiateCheckoutUseCase
	reconcile     *usecases.ReconcileWebhookUseCase
	orderReceived *usecases.GetOrderReceivedUseCase
	logger        logger.Interface
}

func NewAzamPayGateway(
	settings gateway.Settings,
	storeCurrency string,
	openSession *usecases.OpenSessionUseCase,
	initiate *usecases.InitiateCheckoutUseCase,
	reconcile *usecases.ReconcileWebhookUseCase,
	orderReceived *usecases.GetOrderReceivedUseCase,
	logger logger.Interface,
) *AzamPayGateway {
	return &AzamPayGateway{
		settings:      settings,
		storeCurrency: storeCurrency,
		openSession:   openSession,
		initiate:      initiate,
		reconcile:     reconcile,
		orderReceived: orderReceived,
		logger:        logger,
	}
}

func (g *AzamPayGateway) Snapshot() gateway.Snapshot {
	return gateway.Resolve(g.settings, g.storeCurrency)
}

func (g *AzamPayGateway) OpenSession(ctx context.Context) *usecases.Session {
	return g.openSession.Execute(ctx, g.Snapshot())
}

// ListPartners returns the partners the shopper may choose from.
func (g *AzamPayGateway) ListPartners(ctx context.Context) ([]gateway.Partner, error) {
	session := g.OpenSession(ctx)
	if err := sessionErr(session); err != nil {
		return nil, err
	}
	return session.Allowed, nil
}

// Validate checks the shopper's payment fields against a live partner list.
func (g *AzamPayGateway) Validate(ctx context.Context, network, phoneNumber string) (gateway.Partner, error) {
	session := g.OpenSession(ctx)
	if err := sessionErr(session); err != nil {
		return gateway.Partner{}, err
	}

	partner, err := gateway.ValidatePaymentFields(network, phoneNumber, session.Allowed)
	if err != nil {
		g.logger.Debugw("payment fields rejected", "network", network, "error", err)
		return gateway.Partner{}, apperrors.NewValidationError(err.Error())
	}
	return partner, nil
}

func (g *AzamPayGateway) Initiate(ctx context.Context, cmd usecases.InitiateCheckoutCommand) (*usecases.CheckoutResult, error) {
	return g.initiate.Execute(ctx, g.Snapshot(), cmd)
}

func (g *AzamPayGateway) Reconcile(ctx context.Context, req usecases.WebhookRequest) usecases.WebhookResponse {
	return g.reconcile.Execute(ctx, g.Snapshot(), req)
}

func (g *AzamPayGateway) OrderReceived(ctx context.Context, orderID uint) (*usecases.OrderReceivedView, error) {
	return g.orderReceived.Execute(ctx, g.Snapshot(), orderID)
}

func sessionErr(s *usecases.Session) error {
	if err := s.Token.Err(); err != nil {
		return err
	}
	return s.Partners.Err()
}
