package http

import (
	"github.com/azampay/momo-checkout/internal/application/payment/usecases"
)

type allUseCases struct {
	acquireToken     *usecases.AcquireTokenUseCase
	listPartners     *usecases.ListPartnersUseCase
	openSession      *usecases.OpenSessionUseCase
	initiateCheckout *usecases.InitiateCheckoutUseCase
	reconcileWebhook *usecases.ReconcileWebhookUseCase
	orderReceived    *usecases.GetOrderReceivedUseCase
}

func (c *Container) initUseCases() {
	ucs := &allUseCases{}

	ucs.acquireToken = usecases.NewAcquireTokenUseCase(c.transport, c.log)
	ucs.listPartners = usecases.NewListPartnersUseCase(c.transport, c.log)
	ucs.openSession = usecases.NewOpenSessionUseCase(ucs.acquireToken, ucs.listPartners, c.log)

	ucs.initiateCheckout = usecases.NewInitiateCheckoutUseCase(
		c.repos.order,
		ucs.openSession,
		c.transport,
		c.repos.locker,
		c.repos.cart,
		c.cfg.Server.BaseURL,
		c.log.Named("checkout"),
	)
	ucs.reconcileWebhook = usecases.NewReconcileWebhookUseCase(
		c.repos.order,
		c.repos.locker,
		c.repos.txMgr,
		c.repos.stock,
		c.repos.notice,
		c.log.Named("webhook"),
	)
	ucs.orderReceived = usecases.NewGetOrderReceivedUseCase(c.repos.order, c.log)

	c.ucs = ucs
}
