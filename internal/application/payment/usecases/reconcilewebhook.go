package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/azampay/momo-checkout/internal/domain/gateway"
	"github.com/azampay/momo-checkout/internal/domain/order"
	vo "github.com/azampay/momo-checkout/internal/domain/order/valueobjects"
	apperrors "github.com/azampay/momo-checkout/internal/shared/errors"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

const (
	msgPaymentSuccessful = "Payment via AzamPay successful (Transaction Reference: %s)"
	msgPaymentDeclined   = "Payment was declined by AzamPay."

	msgUnderpaidCustomer = "Thank you for shopping with us.\n" +
		"Your payment transaction was successful, but the amount paid is not the same as the total order amount.\n" +
		"Your order is currently on hold.\n" +
		"Kindly contact us for more information regarding your order and payment status."

	msgUnderpaidAdmin = "Look into this order\n" +
		"This order is currently on hold.\n" +
		"Reason: Amount paid is less than the total order amount.\n" +
		"Amount Paid was %s (%s) while the total order amount is %s (%s)\n" +
		"AzamPay Transaction Reference: %s"
)

// Outcome classifies what a webhook delivery did to the order.
type Outcome string

const (
	OutcomeRejected         Outcome = "rejected"
	OutcomeAlreadyProcessed Outcome = "already_processed"
	OutcomePaid             Outcome = "paid"
	OutcomeUnderpaid        Outcome = "underpaid"
	OutcomeDeclined         Outcome = "declined"
	OutcomeError            Outcome = "error"
)

type WebhookRequest struct {
	Method string
	Body   []byte
}

// WebhookResponse is the plain-text reply returned to the provider.
type WebhookResponse struct {
	StatusCode int
	Body       string
	Outcome    Outcome
}

func webhookReply(code int, body string, outcome Outcome) WebhookResponse {
	return WebhookResponse{StatusCode: code, Body: body, Outcome: outcome}
}

func webhookRejected(err error) WebhookResponse {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return webhookReply(appErr.Code, appErr.Message, OutcomeRejected)
	}
	return webhookReply(http.StatusBadRequest, err.Error(), OutcomeRejected)
}

type ReconcileWebhookUseCase struct {
	orderRepo order.Repository
	locker    OrderLocker
	tx        Transactor
	stock     StockReducer
	notices   NoticeSink
	logger    logger.Interface
}

func NewReconcileWebhookUseCase(
	orderRepo order.Repository,
	locker OrderLocker,
	tx Transactor,
	stock StockReducer,
	notices NoticeSink,
	logger logger.Interface,
) *ReconcileWebhookUseCase {
	return &ReconcileWebhookUseCase{
		orderRepo: orderRepo,
		locker:    locker,
		tx:        tx,
		stock:     stock,
		notices:   notices,
		logger:    logger,
	}
}

// Execute applies one payment result callback to its order. Validation
// failures never touch the order. Deliveries for orders that are already
// resolved are acknowledged without mutation so the provider stops retrying.
func (uc *ReconcileWebhookUseCase) Execute(ctx context.Context, snap gateway.Snapshot, req WebhookRequest) WebhookResponse {
	if !strings.EqualFold(req.Method, http.MethodPost) {
		return webhookReply(http.StatusMethodNotAllowed, "", OutcomeRejected)
	}

	payload, err := ParseWebhookPayload(req.Body)
	if err != nil {
		uc.logger.Warnw("rejected webhook payload", "error", err)
		return webhookRejected(err)
	}

	if !payload.HasOrderRef() {
		return webhookRejected(apperrors.NewWebhookValidationError(MsgOrderIDMissing))
	}
	orderID, ok := payload.OrderID()
	if !ok {
		return webhookRejected(apperrors.NewWebhookValidationError(MsgOrderMissing))
	}

	release, err := uc.locker.Lock(ctx, orderID)
	if err != nil {
		uc.logger.Warnw("failed to lock order for webhook", "order_id", orderID, "error", err)
		return webhookReply(http.StatusServiceUnavailable, MsgOrderBusy, OutcomeError)
	}
	defer release()

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		resp, retry := uc.reconcile(ctx, snap, orderID, payload)
		if !retry {
			return resp
		}
		uc.logger.Infow("order changed during webhook, re-evaluating",
			"order_id", orderID,
			"attempt", attempt+1,
		)
	}

	uc.logger.Errorw("webhook lost repeated update races", "order_id", orderID)
	return webhookReply(http.StatusInternalServerError, MsgOrderNotUpdated, OutcomeError)
}

// reconcile evaluates the payload against freshly loaded state. retry is true
// when the save lost a version race and nothing was applied.
func (uc *ReconcileWebhookUseCase) reconcile(
	ctx context.Context,
	snap gateway.Snapshot,
	orderID uint,
	payload *WebhookPayload,
) (resp WebhookResponse, retry bool) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return webhookRejected(apperrors.NewWebhookValidationError(MsgOrderMissing)), false
		}
		uc.logger.Errorw("failed to load order for webhook", "order_id", orderID, "error", err)
		return webhookReply(http.StatusInternalServerError, MsgOrderNotUpdated, OutcomeError), false
	}

	if o.IsResolved() {
		uc.logger.Infow("webhook for resolved order acknowledged",
			"order_id", orderID,
			"status", o.Status(),
			"reference", payload.Reference,
		)
		return webhookReply(http.StatusOK, MsgAlreadyProcessed, OutcomeAlreadyProcessed), false
	}

	amount, err := payload.PaidAmount()
	if err != nil {
		return webhookRejected(err), false
	}
	if !payload.HasTransactionStatus() {
		return webhookRejected(apperrors.NewWebhookValidationError(MsgTransactionStatusEmpty)), false
	}

	outcome, notice, err := uc.apply(o, snap, payload, amount)
	if err != nil {
		uc.logger.Errorw("failed to apply webhook to order", "order_id", orderID, "error", err)
		return webhookReply(http.StatusInternalServerError, MsgOrderNotUpdated, OutcomeError), false
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if outcome == OutcomePaid || outcome == OutcomeUnderpaid {
			if err := uc.reduceStockOnce(txCtx, o); err != nil {
				return err
			}
		}
		return uc.orderRepo.Update(txCtx, o)
	})
	if errors.Is(err, order.ErrConcurrentUpdate) {
		return WebhookResponse{}, true
	}
	if err != nil {
		uc.logger.Errorw("failed to save webhook result", "order_id", orderID, "error", err)
		return webhookReply(http.StatusInternalServerError, MsgOrderNotUpdated, OutcomeError), false
	}

	uc.logger.Infow("webhook applied",
		"order_id", orderID,
		"outcome", outcome,
		"status", o.Status(),
		"amount", amount.String(),
		"total", o.Total().String(),
		"reference", payload.Reference,
	)

	if notice != nil {
		uc.queueNotice(ctx, o.CustomerID(), *notice)
	}

	return webhookReply(http.StatusOK, MsgOrderUpdated, outcome), false
}

// apply mutates o in memory according to the payment result. The returned
// notice, if any, is queued for the shopper once the order is saved.
func (uc *ReconcileWebhookUseCase) apply(
	o *order.Order,
	snap gateway.Snapshot,
	payload *WebhookPayload,
	amount decimal.Decimal,
) (Outcome, *Notice, error) {
	var (
		outcome Outcome
		notice  *Notice
	)

	switch {
	case payload.Succeeded() && amount.LessThan(o.Total()):
		outcome = OutcomeUnderpaid
		if err := o.UpdateStatus(vo.OrderStatusOnHold, ""); err != nil {
			return "", nil, err
		}
		o.SetMeta(order.MetaTransactionID, payload.Reference)
		o.AddNote(msgUnderpaidCustomer, true)

		symbol := order.CurrencySymbol(o.Currency())
		o.AddNote(fmt.Sprintf(msgUnderpaidAdmin,
			symbol, payload.Amount,
			symbol, o.Total().StringFixed(2),
			payload.Reference,
		), false)

		notice = &Notice{Type: NoticeTypeNotice, Message: msgUnderpaidCustomer}

	case payload.Succeeded():
		outcome = OutcomePaid
		o.MarkPaid(payload.Reference)
		o.AddNote(fmt.Sprintf(msgPaymentSuccessful, payload.Reference), false)
		if snap.AutocompleteOrder() {
			if err := o.UpdateStatus(vo.OrderStatusCompleted, ""); err != nil {
				return "", nil, err
			}
		}

	default:
		outcome = OutcomeDeclined
		if err := o.UpdateStatus(vo.OrderStatusFailed, msgPaymentDeclined); err != nil {
			return "", nil, err
		}
	}

	if truthy(payload.Message) {
		o.AddNote(payload.Message, true)
	}

	return outcome, notice, nil
}

func (uc *ReconcileWebhookUseCase) reduceStockOnce(ctx context.Context, o *order.Order) error {
	if o.StockReduced() || uc.stock == nil {
		return nil
	}
	if err := uc.stock.ReduceStock(ctx, o); err != nil {
		return fmt.Errorf("failed to reduce stock for order %d: %w", o.ID(), err)
	}
	o.MarkStockReduced()
	return nil
}

func (uc *ReconcileWebhookUseCase) queueNotice(ctx context.Context, customerID uint, notice Notice) {
	if customerID == 0 || uc.notices == nil {
		return
	}
	if err := uc.notices.AddNotice(ctx, customerID, notice); err != nil {
		uc.logger.Warnw("failed to queue store notice", "customer_id", customerID, "error", err)
	}
}
