package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/azampay/momo-checkout/internal/application/payment/paymentgateway"
	"github.com/azampay/momo-checkout/internal/domain/gateway"
	"github.com/azampay/momo-checkout/internal/domain/order"
	vo "github.com/azampay/momo-checkout/internal/domain/order/valueobjects"
	apperrors "github.com/azampay/momo-checkout/internal/shared/errors"
	"github.com/azampay/momo-checkout/internal/shared/logger"
	"github.com/azampay/momo-checkout/internal/shared/utils"
)

// checkoutSource identifies this integration to the provider.
const checkoutSource = "Woo commerce Plugin"

type InitiateCheckoutCommand struct {
	OrderID     uint
	Network     string
	PhoneNumber string
}

type CheckoutResult struct {
	OrderID    uint
	CustomerID uint
	Status     vo.OrderStatus
	Redirect string
	// Charged is false for zero-total orders completed without a provider call.
	Charged bool
}

type checkoutRequest struct {
	Provider             string             `json:"provider"`
	Source               string             `json:"source"`
	AccountNumber        string             `json:"accountNumber"`
	Amount               string             `json:"amount"`
	ExternalID           string             `json:"externalId"`
	Currency             string             `json:"currency"`
	AdditionalProperties checkoutProperties `json:"additionalProperties"`
}

type checkoutProperties struct {
	CustomerID uint   `json:"customerId"`
	OrderID    uint   `json:"orderId"`
	Total      string `json:"total"`
}

type checkoutResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
}

type InitiateCheckoutUseCase struct {
	orderRepo     order.Repository
	openSession   *OpenSessionUseCase
	transport     paymentgateway.Transport
	locker        OrderLocker
	cart          CartService
	returnBaseURL string
	logger        logger.Interface
}

func NewInitiateCheckoutUseCase(
	orderRepo order.Repository,
	openSession *OpenSessionUseCase,
	transport paymentgateway.Transport,
	locker OrderLocker,
	cart CartService,
	returnBaseURL string,
	logger logger.Interface,
) *InitiateCheckoutUseCase {
	return &InitiateCheckoutUseCase{
		orderRepo:     orderRepo,
		openSession:   openSession,
		transport:     transport,
		locker:        locker,
		cart:          cart,
		returnBaseURL: strings.TrimRight(returnBaseURL, "/"),
		logger:        logger,
	}
}

// Execute validates the shopper's payment fields, asks the provider to push a
// payment prompt to the wallet and records the attempt on the order. The
// order is untouched unless the provider accepted the request.
func (uc *InitiateCheckoutUseCase) Execute(ctx context.Context, snap gateway.Snapshot, cmd InitiateCheckoutCommand) (*CheckoutResult, error) {
	network := strings.TrimSpace(cmd.Network)
	phone := strings.TrimSpace(cmd.PhoneNumber)

	if !snap.Enabled() {
		return nil, apperrors.NewConfigurationError(MsgMisconfigured)
	}

	o, err := uc.orderRepo.GetByID(ctx, cmd.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("order not found")
		}
		uc.logger.Errorw("failed to load order for checkout", "order_id", cmd.OrderID, "error", err)
		return nil, apperrors.NewInternalError("failed to load order")
	}

	if !o.IsPayable() {
		return nil, apperrors.NewValidationError(MsgOrderAlreadyPaid)
	}

	if !o.Total().IsPositive() {
		return uc.completeFreeOrder(ctx, o.ID())
	}

	if network == "" {
		return nil, apperrors.NewValidationError(gateway.ErrNetworkRequired.Error())
	}
	if !gateway.ValidPhoneNumber(phone, network) {
		return nil, apperrors.NewValidationError(gateway.ErrInvalidPhoneNumber.Error())
	}

	session := uc.openSession.Execute(ctx, snap)
	if !session.Token.Success {
		if session.Token.ErrorCode == ErrorCodeMisconfiguredApp {
			return nil, session.Token.Err()
		}
		return nil, apperrors.NewChargeError(session.Token.Message)
	}
	if !session.Partners.Success {
		return nil, session.Partners.Err()
	}

	partner, err := gateway.ValidatePaymentFields(network, phone, session.Allowed)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.charge(ctx, snap, session.Token.Token, o, partner, phone); err != nil {
		return nil, err
	}

	saved, err := uc.recordPending(ctx, o.ID(), partner, phone)
	if err != nil {
		uc.logger.Errorw("charge accepted but order not updated",
			"order_id", o.ID(),
			"error", err,
		)
		return nil, apperrors.NewInternalError(MsgCheckoutNotRecorded)
	}

	uc.emptyCart(ctx, saved.CustomerID())

	return &CheckoutResult{
		OrderID:    saved.ID(),
		CustomerID: saved.CustomerID(),
		Status:     saved.Status(),
		Redirect:   uc.orderReceivedURL(saved.ID()),
		Charged:    true,
	}, nil
}

func (uc *InitiateCheckoutUseCase) charge(
	ctx context.Context,
	snap gateway.Snapshot,
	token string,
	o *order.Order,
	partner gateway.Partner,
	phone string,
) error {
	total := o.Total().StringFixed(2)
	body, err := json.Marshal(checkoutRequest{
		Provider:      partner.DisplayValue,
		Source:        checkoutSource,
		AccountNumber: phone,
		Amount:        total,
		ExternalID:    strconv.FormatUint(uint64(o.ID()), 10),
		Currency:      o.Currency(),
		AdditionalProperties: checkoutProperties{
			CustomerID: o.CustomerID(),
			OrderID:    o.ID(),
			Total:      total,
		},
	})
	if err != nil {
		uc.logger.Errorw("failed to encode checkout request", "order_id", o.ID(), "error", err)
		return apperrors.NewChargeError(MsgTransactionProblem)
	}

	resp, err := uc.transport.Send(ctx, &paymentgateway.Request{
		Method: http.MethodPost,
		URL:    snap.Endpoints().CheckoutURL(),
		Headers: map[string]string{
			"Accept":        "application/json",
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + token,
		},
		Body: body,
	})
	if err != nil {
		uc.logger.Warnw("checkout request failed", "order_id", o.ID(), "error", err)
		return apperrors.NewChargeError(MsgTransactionProblem)
	}

	var parsed checkoutResponse
	decodeErr := json.Unmarshal(resp.Body, &parsed)

	if resp.StatusCode != http.StatusOK {
		uc.logger.Warnw("checkout request rejected",
			"order_id", o.ID(),
			"status", resp.StatusCode,
			"reason", resp.Reason,
		)
		return apperrors.NewChargeError(messageOr(parsed.Message, decodeErr))
	}
	if decodeErr != nil {
		uc.logger.Warnw("failed to decode checkout response", "order_id", o.ID(), "error", decodeErr)
		return apperrors.NewChargeError(MsgTransactionProblem)
	}
	if !parsed.Success {
		uc.logger.Warnw("checkout declined by provider", "order_id", o.ID(), "message", parsed.Message)
		return apperrors.NewChargeError(messageOr(parsed.Message, nil))
	}

	uc.logger.Infow("checkout request accepted",
		"order_id", o.ID(),
		"network", partner.DisplayValue,
		"phone", utils.MaskPhone(phone),
		"provider_transaction_id", parsed.TransactionID,
	)
	return nil
}

func messageOr(message string, decodeErr error) string {
	if decodeErr == nil && strings.TrimSpace(message) != "" {
		return strings.TrimSpace(message)
	}
	return MsgTransactionProblem
}

// recordPending writes the payment metadata and moves the order to awaiting
// payment. A callback that resolved the order first is never downgraded.
func (uc *InitiateCheckoutUseCase) recordPending(
	ctx context.Context,
	orderID uint,
	partner gateway.Partner,
	phone string,
) (*order.Order, error) {
	release, err := uc.locker.Lock(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock order %d: %w", orderID, err)
	}
	defer release()

	return applyToOrder(ctx, uc.orderRepo, orderID, func(o *order.Order) error {
		o.SetMeta(order.MetaPaymentNumber, phone)
		o.SetMeta(order.MetaPaymentNetwork, partner.DisplayValue)

		if !o.IsPayable() {
			uc.logger.Infow("order resolved before checkout recorded, keeping status",
				"order_id", orderID,
				"status", o.Status(),
			)
			return nil
		}

		target := vo.OrderStatusPending
		if o.HasDownloadableItem() {
			target = vo.OrderStatusOnHold
		}
		return o.UpdateStatus(target, MsgPendingPayment)
	})
}

func (uc *InitiateCheckoutUseCase) completeFreeOrder(ctx context.Context, orderID uint) (*CheckoutResult, error) {
	release, err := uc.locker.Lock(ctx, orderID)
	if err != nil {
		uc.logger.Warnw("failed to lock free order", "order_id", orderID, "error", err)
		return nil, apperrors.NewUnavailableError(MsgOrderBusy)
	}
	defer release()

	saved, err := applyToOrder(ctx, uc.orderRepo, orderID, func(o *order.Order) error {
		o.MarkPaid("")
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to complete free order", "order_id", orderID, "error", err)
		return nil, apperrors.NewInternalError("failed to complete order")
	}

	uc.logger.Infow("zero-total order completed without charge", "order_id", orderID, "status", saved.Status())
	uc.emptyCart(ctx, saved.CustomerID())

	return &CheckoutResult{
		OrderID:    saved.ID(),
		CustomerID: saved.CustomerID(),
		Status:     saved.Status(),
		Redirect:   uc.orderReceivedURL(saved.ID()),
	}, nil
}

func (uc *InitiateCheckoutUseCase) emptyCart(ctx context.Context, customerID uint) {
	if customerID == 0 || uc.cart == nil {
		return
	}
	if err := uc.cart.EmptyCart(ctx, customerID); err != nil {
		uc.logger.Warnw("failed to empty cart", "customer_id", customerID, "error", err)
	}
}

func (uc *InitiateCheckoutUseCase) orderReceivedURL(orderID uint) string {
	return fmt.Sprintf("%s/checkout/order-received/%d", uc.returnBaseURL, orderID)
}
