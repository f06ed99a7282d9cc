package usecases

import (
	"context"
	"errors"

	"github.com/azampay/momo-checkout/internal/domain/gateway"
	"github.com/azampay/momo-checkout/internal/domain/order"
	"github.com/azampay/momo-checkout/internal/shared/biztime"
	apperrors "github.com/azampay/momo-checkout/internal/shared/errors"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

const datePaidLayout = "2006-01-02 15:04"

// OrderReceivedView is the thank-you page content for an order paid through
// this gateway.
type OrderReceivedView struct {
	OrderID        uint   `json:"order_id"`
	Status         string `json:"status"`
	Total          string `json:"total"`
	Currency       string `json:"currency"`
	Instructions   string `json:"instructions,omitempty"`
	PaymentNumber  string `json:"payment_number,omitempty"`
	PaymentNetwork string `json:"payment_network,omitempty"`
	TransactionID  string `json:"transaction_id,omitempty"`
	DatePaid       string `json:"date_paid,omitempty"`
}

type GetOrderReceivedUseCase struct {
	orderRepo order.Repository
	logger    logger.Interface
}

func NewGetOrderReceivedUseCase(orderRepo order.Repository, logger logger.Interface) *GetOrderReceivedUseCase {
	return &GetOrderReceivedUseCase{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (uc *GetOrderReceivedUseCase) Execute(ctx context.Context, snap gateway.Snapshot, orderID uint) (*OrderReceivedView, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return nil, apperrors.NewNotFoundError("order not found")
		}
		uc.logger.Errorw("failed to load order", "order_id", orderID, "error", err)
		return nil, apperrors.NewInternalError("failed to load order")
	}

	view := &OrderReceivedView{
		OrderID:        o.ID(),
		Status:         o.Status().String(),
		Total:          o.Total().StringFixed(2),
		Currency:       o.Currency(),
		Instructions:   snap.Instructions(),
		PaymentNumber:  o.Meta(order.MetaPaymentNumber),
		PaymentNetwork: o.Meta(order.MetaPaymentNetwork),
		TransactionID:  o.Meta(order.MetaTransactionID),
	}
	if paidAt := o.PaidAt(); paidAt != nil {
		view.DatePaid = biztime.FormatInBizTimezone(*paidAt, datePaidLayout)
	}

	return view, nil
}
