package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/azampay/momo-checkout/internal/application/payment/usecases"
	"github.com/azampay/momo-checkout/internal/domain/gateway"
	apperrors "github.com/azampay/momo-checkout/internal/shared/errors"
	"github.com/azampay/momo-checkout/internal/shared/logger"
	"github.com/azampay/momo-checkout/internal/shared/utils"
)

// NoticeTokenHeader carries the token returned by Pay.
const NoticeTokenHeader = "X-Notice-Token"

type CheckoutHandler struct {
	gateway checkoutGateway
	notices noticeDrainer
	tokens  noticeTokens
	logger  logger.Interface
}

func NewCheckoutHandler(gateway checkoutGateway, notices noticeDrainer, tokens noticeTokens, logger logger.Interface) *CheckoutHandler {
	utils.RegisterBindingValidations()
	return &CheckoutHandler{
		gateway: gateway,
		notices: notices,
		tokens:  tokens,
		logger:  logger,
	}
}

// PaymentFields handles GET /checkout/payment-fields.
func (h *CheckoutHandler) PaymentFields(c *gin.Context) {
	session := h.gateway.OpenSession(c.Request.Context())
	utils.SuccessResponse(c, http.StatusOK, "", toPaymentFieldsResponse(session))
}

// Partners handles GET /checkout/partners.
func (h *CheckoutHandler) Partners(c *gin.Context) {
	partners, err := h.gateway.ListPartners(c.Request.Context())
	if err != nil {
		h.logger.Warnw("partner list unavailable", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toPartnerResponses(partners))
}

// ValidateFields handles POST /checkout/validate. The checkout form calls it
// before the order is placed.
func (h *CheckoutHandler) ValidateFields(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ErrorResponseWithError(c, payRequestError(err))
		return
	}

	partner, err := h.gateway.Validate(c.Request.Context(), req.PaymentNetwork, req.PaymentNumber)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", ValidateResponse{
		Valid:   true,
		Network: toPartnerResponse(partner),
	})
}

// Pay handles POST /checkout/orders/:order_id/pay.
func (h *CheckoutHandler) Pay(c *gin.Context) {
	orderID, err := utils.ParseUintParam(c, "order_id", "order")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PayRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warnw("invalid payment fields", "order_id", orderID, "error", err)
		utils.ErrorResponseWithError(c, payRequestError(err))
		return
	}

	result, err := h.gateway.Initiate(c.Request.Context(), usecases.InitiateCheckoutCommand{
		OrderID:     orderID,
		Network:     req.PaymentNetwork,
		PhoneNumber: req.PaymentNumber,
	})
	if err != nil {
		h.logger.Warnw("checkout failed",
			"order_id", orderID,
			"network", req.PaymentNetwork,
			"phone", utils.MaskPhone(req.PaymentNumber),
			"error", err,
		)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("checkout accepted",
		"order_id", result.OrderID,
		"status", result.Status,
		"charged", result.Charged,
	)

	resp := PayResponse{
		Result:   "success",
		Redirect: result.Redirect,
	}
	if result.CustomerID != 0 {
		resp.NoticeToken = h.tokens.Generate(result.CustomerID)
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// OrderReceived handles GET /checkout/order-received/:order_id.
func (h *CheckoutHandler) OrderReceived(c *gin.Context) {
	orderID, err := utils.ParseUintParam(c, "order_id", "order")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	view, err := h.gateway.OrderReceived(c.Request.Context(), orderID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", view)
}

// Notices handles GET /checkout/notices. The customer comes from the notice
// token, never from the request path. Notices are removed once returned.
func (h *CheckoutHandler) Notices(c *gin.Context) {
	customerID, err := h.tokens.Verify(c.GetHeader(NoticeTokenHeader))
	if err != nil {
		h.logger.Warnw("notice token rejected", "client_ip", c.ClientIP(), "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewUnauthorizedError("invalid notice token"))
		return
	}

	notices, err := h.notices.Drain(c.Request.Context(), customerID)
	if err != nil {
		h.logger.Errorw("failed to drain notices", "customer_id", customerID, "error", err)
		utils.ErrorResponseWithError(c, apperrors.NewInternalError("failed to load notices"))
		return
	}
	if notices == nil {
		notices = []usecases.Notice{}
	}

	utils.SuccessResponse(c, http.StatusOK, "", notices)
}

// payRequestError maps binding failures onto the messages the shopper sees
// for the same mistakes caught by the gateway.
func payRequestError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.StructField() {
			case "PaymentNumber":
				return apperrors.NewValidationError(gateway.ErrInvalidPhoneNumber.Error())
			case "PaymentNetwork":
				return apperrors.NewValidationError(gateway.ErrNetworkNotAllowed.Error())
			}
		}
	}
	return apperrors.NewBadRequestError("invalid request body", err.Error())
}
