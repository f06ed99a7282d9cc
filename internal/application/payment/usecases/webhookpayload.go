package usecases

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/azampay/momo-checkout/internal/shared/errors"
)

// Webhook payload keys, in the order they are checked.
const (
	webhookKeyUtilityRef        = "utilityref"
	webhookKeyReference         = "reference"
	webhookKeyTransactionStatus = "transactionstatus"
	webhookKeyAmount            = "amount"
	webhookKeyMessage           = "message"
)

var requiredWebhookKeys = []string{
	webhookKeyUtilityRef,
	webhookKeyReference,
	webhookKeyTransactionStatus,
	webhookKeyAmount,
}

var webhookKeys = []string{
	webhookKeyUtilityRef,
	webhookKeyReference,
	webhookKeyTransactionStatus,
	webhookKeyAmount,
	webhookKeyMessage,
}

const (
	MsgPayloadEmpty           = "Payload empty."
	MsgPayloadInvalid         = "Payload is not valid JSON."
	MsgOrderIDMissing         = "Order id not specified."
	MsgOrderMissing           = "Order with given order id does not exist."
	MsgAlreadyProcessed       = "Order has already been processed."
	MsgAmountMissing          = "Amount not specified."
	MsgAmountInvalid          = "Amount is not a valid number."
	MsgTransactionStatusEmpty = "Transaction status not specified."
	MsgOrderUpdated           = "Order updated."
	MsgOrderNotUpdated        = "Order could not be updated."
)

// transactionStatusSuccess is the only status treated as a completed payment.
const transactionStatusSuccess = "success"

// WebhookPayload is the provider's payment result callback. Scalar values are
// kept as text; strings and numbers are both accepted for every field.
type WebhookPayload struct {
	UtilityRef        string
	Reference         string
	TransactionStatus string
	Amount            string
	Message           string
}

// ParseWebhookPayload decodes a callback body and checks that every required
// key is present and non-null. It does not judge whether values are usable.
func ParseWebhookPayload(body []byte) (*WebhookPayload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, apperrors.NewWebhookValidationError(MsgPayloadEmpty)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.NewWebhookValidationError(MsgPayloadInvalid, err.Error())
	}

	values := make(map[string]string, len(raw))
	for _, key := range webhookKeys {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		v, present, err := scalarText(msg)
		if err != nil {
			return nil, apperrors.NewWebhookValidationError(key+" must be a string or number.", err.Error())
		}
		if present {
			values[key] = v
		}
	}

	for _, key := range requiredWebhookKeys {
		if _, ok := values[key]; !ok {
			return nil, apperrors.NewWebhookValidationError(key + " must be specified in payload.")
		}
	}

	return &WebhookPayload{
		UtilityRef:        values[webhookKeyUtilityRef],
		Reference:         values[webhookKeyReference],
		TransactionStatus: values[webhookKeyTransactionStatus],
		Amount:            values[webhookKeyAmount],
		Message:           values[webhookKeyMessage],
	}, nil
}

// scalarText renders a JSON scalar as text. present is false for null.
func scalarText(raw json.RawMessage) (text string, present bool, err error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", false, err
	}

	switch t := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return strings.TrimSpace(t), true, nil
	case json.Number:
		return t.String(), true, nil
	case bool:
		if t {
			return "1", true, nil
		}
		return "", true, nil
	default:
		return "", false, errNonScalar
	}
}

var errNonScalar = errors.New("value is not a scalar")

// HasOrderRef reports whether utilityref carries a usable value.
func (p *WebhookPayload) HasOrderRef() bool {
	return truthy(p.UtilityRef)
}

// OrderID parses utilityref as an order id.
func (p *WebhookPayload) OrderID() (uint, bool) {
	id, err := strconv.ParseUint(p.UtilityRef, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// PaidAmount returns the amount the provider collected. A zero or empty
// amount is reported as missing.
func (p *WebhookPayload) PaidAmount() (decimal.Decimal, error) {
	if !truthy(p.Amount) {
		return decimal.Zero, apperrors.NewWebhookValidationError(MsgAmountMissing)
	}
	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return decimal.Zero, apperrors.NewWebhookValidationError(MsgAmountInvalid, err.Error())
	}
	if amount.IsZero() {
		return decimal.Zero, apperrors.NewWebhookValidationError(MsgAmountMissing)
	}
	return amount, nil
}

// HasTransactionStatus reports whether transactionstatus carries a value.
func (p *WebhookPayload) HasTransactionStatus() bool {
	return truthy(p.TransactionStatus)
}

// Succeeded reports whether the provider collected the payment.
func (p *WebhookPayload) Succeeded() bool {
	return p.TransactionStatus == transactionStatusSuccess
}

// truthy treats "" and "0" as absent.
func truthy(s string) bool {
	return s != "" && s != "0"
}
