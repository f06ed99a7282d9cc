package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/azampay/momo-checkout/internal/shared/errors"
)

func TestParseWebhookPayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *WebhookPayload
		wantMsg string
	}{
		{
			name: "strings",
			body: `{"utilityref":"17","reference":"AZM123","transactionstatus":"success","amount":"15000","message":"Paid"}`,
			want: &WebhookPayload{UtilityRef: "17", Reference: "AZM123", TransactionStatus: "success", Amount: "15000", Message: "Paid"},
		},
		{
			name: "numbers keep their text",
			body: `{"utilityref":17,"reference":"AZM123","transactionstatus":"success","amount":14999.99}`,
			want: &WebhookPayload{UtilityRef: "17", Reference: "AZM123", TransactionStatus: "success", Amount: "14999.99"},
		},
		{
			name: "extra keys ignored",
			body: `{"utilityref":"1","reference":"r","transactionstatus":"failure","amount":"10","msisdn":"255712345678","operator":"Tigo"}`,
			want: &WebhookPayload{UtilityRef: "1", Reference: "r", TransactionStatus: "failure", Amount: "10"},
		},
		{
			name:    "empty",
			body:    "   ",
			wantMsg: MsgPayloadEmpty,
		},
		{
			name:    "not json",
			body:    `utilityref=1`,
			wantMsg: MsgPayloadInvalid,
		},
		{
			name:    "array",
			body:    `[1,2]`,
			wantMsg: MsgPayloadInvalid,
		},
		{
			name:    "first missing key wins",
			body:    `{"amount":"10"}`,
			wantMsg: "utilityref must be specified in payload.",
		},
		{
			name:    "null counts as missing",
			body:    `{"utilityref":"1","reference":null,"transactionstatus":"success","amount":"10"}`,
			wantMsg: "reference must be specified in payload.",
		},
		{
			name:    "nested value",
			body:    `{"utilityref":"1","reference":"r","transactionstatus":{"code":1},"amount":"10"}`,
			wantMsg: "transactionstatus must be a string or number.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWebhookPayload([]byte(tt.body))
			if tt.wantMsg != "" {
				require.Error(t, err)
				appErr := apperrors.GetAppError(err)
				require.NotNil(t, appErr)
				assert.Equal(t, apperrors.ErrorTypeWebhook, appErr.Type)
				assert.Equal(t, tt.wantMsg, appErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWebhookPayload_PaidAmount(t *testing.T) {
	tests := []struct {
		amount  string
		want    string
		wantMsg string
	}{
		{amount: "15000", want: "15000"},
		{amount: "14999.99", want: "14999.99"},
		{amount: "", wantMsg: MsgAmountMissing},
		{amount: "0", wantMsg: MsgAmountMissing},
		{amount: "0.00", wantMsg: MsgAmountMissing},
		{amount: "ten", wantMsg: MsgAmountInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			p := &WebhookPayload{Amount: tt.amount}
			got, err := p.PaidAmount()
			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantMsg, apperrors.GetAppError(err).Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestWebhookPayload_OrderRef(t *testing.T) {
	assert.False(t, (&WebhookPayload{UtilityRef: ""}).HasOrderRef())
	assert.False(t, (&WebhookPayload{UtilityRef: "0"}).HasOrderRef())
	assert.True(t, (&WebhookPayload{UtilityRef: "abc"}).HasOrderRef())

	_, ok := (&WebhookPayload{UtilityRef: "abc"}).OrderID()
	assert.False(t, ok)

	id, ok := (&WebhookPayload{UtilityRef: "17"}).OrderID()
	assert.True(t, ok)
	assert.Equal(t, uint(17), id)
}
