package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azampay/momo-checkout/internal/domain/gateway"
	"github.com/azampay/momo-checkout/internal/domain/order"
	vo "github.com/azampay/momo-checkout/internal/domain/order/valueobjects"
)

type webhookFixture struct {
	repo    *memOrderRepo
	locker  *fakeLocker
	tx      *passthroughTx
	stock   *fakeStock
	notices *fakeNotices
	uc      *ReconcileWebhookUseCase
}

func newWebhookFixture() *webhookFixture {
	f := &webhookFixture{
		repo:    newMemOrderRepo(),
		locker:  &fakeLocker{},
		tx:      &passthroughTx{},
		stock:   &fakeStock{},
		notices: &fakeNotices{},
	}
	f.uc = NewReconcileWebhookUseCase(f.repo, f.locker, f.tx, f.stock, f.notices, nopLogger{})
	return f
}

func (f *webhookFixture) deliver(snap gateway.Snapshot, body string) WebhookResponse {
	return f.uc.Execute(context.Background(), snap, WebhookRequest{Method: http.MethodPost, Body: []byte(body)})
}

func webhookBody(orderID uint, status, amount string) string {
	return fmt.Sprintf(`{"utilityref":"%d","reference":"AZM-7781","transactionstatus":"%s","amount":"%s"}`, orderID, status, amount)
}

func noteContents(o *order.Order) []string {
	var out []string
	for _, n := range o.Notes() {
		out = append(out, n.Content)
	}
	return out
}

func TestReconcileWebhookUseCase_Execute_RejectsNonPost(t *testing.T) {
	f := newWebhookFixture()
	o := seedOrder(f.repo, "15000", vo.OrderStatusPending)

	resp := f.uc.Execute(context.Background(), usableSnapshot(), WebhookRequest{
		Method: http.MethodGet,
		Body:   []byte(webhookBody(o.ID(), "success", "15000")),
	})

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Equal(t, OutcomeRejected, resp.Outcome)
	assert.Zero(t, f.locker.locks)
	assert.Zero(t, f.repo.updateCount())
}

func TestReconcileWebhookUseCase_Execute_MissingKeys(t *testing.T) {
	keys := []string{"utilityref", "reference", "transactionstatus", "amount"}

	for _, missing := range keys {
		t.Run(missing, func(t *testing.T) {
			f := newWebhookFixture()
			o := seedOrder(f.repo, "15000", vo.OrderStatusPending)

			values := map[string]string{
				"utilityref":        fmt.Sprint(o.ID()),
				"reference":         "AZM-7781",
				"transactionstatus": "success",
				"amount":            "15000",
			}
			delete(values, missing)
			body := "{"
			first := true
			for _, k := range keys {
				v, ok := values[k]
				if !ok {
					continue
				}
				if !first {
					body += ","
				}
				body += fmt.Sprintf("%q:%q", k, v)
				first = false
			}
			body += "}"

			resp := f.deliver(usableSnapshot(), body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, missing+" must be specified in payload.", resp.Body)
			assert.Zero(t, f.repo.updateCount())
			stored := f.repo.stored(o.ID())
			assert.Equal(t, vo.OrderStatusPending, stored.Status())
			assert.Empty(t, stored.Notes())
			assert.Empty(t, f.stock.reduced)
		})
	}
}

const nonNumericRefBody = `{"utilityref":"ORD-1","reference":"r","transactionstatus":"success","amount":"1"}`

func TestReconcileWebhookUseCase_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		body     func(id uint) string
		wantCode int
		wantBody string
	}{
		{
			name:     "empty body",
			body:     func(uint) string { return "" },
			wantCode: http.StatusBadRequest,
			wantBody: MsgPayloadEmpty,
		},
		{
			name:     "invalid json",
			body:     func(uint) string { return "{not json" },
			wantCode: http.StatusBadRequest,
			wantBody: MsgPayloadInvalid,
		},
		{
			name:     "zero order id",
			body:     func(uint) string { return webhookBody(0, "success", "15000") },
			wantCode: http.StatusBadRequest,
			wantBody: MsgOrderIDMissing,
		},
		{
			name:     "unknown order",
			body:     func(uint) string { return webhookBody(999, "success", "15000") },
			wantCode: http.StatusBadRequest,
			wantBody: MsgOrderMissing,
		},
		{
			name:     "non numeric order id",
			body:     func(uint) string { return nonNumericRefBody },
			wantCode: http.StatusBadRequest,
			wantBody: MsgOrderMissing,
		},
		{
			name:     "zero amount",
			body:     func(id uint) string { return webhookBody(id, "success", "0") },
			wantCode: http.StatusBadRequest,
			wantBody: MsgAmountMissing,
		},
		{
			name:     "unparseable amount",
			body:     func(id uint) string { return webhookBody(id, "success", "lots") },
			wantCode: http.StatusBadRequest,
			wantBody: MsgAmountInvalid,
		},
		{
			name:     "empty status",
			body:     func(id uint) string { return webhookBody(id, "", "15000") },
			wantCode: http.StatusBadRequest,
			wantBody: MsgTransactionStatusEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWebhookFixture()
			o := seedOrder(f.repo, "15000", vo.OrderStatusPending)

			resp := f.deliver(usableSnapshot(), tt.body(o.ID()))

			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Equal(t, tt.wantBody, resp.Body)
			assert.Equal(t, OutcomeRejected, resp.Outcome)
			assert.Zero(t, f.repo.updateCount())
			assert.Equal(t, vo.OrderStatusPending, f.repo.stored(o.ID()).Status())
		})
	}
}

func TestReconcileWebhookUseCase_Execute_ResolvedOrdersAreNoOps(t *testing.T) {
	for _, status := range []vo.OrderStatus{vo.OrderStatusProcessing, vo.OrderStatusCompleted, vo.OrderStatusOnHold} {
		t.Run(status.String(), func(t *testing.T) {
			f := newWebhookFixture()
			o := seedOrder(f.repo, "15000", status)

			resp := f.deliver(usableSnapshot(), webhookBody(o.ID(), "failure", "15000"))

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, MsgAlreadyProcessed, resp.Body)
			assert.Equal(t, OutcomeAlreadyProcessed, resp.Outcome)
			assert.Zero(t, f.repo.updateCount())
			assert.Equal(t, status, f.repo.stored(o.ID()).Status())
		})
	}
}

func TestReconcileWebhookUseCase_Execute_AmountReconciliation(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		wantStatus  vo.OrderStatus
		wantOutcome Outcome
	}{
		{name: "exact", amount: "15000", wantStatus: vo.OrderStatusProcessing, wantOutcome: OutcomePaid},
		{name: "exact with decimals", amount: "15000.00", wantStatus: vo.OrderStatusProcessing, wantOutcome: OutcomePaid},
		{name: "one cent short", amount: "14999.99", wantStatus: vo.OrderStatusOnHold, wantOutcome: OutcomeUnderpaid},
		{name: "overpaid", amount: "15000.01", wantStatus: vo.OrderStatusProcessing, wantOutcome: OutcomePaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newWebhookFixture()
			o := seedOrder(f.repo, "15000", vo.OrderStatusPending)

			resp := f.deliver(usableSnapshot(), webhookBody(o.ID(), "success", tt.amount))

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, MsgOrderUpdated, resp.Body)
			assert.Equal(t, tt.wantOutcome, resp.Outcome)

			stored := f.repo.stored(o.ID())
			assert.Equal(t, tt.wantStatus, stored.Status())
			assert.Equal(t, "AZM-7781", stored.Meta(order.MetaTransactionID))
			assert.True(t, stored.StockReduced())
			assert.Equal(t, []uint{o.ID()}, f.stock.reduced)
		})
	}
}

func TestReconcileWebhookUseCase_Execute_PaidInFull(t *testing.T) {
	f := newWebhookFixture()
	o := seedOrder(f.repo, "15000", vo.OrderStatusPending)

	resp := f.deliver(usableSnapshot(), webhookBody(o.ID(), "success", "15000"))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := f.repo.stored(o.ID())
	assert.NotNil(t, stored.PaidAt())
	assert.Equal(t, []string{"Payment via AzamPay successful (Transaction Reference: AZM-7781)"}, noteContents(stored))
	assert.False(t, stored.Notes()[0].CustomerVisible)
	assert.Empty(t, f.notices.added)
	assert.Equal(t, 1, f.tx.runs)
	assert.Equal(t, 1, f.locker.releases)
}

func TestReconcileWebhookUseCase_Execute_Autocomplete(t *testing.T) {
	f := newWebhookFixture()
	o := seedOrder(f.repo, "15000", vo.OrderStatusPending)

	resp := f.deliver(autocompleteSnapshot(), webhookBody(o.ID(), "success", "15000"))

	assert.Equal(t, OutcomePaid, resp.Outcome)
	assert.Equal(t, vo.OrderStatusCompleted, f.repo.stored(o.ID()).Status())
}

func TestReconcileWebhookUseCase_Execute_DownloadableCompletesOnPayment(t *testing.T) {
	f := newWebhookFixture()
	o := seedOrder(f.repo, "3000", vo.OrderStatusPending, order.Item{ID: 1, ProductID: 5, Quantity: 1, Downloadable: true})

	f.deliver(usableSnapshot(), webhookBody(o.ID(), "success", "3000"))

	assert.Equal(t, vo.OrderStatusCompleted, f.repo.stored(o.ID()).Status())
}

func TestReconcileWebhookUseCase_Execute_Underpaid(t *testing.T) {
	f := newWebhookFixture()
	o := seedOrder(f.repo, "15000", vo.OrderStatusPending)

	body := `{"utilityref":"1","reference":"AZM-7781","transactionstatus":"success","amount":"14999.99","message":"Partial payment"}`
	resp := f.deliver(usableSnapshot(), body)

	require.Equal(t, OutcomeUnderpaid, resp.Outcome)

	stored := f.repo.stored(o.ID())
	assert.Equal(t, vo.OrderStatusOnHold, stored.Status())
	assert.Nil(t, stored.PaidAt())

	notes := stored.Notes()
	require.Len(t, notes, 3)

	assert.True(t, notes[0].CustomerVisible)
	assert.Contains(t, notes[0].Content, "the amount paid is not the same as the total order amount")

	assert.False(t, notes[1].CustomerVisible)
	assert.Contains(t, notes[1].Content, "Amount Paid was TSh (14999.99) while the total order amount is TSh (15000.00)")
	assert.Contains(t, notes[1].Content, "AzamPay Transaction Reference: AZM-7781")

	assert.Equal(t, "Partial payment", notes[2].Content)
	assert.True(t, notes[2].CustomerVisible)

	require.Len(t, f.notices.added[42], 1)
	assert.Equal(t, NoticeTypeNotice, f.notices.added[42][0].Type)
	assert.Equal(t, notes[0].Content, f.notices.added[42][0].Message)
}

func TestReconcileWebhookUseCase_Execute_Declined(t *testing.T) {
	f := newWebhookFixture()
	o := seedOrder(f.repo, "15000", vo.OrderStatusPending)

	body := fmt.Sprintf(`{"utilityref":%d,"reference":"AZM-7781","transactionstatus":"failure","amount":15000,"message":"Insufficient funds"}`, o.ID())
	resp := f.deliver(usableSnapshot(), body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, OutcomeDeclined, resp.Outcome)

	stored := f.repo.stored(o.ID())
	assert.Equal(t, vo.OrderStatusFailed, stored.Status())
	assert.Equal(t, []string{"Payment was declined by AzamPay.", "Insufficient funds"}, noteContents(stored))
	assert.False(t, stored.Notes()[0].CustomerVisible)
	assert.True(t, stored.Notes()[1].CustomerVisible)
	assert.Empty(t, stored.Meta(order.MetaTransactionID))
	assert.Empty(t, f.stock.reduced)
}

func TestReconcileWebhookUseCase_Execute_Idempotent(t *testing.T) {
	f := newWebhookFixture()
	o := seedOrder(f.repo, "15000", vo.OrderStatusPending)
	body := webhookBody(o.ID(), "success", "15000")

	first := f.deliver(usableSnapshot(), body)
	second := f.deliver(usableSnapshot(), body)

	assert.Equal(t, MsgOrderUpdated, first.Body)
	assert.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, MsgAlreadyProcessed, second.Body)

	assert.Equal(t, 1, f.repo.updateCount())
	assert.Len(t, noteContents(f.repo.stored(o.ID())), 1)
	assert.Len(t, f.stock.reduced, 1)
}

func TestReconcileWebhookUseCase_Execute_FailedOrderCanBePaid(t *testing.T) {
	f := newWebhookFixture()
	o := seedOrder(f.repo, "15000", vo.OrderStatusPending)

	f.deliver(usableSnapshot(), webhookBody(o.ID(), "failure", "15000"))
	resp := f.deliver(usableSnapshot(), webhookBody(o.ID(), "success", "15000"))

	assert.Equal(t, OutcomePaid, resp.Outcome)
	assert.Equal(t, vo.OrderStatusProcessing, f.repo.stored(o.ID()).Status())
}

func TestReconcileWebhookUseCase_Execute_LostRaceIsReevaluated(t *testing.T) {
	f := newWebhookFixture()
	o := seedOrder(f.repo, "15000", vo.OrderStatusPending)
	f.repo.beforeUpdate = func(r *memOrderRepo, _ *order.Order) {
		r.setStatus(o.ID(), vo.OrderStatusProcessing)
	}

	resp := f.deliver(usableSnapshot(), webhookBody(o.ID(), "failure", "15000"))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, MsgAlreadyProcessed, resp.Body)
	assert.Zero(t, f.repo.updateCount())
	assert.Equal(t, vo.OrderStatusProcessing, f.repo.stored(o.ID()).Status())
}

func TestReconcileWebhookUseCase_Execute_ConflictRetrySucceeds(t *testing.T) {
	f := newWebhookFixture()
	o := seedOrder(f.repo, "15000", vo.OrderStatusPending)
	f.repo.beforeUpdate = func(r *memOrderRepo, _ *order.Order) {
		r.setStatus(o.ID(), vo.OrderStatusPending)
	}

	resp := f.deliver(usableSnapshot(), webhookBody(o.ID(), "failure", "15000"))

	assert.Equal(t, MsgOrderUpdated, resp.Body)
	assert.Equal(t, 2, f.tx.runs)
	assert.Equal(t, vo.OrderStatusFailed, f.repo.stored(o.ID()).Status())
}

func TestReconcileWebhookUseCase_Execute_Failures(t *testing.T) {
	t.Run("lock unavailable", func(t *testing.T) {
		f := newWebhookFixture()
		o := seedOrder(f.repo, "15000", vo.OrderStatusPending)
		f.locker.err = errors.New("lock wait timed out")

		resp := f.deliver(usableSnapshot(), webhookBody(o.ID(), "success", "15000"))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, OutcomeError, resp.Outcome)
		assert.Zero(t, f.repo.updateCount())
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newWebhookFixture()
		o := seedOrder(f.repo, "15000", vo.OrderStatusPending)
		f.repo.updateErr = errors.New("disk full")

		resp := f.deliver(usableSnapshot(), webhookBody(o.ID(), "success", "15000"))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, MsgOrderNotUpdated, resp.Body)
		assert.Equal(t, vo.OrderStatusPending, f.repo.stored(o.ID()).Status())
	})

	t.Run("stock failure aborts", func(t *testing.T) {
		f := newWebhookFixture()
		o := seedOrder(f.repo, "15000", vo.OrderStatusPending)
		f.stock.err = errors.New("product row locked")

		resp := f.deliver(usableSnapshot(), webhookBody(o.ID(), "success", "15000"))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Zero(t, f.repo.updateCount())
	})

	t.Run("load failure", func(t *testing.T) {
		f := newWebhookFixture()
		o := seedOrder(f.repo, "15000", vo.OrderStatusPending)
		f.repo.getErr = errors.New("connection refused")

		resp := f.deliver(usableSnapshot(), webhookBody(o.ID(), "success", "15000"))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, MsgOrderNotUpdated, resp.Body)
	})
}
