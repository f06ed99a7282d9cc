package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	vo "github.com/azampay/momo-checkout/internal/domain/order/valueobjects"
	"github.com/azampay/momo-checkout/internal/shared/biztime"
)

// Metadata keys written by the payment flow.
const (
	MetaPaymentNumber  = "payment_number"
	MetaPaymentNetwork = "payment_network"
	MetaTransactionID  = "transaction_id"
	MetaStockReduced   = "stock_reduced"
)

type Order struct {
	id         uint
	customerID uint
	total      decimal.Decimal
	currency   string
	status     vo.OrderStatus
	items      []Item
	meta       map[string]string

	notes        []Note
	pendingNotes []Note

	paidAt    *time.Time
	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewOrder(customerID uint, total decimal.Decimal, currency string, items []Item) (*Order, error) {
	if total.IsNegative() {
		return nil, fmt.Errorf("order total must not be negative")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, fmt.Errorf("currency is required")
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("item quantity must be positive")
		}
	}

	now := biztime.NowUTC()
	return &Order{
		customerID: customerID,
		total:      total,
		currency:   currency,
		status:     vo.OrderStatusPending,
		items:      append([]Item(nil), items...),
		meta:       make(map[string]string),
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// OrderReconstructParams carries persisted state back into an Order.
type OrderReconstructParams struct {
	ID         uint
	CustomerID uint
	Total      decimal.Decimal
	Currency   string
	Status     vo.OrderStatus
	Items      []Item
	Meta       map[string]string
	Notes      []Note
	PaidAt     *time.Time
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func ReconstructOrder(p OrderReconstructParams) *Order {
	meta := make(map[string]string, len(p.Meta))
	for k, v := range p.Meta {
		meta[k] = v
	}
	return &Order{
		id:         p.ID,
		customerID: p.CustomerID,
		total:      p.Total,
		currency:   p.Currency,
		status:     p.Status,
		items:      append([]Item(nil), p.Items...),
		meta:       meta,
		notes:      append([]Note(nil), p.Notes...),
		paidAt:     p.PaidAt,
		version:    p.Version,
		createdAt:  p.CreatedAt,
		updatedAt:  p.UpdatedAt,
	}
}

// UpdateStatus moves the order to status. A non-empty note is appended as a
// staff note, even when the status does not change.
func (o *Order) UpdateStatus(status vo.OrderStatus, note string) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid order status: %s", status)
	}
	o.status = status
	o.updatedAt = biztime.NowUTC()
	if note = strings.TrimSpace(note); note != "" {
		o.AddNote(note, false)
	}
	return nil
}

// MarkPaid records a completed payment. Orders that need no shipping go
// straight to completed, everything else to processing. Already-paid orders
// are left unchanged.
func (o *Order) MarkPaid(transactionID string) {
	if o.status.IsPaid() {
		return
	}

	now := biztime.NowUTC()
	if transactionID = strings.TrimSpace(transactionID); transactionID != "" {
		o.meta[MetaTransactionID] = transactionID
	}
	o.paidAt = &now
	o.updatedAt = now

	if o.NeedsProcessing() {
		o.status = vo.OrderStatusProcessing
	} else {
		o.status = vo.OrderStatusCompleted
	}
}

// AddNote appends to the audit log. Notes are never edited or removed.
func (o *Order) AddNote(content string, customerVisible bool) {
	o.pendingNotes = append(o.pendingNotes, Note{
		Content:         content,
		CustomerVisible: customerVisible,
		CreatedAt:       biztime.NowUTC(),
	})
	o.updatedAt = biztime.NowUTC()
}

func (o *Order) SetMeta(key, value string) {
	if o.meta == nil {
		o.meta = make(map[string]string)
	}
	o.meta[key] = value
	o.updatedAt = biztime.NowUTC()
}

func (o *Order) Meta(key string) string {
	return o.meta[key]
}

// Metadata returns a copy of all metadata.
func (o *Order) Metadata() map[string]string {
	out := make(map[string]string, len(o.meta))
	for k, v := range o.meta {
		out[k] = v
	}
	return out
}

// HasDownloadableItem reports whether any line is a downloadable product.
func (o *Order) HasDownloadableItem() bool {
	for _, it := range o.items {
		if it.Downloadable {
			return true
		}
	}
	return false
}

// NeedsProcessing reports whether any line requires fulfilment after payment.
func (o *Order) NeedsProcessing() bool {
	for _, it := range o.items {
		if !it.Downloadable {
			return true
		}
	}
	return false
}

func (o *Order) IsResolved() bool {
	return o.status.IsResolved()
}

func (o *Order) IsPayable() bool {
	return o.status.IsPayable()
}

func (o *Order) StockReduced() bool {
	return o.meta[MetaStockReduced] == "yes"
}

func (o *Order) MarkStockReduced() {
	o.SetMeta(MetaStockReduced, "yes")
}

// Notes returns persisted notes followed by notes not yet saved.
func (o *Order) Notes() []Note {
	out := make([]Note, 0, len(o.notes)+len(o.pendingNotes))
	out = append(out, o.notes...)
	return append(out, o.pendingNotes...)
}

// PendingNotes returns notes added since the order was loaded or last saved.
func (o *Order) PendingNotes() []Note {
	return append([]Note(nil), o.pendingNotes...)
}

// MarkPersisted is called by the repository after a successful write.
func (o *Order) MarkPersisted(version int, savedNotes []Note) {
	o.version = version
	o.notes = append(o.notes, savedNotes...)
	o.pendingNotes = nil
}

func (o *Order) SetID(id uint) {
	o.id = id
}

func (o *Order) ID() uint {
	return o.id
}

func (o *Order) CustomerID() uint {
	return o.customerID
}

func (o *Order) Total() decimal.Decimal {
	return o.total
}

func (o *Order) Currency() string {
	return o.currency
}

func (o *Order) Status() vo.OrderStatus {
	return o.status
}

func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

func (o *Order) PaidAt() *time.Time {
	return o.paidAt
}

func (o *Order) Version() int {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}
