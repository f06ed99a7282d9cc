package usecases

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/azampay/momo-checkout/internal/application/payment/paymentgateway"
	"github.com/azampay/momo-checkout/internal/domain/gateway"
	"github.com/azampay/momo-checkout/internal/domain/order"
	vo "github.com/azampay/momo-checkout/internal/domain/order/valueobjects"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                   {}
func (nopLogger) Info(msg string, args ...any)                    {}
func (nopLogger) Warn(msg string, args ...any)                    {}
func (nopLogger) Error(msg string, args ...any)                   {}
func (nopLogger) Fatal(msg string, args ...any)                   {}
func (l nopLogger) With(args ...any) logger.Interface             { return l }
func (l nopLogger) Named(name string) logger.Interface            { return l }
func (nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

// fakeTransport answers requests by URL suffix and records every request.
type fakeTransport struct {
	mu       sync.Mutex
	routes   map[string]func(req *paymentgateway.Request) (*paymentgateway.Response, error)
	requests []*paymentgateway.Request
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		routes: make(map[string]func(req *paymentgateway.Request) (*paymentgateway.Response, error)),
	}
}

func (f *fakeTransport) on(pathSuffix string, status int, body string) *fakeTransport {
	f.routes[pathSuffix] = func(*paymentgateway.Request) (*paymentgateway.Response, error) {
		return &paymentgateway.Response{StatusCode: status, Reason: http.StatusText(status), Body: []byte(body)}, nil
	}
	return f
}

func (f *fakeTransport) fail(pathSuffix string, err error) *fakeTransport {
	f.routes[pathSuffix] = func(*paymentgateway.Request) (*paymentgateway.Response, error) {
		return nil, err
	}
	return f
}

func (f *fakeTransport) Send(ctx context.Context, req *paymentgateway.Request) (*paymentgateway.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	for suffix, handle := range f.routes {
		if strings.HasSuffix(req.URL, suffix) {
			return handle(req)
		}
	}
	return nil, errors.New("no route for " + req.URL)
}

func (f *fakeTransport) callsTo(pathSuffix string) []*paymentgateway.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*paymentgateway.Request
	for _, r := range f.requests {
		if strings.HasSuffix(r.URL, pathSuffix) {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeTransport) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

const (
	tokenSuffix    = "/AppRegistration/GenerateToken"
	partnersSuffix = "/api/v1/Partner/GetPaymentPartners"
	checkoutSuffix = "/azampay/mno/checkout"

	tokenOK    = `{"data":{"accessToken":"tok-123","expire":"2026-10-18T10:00:00Z"},"message":"Token generated successfully"}`
	partnersOK = `[{"partnerName":"Azampesa","logoUrl":"https://cdn/azampesa.png","vendorName":"Azampesa"},` +
		`{"partnerName":"Tigopesa","logoUrl":"https://cdn/tigo.png","vendorName":"Tigo"},` +
		`{"partnerName":"vodacom","logoUrl":"https://cdn/mpesa.png","vendorName":"Vodacom"}]`
	checkoutOK = `{"success":true,"message":"Request in progress. You will receive a callback shortly","transactionId":"b8f4c2"}`
)

// happyTransport serves a working token, partner list and checkout.
func happyTransport() *fakeTransport {
	return newFakeTransport().
		on(tokenSuffix, http.StatusOK, tokenOK).
		on(partnersSuffix, http.StatusOK, partnersOK).
		on(checkoutSuffix, http.StatusOK, checkoutOK)
}

func testCredentials() gateway.Credentials {
	return gateway.Credentials{
		AppName:       "shop",
		ClientID:      "client-id",
		ClientSecret:  "client-secret",
		CallbackToken: "callback-token",
	}
}

func usableSnapshot() gateway.Snapshot {
	return gateway.Resolve(gateway.Settings{
		Enabled:      true,
		Mode:         gateway.ModeTest,
		Test:         testCredentials(),
		Instructions: "We will ship once payment is confirmed.",
	}, "TZS")
}

func autocompleteSnapshot() gateway.Snapshot {
	return gateway.Resolve(gateway.Settings{
		Enabled:           true,
		Mode:              gateway.ModeTest,
		Test:              testCredentials(),
		AutocompleteOrder: true,
	}, "TZS")
}

func disabledSnapshot() gateway.Snapshot {
	return gateway.Resolve(gateway.Settings{
		Enabled: false,
		Mode:    gateway.ModeTest,
		Test:    testCredentials(),
	}, "TZS")
}

func unconfiguredSnapshot() gateway.Snapshot {
	return gateway.Resolve(gateway.Settings{
		Enabled: true,
		Mode:    gateway.ModeProduction,
		Test:    testCredentials(),
	}, "TZS")
}

// memOrderRepo stores orders by value and enforces the version check the
// real repository performs.
type memOrderRepo struct {
	mu      sync.Mutex
	orders  map[uint]order.OrderReconstructParams
	nextID  uint
	updates int

	getErr    error
	updateErr error
	// beforeUpdate runs inside Update before the version check.
	beforeUpdate func(r *memOrderRepo, o *order.Order)
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[uint]order.OrderReconstructParams), nextID: 1}
}

func snapshotOf(o *order.Order) order.OrderReconstructParams {
	return order.OrderReconstructParams{
		ID:         o.ID(),
		CustomerID: o.CustomerID(),
		Total:      o.Total(),
		Currency:   o.Currency(),
		Status:     o.Status(),
		Items:      o.Items(),
		Meta:       o.Metadata(),
		Notes:      o.Notes(),
		PaidAt:     o.PaidAt(),
		Version:    o.Version(),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
	}
}

func (r *memOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.SetID(r.nextID)
	r.nextID++
	o.MarkPersisted(1, o.PendingNotes())
	r.orders[o.ID()] = snapshotOf(o)
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id uint) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	p, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return order.ReconstructOrder(p), nil
}

func (r *memOrderRepo) Update(ctx context.Context, o *order.Order) error {
	if hook := r.beforeUpdate; hook != nil {
		r.beforeUpdate = nil
		hook(r, o)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.orders[o.ID()]
	if !ok {
		return order.ErrOrderNotFound
	}
	if stored.Version != o.Version() {
		return order.ErrConcurrentUpdate
	}
	o.MarkPersisted(o.Version()+1, o.PendingNotes())
	r.orders[o.ID()] = snapshotOf(o)
	r.updates++
	return nil
}

// setStatus changes the stored status directly, bumping the version.
func (r *memOrderRepo) setStatus(id uint, status vo.OrderStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.orders[id]
	p.Status = status
	p.Version++
	r.orders[id] = p
}

func (r *memOrderRepo) stored(id uint) *order.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return order.ReconstructOrder(r.orders[id])
}

func (r *memOrderRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

func seedOrder(r *memOrderRepo, total string, status vo.OrderStatus, items ...order.Item) *order.Order {
	if len(items) == 0 {
		items = []order.Item{{ID: 1, ProductID: 10, Quantity: 2}}
	}
	o, err := order.NewOrder(42, decimal.RequireFromString(total), "TZS", items)
	if err != nil {
		panic(err)
	}
	if status != vo.OrderStatusPending {
		if err := o.UpdateStatus(status, ""); err != nil {
			panic(err)
		}
	}
	if err := r.Create(context.Background(), o); err != nil {
		panic(err)
	}
	return o
}

type fakeLocker struct {
	mu       sync.Mutex
	err      error
	locks    int
	releases int
}

func (l *fakeLocker) Lock(ctx context.Context, orderID uint) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	l.locks++
	return func() {
		l.mu.Lock()
		l.releases++
		l.mu.Unlock()
	}, nil
}

type fakeCart struct {
	emptied []uint
	err     error
}

func (c *fakeCart) EmptyCart(ctx context.Context, customerID uint) error {
	c.emptied = append(c.emptied, customerID)
	return c.err
}

type fakeNotices struct {
	added map[uint][]Notice
}

func (n *fakeNotices) AddNotice(ctx context.Context, customerID uint, notice Notice) error {
	if n.added == nil {
		n.added = make(map[uint][]Notice)
	}
	n.added[customerID] = append(n.added[customerID], notice)
	return nil
}

type fakeStock struct {
	reduced []uint
	err     error
}

func (s *fakeStock) ReduceStock(ctx context.Context, o *order.Order) error {
	if s.err != nil {
		return s.err
	}
	s.reduced = append(s.reduced, o.ID())
	return nil
}

// passthroughTx runs fn directly; the memory repository has no transactions.
type passthroughTx struct {
	runs int
}

func (t *passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.runs++
	return fn(ctx)
}
