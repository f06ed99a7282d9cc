package usecases

import (
	"context"

	"github.com/azampay/momo-checkout/internal/domain/order"
)

// OrderLocker serializes mutations of a single order across processes.
// The returned release func must be called exactly once.
type OrderLocker interface {
	Lock(ctx context.Context, orderID uint) (release func(), err error)
}

// CartService empties the shopper's cart after checkout.
type CartService interface {
	EmptyCart(ctx context.Context, customerID uint) error
}

// NoticeSink queues a shopper-facing notice for the customer's next page view.
type NoticeSink interface {
	AddNotice(ctx context.Context, customerID uint, notice Notice) error
}

// StockReducer decrements inventory for the order's lines.
type StockReducer interface {
	ReduceStock(ctx context.Context, o *order.Order) error
}

// Transactor runs fn in a storage transaction carried by the returned ctx.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
