package order

import "context"

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
	// Update persists status, metadata, paid time and pending notes as one
	// compare-and-swap on Version.
	Update(ctx context.Context, order *Order) error
}
