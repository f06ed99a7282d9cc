package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/azampay/momo-checkout/internal/domain/order"
)

// maxUpdateAttempts bounds optimistic-lock retries. A conflict is re-evaluated
// once against fresh state.
const maxUpdateAttempts = 2

// applyToOrder loads the order, applies mutate and saves it. A version
// conflict reloads the order and applies mutate again.
func applyToOrder(
	ctx context.Context,
	repo order.Repository,
	orderID uint,
	mutate func(o *order.Order) error,
) (*order.Order, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		o, err := repo.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		if err := mutate(o); err != nil {
			return nil, err
		}

		err = repo.Update(ctx, o)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, order.ErrConcurrentUpdate) {
			return nil, fmt.Errorf("failed to save order %d: %w", orderID, err)
		}
		lastErr = err
	}
	return nil, lastErr
}
