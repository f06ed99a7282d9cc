package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const cartPrefix = "momo:cart:"

// CartStore keeps each customer's cart as a Redis hash of product ID to quantity.
type CartStore struct {
	client *redis.Client
}

func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

func (s *CartStore) AddItem(ctx context.Context, customerID, productID uint, quantity int) error {
	field := strconv.FormatUint(uint64(productID), 10)
	if err := s.client.HIncrBy(ctx, s.key(customerID), field, int64(quantity)).Err(); err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

// Items returns quantities keyed by product ID.
func (s *CartStore) Items(ctx context.Context, customerID uint) (map[uint]int, error) {
	raw, err := s.client.HGetAll(ctx, s.key(customerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	items := make(map[uint]int, len(raw))
	for field, value := range raw {
		productID, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		items[uint(productID)] = qty
	}
	return items, nil
}

func (s *CartStore) EmptyCart(ctx context.Context, customerID uint) error {
	if err := s.client.Del(ctx, s.key(customerID)).Err(); err != nil {
		return fmt.Errorf("failed to empty cart: %w", err)
	}
	return nil
}

func (s *CartStore) key(customerID uint) string {
	return cartPrefix + strconv.FormatUint(uint64(customerID), 10)
}
