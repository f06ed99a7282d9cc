package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/azampay/momo-checkout/internal/shared/config"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

const (
	orderLockPrefix       = "momo:order:lock:"
	defaultLockTTL        = 30 * time.Second
	defaultLockWait       = 10 * time.Second
	defaultLockBackoff    = 100 * time.Millisecond
	orderLockReleaseLimit = 5 * time.Second
)

// ErrOrderLocked is returned when the lock could not be taken within the wait timeout.
var ErrOrderLocked = errors.New("order is locked by another request")

// Deletes the lock only if it still holds our token, so an expired lock that
// was re-acquired elsewhere is left alone.
var releaseOrderLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// OrderLocker is a per-order mutex shared by every instance through Redis.
type OrderLocker struct {
	client       *redis.Client
	ttl          time.Duration
	waitTimeout  time.Duration
	retryBackoff time.Duration
	logger       logger.Interface
}

func NewOrderLocker(client *redis.Client, cfg config.LockConfig, logger logger.Interface) *OrderLocker {
	l := &OrderLocker{
		client:       client,
		ttl:          cfg.TTL,
		waitTimeout:  cfg.WaitTimeout,
		retryBackoff: cfg.RetryBackoff,
		logger:       logger,
	}
	if l.ttl <= 0 {
		l.ttl = defaultLockTTL
	}
	if l.waitTimeout <= 0 {
		l.waitTimeout = defaultLockWait
	}
	if l.retryBackoff <= 0 {
		l.retryBackoff = defaultLockBackoff
	}
	return l
}

// Lock blocks until the order's lock is free, the wait timeout passes or ctx
// is done. The returned release func is safe to call more than once.
func (l *OrderLocker) Lock(ctx context.Context, orderID uint) (func(), error) {
	key := orderLockPrefix + strconv.FormatUint(uint64(orderID), 10)
	token := uuid.NewString()
	deadline := time.Now().Add(l.waitTimeout)

	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire order lock: %w", err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrOrderLocked
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryBackoff):
		}
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			// The request context may already be cancelled.
			rctx, cancel := context.WithTimeout(context.Background(), orderLockReleaseLimit)
			defer cancel()

			if err := releaseOrderLockScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Warnw("failed to release order lock",
					"order_id", orderID,
					"error", err,
				)
			}
		})
	}

	return release, nil
}
