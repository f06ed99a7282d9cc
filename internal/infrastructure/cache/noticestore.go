package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/azampay/momo-checkout/internal/application/payment/usecases"
	"github.com/azampay/momo-checkout/internal/shared/logger"
)

const (
	noticePrefix     = "momo:notices:"
	defaultNoticeTTL = 24 * time.Hour
)

// NoticeStore queues shopper notices per customer until the next page view
// drains them.
type NoticeStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewNoticeStore(client *redis.Client, logger logger.Interface) *NoticeStore {
	return NewNoticeStoreWithConfig(client, defaultNoticeTTL, logger)
}

func NewNoticeStoreWithConfig(client *redis.Client, ttl time.Duration, logger logger.Interface) *NoticeStore {
	if ttl <= 0 {
		ttl = defaultNoticeTTL
	}
	return &NoticeStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *NoticeStore) AddNotice(ctx context.Context, customerID uint, notice usecases.Notice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}

	key := s.key(customerID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to queue notice: %w", err)
	}
	return nil
}

// Drain returns queued notices oldest first and clears the queue.
func (s *NoticeStore) Drain(ctx context.Context, customerID uint) ([]usecases.Notice, error) {
	key := s.key(customerID)

	var lrange *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to drain notices: %w", err)
	}

	raw := lrange.Val()
	notices := make([]usecases.Notice, 0, len(raw))
	for _, item := range raw {
		var n usecases.Notice
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			s.logger.Warnw("dropping malformed notice",
				"customer_id", customerID,
				"error", err,
			)
			continue
		}
		notices = append(notices, n)
	}
	return notices, nil
}

func (s *NoticeStore) key(customerID uint) string {
	return noticePrefix + strconv.FormatUint(uint64(customerID), 10)
}
