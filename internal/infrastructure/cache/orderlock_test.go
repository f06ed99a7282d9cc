package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azampay/momo-checkout/internal/shared/config"
)

func testLockConfig() config.LockConfig {
	return config.LockConfig{
		TTL:          time.Minute,
		WaitTimeout:  50 * time.Millisecond,
		RetryBackoff: 10 * time.Millisecond,
	}
}

func TestOrderLocker_LockAndRelease(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := NewOrderLocker(client, testLockConfig(), newNopLogger())
	ctx := context.Background()

	release, err := locker.Lock(ctx, 7)
	require.NoError(t, err)
	assert.True(t, mr.Exists("momo:order:lock:7"))

	_, err = locker.Lock(ctx, 7)
	assert.ErrorIs(t, err, ErrOrderLocked)

	other, err := locker.Lock(ctx, 8)
	require.NoError(t, err)
	other()

	release()
	release()
	assert.False(t, mr.Exists("momo:order:lock:7"))

	again, err := locker.Lock(ctx, 7)
	require.NoError(t, err)
	again()
}

func TestOrderLocker_WaitsForRelease(t *testing.T) {
	client, _ := setupTestRedis(t)
	cfg := testLockConfig()
	cfg.WaitTimeout = time.Second
	locker := NewOrderLocker(client, cfg, newNopLogger())
	ctx := context.Background()

	release, err := locker.Lock(ctx, 7)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		release()
	}()

	second, err := locker.Lock(ctx, 7)
	require.NoError(t, err)
	second()
}

func TestOrderLocker_StaleReleaseKeepsNewOwner(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := NewOrderLocker(client, testLockConfig(), newNopLogger())
	ctx := context.Background()

	stale, err := locker.Lock(ctx, 7)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	current, err := locker.Lock(ctx, 7)
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists("momo:order:lock:7"))

	current()
	assert.False(t, mr.Exists("momo:order:lock:7"))
}

func TestOrderLocker_ContextCancelled(t *testing.T) {
	client, _ := setupTestRedis(t)
	cfg := testLockConfig()
	cfg.WaitTimeout = time.Minute
	locker := NewOrderLocker(client, cfg, newNopLogger())

	release, err := locker.Lock(context.Background(), 7)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, 7)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
