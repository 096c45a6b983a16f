package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"rcmbooks/internal/config"
	"rcmbooks/internal/port"
)

type redisLocker struct {
	client   *redislock.Client
	retryGap time.Duration
}

// NewRedisLocker creates a redislock-backed Locker. Ledger posting for a
// GSTIN must be serialized across processes so running balances never
// interleave; the lock key is "ledger:<gstin>".
func NewRedisLocker(cfg *config.RedisConfig) (port.Locker, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &redisLocker{
		client:   redislock.New(rdb),
		retryGap: cfg.LockRetryGap,
	}, nil
}

func (l *redisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(ctx context.Context) error, error) {
	lk, err := l.client.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retryGap),
	})
	if err != nil {
		return nil, fmt.Errorf("obtaining lock %q: %w", key, err)
	}

	var once sync.Once
	release := func(ctx context.Context) error {
		var err error
		once.Do(func() {
			err = lk.Release(ctx)
		})
		return err
	}
	return release, nil
}

// LedgerKey builds the lock key for a registration's credit ledger.
func LedgerKey(gstin string) string {
	return "ledger:" + gstin
}
