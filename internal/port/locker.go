package port

import (
	"context"
	"time"
)

// Locker serializes ledger writes per GSTIN across processes. Obtain blocks
// until the lock is held or ctx is done; the returned release function is
// safe to call more than once.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(ctx context.Context) error, err error)
}
