package lock

import (
	"context"
	"sync"
	"time"
)

var lockMap sync.Map

// WithDelay runs safeCode while holding the in-process lock for key.
// success is false when the lock was not taken within wait or ctx ended first.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.After(wait)
	for {
		if _, loaded := lockMap.LoadOrStore(key, true); !loaded {
			break
		}
		select {
		case <-timeout:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(50 * time.Millisecond):
		}
	}
	defer lockMap.Delete(key)
	return true, safeCode()
}
