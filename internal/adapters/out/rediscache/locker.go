package rediscache

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"freight/internal/pkg/errs"
)

const (
	DefaultLockTTL   = 30 * time.Second
	defaultRetryStep = 25 * time.Millisecond
)

var errBusy = errors.New("lock busy")

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements ports.Locker across processes with SET NX leases. Each
// lease carries a random token so only its owner can release it, and expires
// after ttl if the owner dies.
type Locker struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

func NewLocker(client *redis.Client, prefix string, ttl, timeout time.Duration) *Locker {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Locker{client: client, prefix: prefix + ":lock", ttl: ttl, timeout: timeout}
}

// Lock takes every key in sorted order. It returns a ResourceConflictError
// when a key stays held past the timeout. Nothing is held on error.
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	sorted := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			sorted = append(sorted, k)
		}
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	token := uuid.NewString()
	deadline := time.Now().Add(l.timeout)
	held := make([]string, 0, len(sorted))
	release := func() {
		// Release must outlive a cancelled request context.
		bg := context.WithoutCancel(ctx)
		for i := len(held) - 1; i >= 0; i-- {
			_ = releaseScript.Run(bg, l.client, []string{held[i]}, token).Err()
		}
	}

	for _, key := range sorted {
		full := buildKey(l.prefix, key)
		if err := l.acquire(ctx, full, token, deadline); err != nil {
			release()
			if errors.Is(err, errBusy) {
				return nil, errs.NewResourceConflictError("lock", key, "is busy, try again")
			}
			return nil, err
		}
		held = append(held, full)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *Locker) acquire(ctx context.Context, key, token string, deadline time.Time) error {
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return errBusy
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(defaultRetryStep):
		}
	}
}
