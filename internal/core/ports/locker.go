package ports

import "context"

// Locker serializes work on the same entities inside this process. Lock
// blocks until every key is held or the attempt times out, in which case it
// returns a ResourceConflictError. The returned function releases all keys.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}
