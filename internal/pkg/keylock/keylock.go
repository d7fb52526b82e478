// Package keylock provides an in-process lock keyed by string, used to
// serialize dispatch and status changes touching the same load, truck or
// driver.
package keylock

import (
	"context"
	"slices"
	"sync"
	"time"

	"freight/internal/pkg/errs"
)

// DefaultTimeout bounds how long Lock waits for a key.
const DefaultTimeout = 5 * time.Second

type entry struct {
	ch   chan struct{}
	refs int
}

// KeyLock hands out exclusive holds on string keys. Keys are acquired in
// sorted order so two callers locking overlapping sets cannot deadlock.
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration
}

// New returns a KeyLock whose Lock gives up after timeout. A non-positive
// timeout means DefaultTimeout.
func New(timeout time.Duration) *KeyLock {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &KeyLock{
		entries: make(map[string]*entry),
		timeout: timeout,
	}
}

// Lock acquires every key. Empty keys and duplicates are ignored.
//
// Returns a ResourceConflictError when a key stays busy past the timeout, or
// the context error when ctx ends first. Nothing is held on error.
func (l *KeyLock) Lock(ctx context.Context, keys ...string) (func(), error) {
	sorted := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			sorted = append(sorted, k)
		}
	}
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	held := make([]string, 0, len(sorted))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			l.unlock(held[i])
		}
	}

	for _, key := range sorted {
		e := l.acquireEntry(key)
		select {
		case e.ch <- struct{}{}:
			held = append(held, key)
		case <-timer.C:
			l.dropEntry(key)
			release()
			return nil, errs.NewResourceConflictError("lock", key, "is busy, try again")
		case <-ctx.Done():
			l.dropEntry(key)
			release()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *KeyLock) acquireEntry(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *KeyLock) dropEntry(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

func (l *KeyLock) unlock(key string) {
	l.mu.Lock()
	e := l.entries[key]
	l.mu.Unlock()
	<-e.ch
	l.dropEntry(key)
}

// Key builds a lock key such as "truck:<id>".
func Key(kind string, id interface{ String() string }) string {
	return kind + ":" + id.String()
}
