package rediscache_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight/internal/adapters/out/rediscache"
	"freight/internal/pkg/errs"
)

func TestLocker_ExclusiveAcrossInstances(t *testing.T) {
	mr, client := newRedis(t)
	first := rediscache.NewLocker(client, "freight", time.Minute, 100*time.Millisecond)
	second := rediscache.NewLocker(client, "freight", time.Minute, 100*time.Millisecond)

	unlock, err := first.Lock(t.Context(), "truck:1", "load:9")
	require.NoError(t, err)
	assert.True(t, mr.Exists("freight:lock:truck:1"))

	_, err = second.Lock(t.Context(), "load:9")
	require.Error(t, err)
	assert.Equal(t, errs.KindResourceConflict, errs.KindOf(err))

	unlock()
	unlock()
	assert.False(t, mr.Exists("freight:lock:truck:1"))

	unlock, err = second.Lock(t.Context(), "load:9")
	require.NoError(t, err)
	unlock()
}

func TestLocker_ReleasesPartialHoldOnConflict(t *testing.T) {
	mr, client := newRedis(t)
	locker := rediscache.NewLocker(client, "freight", time.Minute, 50*time.Millisecond)
	require.NoError(t, mr.Set("freight:lock:truck:2", "someone-else"))

	_, err := locker.Lock(t.Context(), "driver:1", "truck:2")
	require.Error(t, err)
	assert.False(t, mr.Exists("freight:lock:driver:1"))
	assert.True(t, mr.Exists("freight:lock:truck:2"))
}

func TestLocker_DoesNotReleaseForeignLease(t *testing.T) {
	mr, client := newRedis(t)
	locker := rediscache.NewLocker(client, "freight", time.Second, time.Second)

	unlock, err := locker.Lock(t.Context(), "load:1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("freight:lock:load:1", "new-owner"))
	unlock()

	got, err := mr.Get("freight:lock:load:1")
	require.NoError(t, err)
	assert.Equal(t, "new-owner", got)
}

func TestLocker_Serializes(t *testing.T) {
	_, client := newRedis(t)
	locker := rediscache.NewLocker(client, "freight", time.Minute, 5*time.Second)

	var inside, overlaps int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(t.Context(), "load:1")
			if !assert.NoError(t, err) {
				return
			}
			if atomic.AddInt32(&inside, 1) > 1 {
				atomic.AddInt32(&overlaps, 1)
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Zero(t, overlaps)
}
