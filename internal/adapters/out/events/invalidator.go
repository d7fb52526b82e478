package events

import (
	"context"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/load"
	"freight/internal/core/ports"
)

// CacheInvalidator drops the tracking projection of each changed load and the
// executive summary of its tenant.
type CacheInvalidator struct {
	cache ports.Cache
}

func NewCacheInvalidator(cache ports.Cache) CacheInvalidator {
	return CacheInvalidator{cache: cache}
}

func (c CacheInvalidator) Publish(ctx context.Context, events ...load.Event) error {
	seen := make(map[string]struct{}, 2*len(events))
	keys := make([]string, 0, 2*len(events))
	add := func(key string) {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	for _, e := range events {
		add(queries.TrackingCacheKey(e.LoadID))
		add(queries.SummaryCacheKey(e.TenantID))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.cache.Del(ctx, keys...)
}
