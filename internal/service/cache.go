package service

import (
	"context"

	"multiverse/browser/internal/state"

	log "github.com/sirupsen/logrus"
)

// cached serves key from the cache, or loads and stores it. Cache failures
// are logged and never fail the request.
func cached[T any](ctx context.Context, cache state.Cache, key string, load func(ctx context.Context) (*T, error)) (*T, error) {
	var hit T
	ok, err := cache.Get(ctx, key, &hit)
	if err != nil {
		log.Warnf("⚠️ Cache read failed for %s: %v", key, err)
	}
	if ok {
		log.Debugf("Cache hit for %s", key)
		return &hit, nil
	}

	value, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if err := cache.Set(ctx, key, value); err != nil {
		log.Warnf("⚠️ Cache write failed for %s: %v", key, err)
	}
	return value, nil
}

func orNop(cache state.Cache) state.Cache {
	if cache == nil {
		return state.NopCache{}
	}
	return cache
}
