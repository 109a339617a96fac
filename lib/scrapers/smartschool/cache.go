package smartschool

import (
	"context"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// memoizes fetched record lists for the lifetime of the process, one
// bucket per endpoint, keyed by an agenda date or a fixed identifier.
// a failed fetch stores nothing so the next call retries the network.
// concurrent misses on one key may each hit the network, last write
// wins, there is no single-flight coordination.
type resultCache struct {
	mu      sync.Mutex
	buckets map[string]*gocache.Cache
}

func newResultCache() *resultCache {
	return &resultCache{buckets: map[string]*gocache.Cache{}}
}

func (c *resultCache) bucket(endpoint string) *gocache.Cache {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.buckets[endpoint]
	if !ok {
		b = gocache.New(gocache.NoExpiration, 0)
		c.buckets[endpoint] = b
	}
	return b
}

func (c *resultCache) getOrFetch(ctx context.Context, endpoint, key string, fetch func() (any, error)) (any, error) {
	ctx, span := tracer.Start(ctx, "cache:getOrFetch")
	defer span.End()
	span.SetAttributes(attribute.KeyValue{
		Key:   "cache_key",
		Value: attribute.StringValue(endpoint + ":" + key),
	})

	b := c.bucket(endpoint)
	cached, hit := b.Get(key)
	if hit {
		span.SetStatus(codes.Ok, "CACHE HIT")
		return cached, nil
	}

	fetched, err := fetch()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	b.SetDefault(key, fetched)
	return fetched, nil
}

// wipes every endpoint bucket, test harnesses use this to isolate
// scenarios that would otherwise share memoized results
func (c *resultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.buckets {
		b.Flush()
	}
}
