package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "dataset:"

// Cache is a read-through Redis cache in front of another Store. Benchmark
// datasets are immutable, so entries only ever expire by TTL. Redis outages
// degrade to direct reads.
type Cache struct {
	next Store
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCache(next Store, rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{next: next, rdb: rdb, ttl: ttl}
}

func (c *Cache) GetDataset(ctx context.Context, name string) (Dataset, error) {
	key := cacheKeyPrefix + name
	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var d Dataset
		if jerr := json.Unmarshal(raw, &d); jerr == nil {
			return d, nil
		}
		// Corrupt entry, drop it and fall through.
		c.rdb.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return Dataset{}, ctx.Err()
	}

	d, err := c.next.GetDataset(ctx, name)
	if err != nil {
		return Dataset{}, err
	}
	if raw, jerr := json.Marshal(d); jerr == nil {
		c.rdb.Set(ctx, key, raw, c.ttl)
	}
	return d, nil
}

func (c *Cache) ListDatasets(ctx context.Context) ([]string, error) {
	return c.next.ListDatasets(ctx)
}
