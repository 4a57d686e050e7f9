package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func cacheFixture(t *testing.T) (*Cache, *Memory, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	m := NewMemory()
	return NewCache(m, rdb, time.Minute), m, mr
}

func TestCacheReadThrough(t *testing.T) {
	c, m, mr := cacheFixture(t)
	m.Put(sampleDataset(t, "r101"))
	ctx := context.Background()

	d, err := c.GetDataset(ctx, "r101")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Instance.NumVehicles != 2 {
		t.Fatalf("get: got %+v", d)
	}
	if !mr.Exists(cacheKeyPrefix + "r101") {
		t.Fatalf("expected cache entry after miss")
	}

	// Served from the cache even after the backing store loses the entry.
	m.mu.Lock()
	m.sets = map[string]Dataset{}
	m.mu.Unlock()
	d, err = c.GetDataset(ctx, "r101")
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if d.Instance.Capacity != 50 {
		t.Fatalf("cached get: got %+v", d)
	}
}

func TestCacheMissPassesThroughNotFound(t *testing.T) {
	c, _, _ := cacheFixture(t)
	if _, err := c.GetDataset(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCacheDropsCorruptEntry(t *testing.T) {
	c, m, mr := cacheFixture(t)
	m.Put(sampleDataset(t, "r101"))
	mr.Set(cacheKeyPrefix+"r101", "{not json")

	d, err := c.GetDataset(context.Background(), "r101")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.Name != "r101" {
		t.Fatalf("get: got %+v", d)
	}
}

func TestCacheListPassesThrough(t *testing.T) {
	c, m, _ := cacheFixture(t)
	m.Put(sampleDataset(t, "r101"))
	names, err := c.ListDatasets(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 1 || names[0] != "r101" {
		t.Fatalf("list: got %v", names)
	}
}
