// Package cachetest provides an in-memory cache.Cache for tests.
package cachetest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/clausecheck/internal/cache"
)

// MemCache is a goroutine-safe in-memory Cache. TTLs are recorded but not enforced.
// Setting Err makes every call fail with it.
type MemCache struct {
	mu       sync.Mutex
	Values   map[string][]byte
	TTLs     map[string]time.Duration
	Counters map[string]int64
	Err      error
}

func New() *MemCache {
	return &MemCache{
		Values:   make(map[string][]byte),
		TTLs:     make(map[string]time.Duration),
		Counters: make(map[string]int64),
	}
}

func (c *MemCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if c.Err != nil {
		return c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Values[key] = append([]byte(nil), value...)
	c.TTLs[key] = ttl
	return nil
}

func (c *MemCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.Err != nil {
		return nil, false, c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.Values[key]
	return v, ok, nil
}

func (c *MemCache) Delete(_ context.Context, key string) error {
	if c.Err != nil {
		return c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Values, key)
	return nil
}

func (c *MemCache) Ping(_ context.Context) error { return c.Err }

func (c *MemCache) SetJobStatus(ctx context.Context, jobID uuid.UUID, status string, ttl time.Duration) error {
	return c.Set(ctx, cache.JobStatusKey(jobID), []byte(status), ttl)
}

func (c *MemCache) GetJobStatus(ctx context.Context, jobID uuid.UUID) (string, bool, error) {
	v, ok, err := c.Get(ctx, cache.JobStatusKey(jobID))
	return string(v), ok, err
}

func (c *MemCache) IncrWithExpiry(_ context.Context, key string, _ time.Duration) (int64, error) {
	if c.Err != nil {
		return 0, c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Counters[key]++
	return c.Counters[key], nil
}

// Len returns the number of stored values.
func (c *MemCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Values)
}

var _ cache.Cache = (*MemCache)(nil)
