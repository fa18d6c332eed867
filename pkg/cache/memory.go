package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultMemoryCapacity bounds a MemoryCache created with a zero capacity.
const DefaultMemoryCapacity uint64 = 10000

// MemoryCache is an in-process Cache used when no Redis address is configured.
// It holds at most its capacity of entries and drops the least recently used
// one when full. Expired entries are swept on every Set.
type MemoryCache struct {
	items *ttlcache.Cache[string, string]
}

// NewMemoryCache creates an empty MemoryCache holding at most capacity entries.
func NewMemoryCache(capacity uint64) *MemoryCache {
	if capacity == 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryCache{
		items: ttlcache.New[string, string](
			ttlcache.WithCapacity[string, string](capacity),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

// Get returns the value stored under key.
func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	item := m.items.Get(key)
	if item == nil || item.IsExpired() {
		return "", ErrCacheMiss
	}
	return item.Value(), nil
}

// Set stores value under key. A zero expiration keeps the value until deleted or evicted.
func (m *MemoryCache) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	m.items.DeleteExpired()

	ttl := ttlcache.NoTTL
	if expiration > 0 {
		ttl = expiration
	}
	m.items.Set(key, value, ttl)
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.items.Delete(key)
	}
	return nil
}

// Len reports the number of entries currently held, expired ones included until swept.
func (m *MemoryCache) Len() int {
	return m.items.Len()
}
