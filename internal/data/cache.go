package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

const DefaultCacheTTL = 1 * time.Hour

// Cache stores raw upstream responses by key. Implementations expire entries after their TTL.
type Cache interface {
	// Get returns the value and whether it was found. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// NewCache builds the backend named by kind: "none" (or empty) returns a nil Cache,
// "memory" a MemoryCache, "redis" a RedisCache at redisURL.
func NewCache(kind string, ttl time.Duration, redisURL string) (Cache, error) {
	switch strings.ToLower(kind) {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryCache(ttl), nil
	case "redis":
		if redisURL == "" {
			return nil, fmt.Errorf("redis cache requires REDIS_URL")
		}
		return NewRedisCache(redisURL, WithTTL(ttl))
	}
	return nil, fmt.Errorf("unknown cache backend %q (want none, memory or redis)", kind)
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache guarded by a RWMutex.
// A background goroutine drops expired entries until Close is called.
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &MemoryCache{
		store: make(map[string]*cacheEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.cleanup(5 * time.Minute)
	return c
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || c.now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &cacheEntry{
		value:     append([]byte(nil), value...),
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*cacheEntry)
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *MemoryCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

// GenerateCacheKey hashes the query parameters (never the API key) into a fixed-size key.
func GenerateCacheKey(q ObservationsQuery) string {
	hash := sha256.Sum256([]byte("fred:observations:" + q.values().Encode()))
	return hex.EncodeToString(hash[:])
}
