package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// stored is one batch response body and the moment it stops being served
type stored struct {
	body    []byte
	expires time.Time
}

// MemoryCache keeps batch response bodies keyed by request hash. The least
// recently used body is evicted once size is reached, and a body older
// than ttl is dropped the next time it is looked up or counted. Bodies are
// copied on the way in and out because the client decodes them in place.
type MemoryCache struct {
	mu      sync.Mutex
	bodies  *lru.Cache[string, stored]
	ttl     time.Duration
	now     func() time.Time
	evicted int
}

// NewMemoryCache creates a cache holding at most size response bodies
func NewMemoryCache(size int, ttl time.Duration) (*MemoryCache, error) {
	if ttl <= 0 {
		return nil, errInvalidTTL
	}
	mc := &MemoryCache{ttl: ttl, now: time.Now}
	bodies, err := lru.NewWithEvict[string, stored](size, func(string, stored) { mc.evicted++ })
	if err != nil {
		return nil, err
	}
	mc.bodies = bodies
	return mc, nil
}

// Get returns a copy of the body cached for key
func (mc *MemoryCache) Get(key string) ([]byte, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	s, ok := mc.bodies.Get(key)
	if !ok {
		return nil, false
	}
	if !mc.now().Before(s.expires) {
		mc.bodies.Remove(key)
		return nil, false
	}
	return append([]byte(nil), s.body...), true
}

// Set caches a copy of body under key, replacing any earlier body
func (mc *MemoryCache) Set(key string, body []byte) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.bodies.Add(key, stored{
		body:    append([]byte(nil), body...),
		expires: mc.now().Add(mc.ttl),
	})
}

// Len returns the number of bodies still being served. Expired ones are
// dropped while counting.
func (mc *MemoryCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	now := mc.now()
	for _, key := range mc.bodies.Keys() {
		if s, ok := mc.bodies.Peek(key); ok && !now.Before(s.expires) {
			mc.bodies.Remove(key)
		}
	}
	return mc.bodies.Len()
}

// Evicted returns how many bodies have been removed from the cache,
// whether expired, pushed out by size or purged by Close.
func (mc *MemoryCache) Evicted() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.evicted
}

// Close drops every cached body. The cache stays usable afterwards.
func (mc *MemoryCache) Close() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.bodies.Purge()
}

// NoopCache never stores anything; it stands in when caching is disabled
type NoopCache struct{}

// NewNoopCache creates a NoopCache
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// Get always misses
func (nc *NoopCache) Get(key string) ([]byte, bool) {
	return nil, false
}

// Set discards body
func (nc *NoopCache) Set(key string, body []byte) {}

// Close is a no-op
func (nc *NoopCache) Close() {}
