package cache

import (
	"sync"
	"time"

	corehealth "forgeai/omega_gateway/internal/core/health"
)

type entry struct {
	result    corehealth.Result
	expiresAt time.Time
}

// ResultCache provides thread-safe caching of probe results with a fixed TTL.
// A zero TTL disables caching: Get never hits.
type ResultCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewResultCache creates a cache whose entries live for ttl.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached result for key if it has not expired.
func (c *ResultCache) Get(key string) (corehealth.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return corehealth.Result{}, false
	}
	return e.result, true
}

// Set stores result under key for the cache TTL.
func (c *ResultCache) Set(key string, result corehealth.Result) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		result:    result,
		expiresAt: c.now().Add(c.ttl),
	}
}

// TTL returns the configured lifetime of an entry.
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}
