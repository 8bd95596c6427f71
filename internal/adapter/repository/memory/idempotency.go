package memory

import (
	"context"
	"sync"
	"time"
)

// cacheEntry is one recorded submission outcome. A pending entry marks a
// claim whose transaction has not been persisted yet.
type cacheEntry struct {
	transactionID string
	pending       bool
	expiresAt     time.Time
}

// IdempotencyCache is an in-process implementation of
// usecase.IdempotencyCache with a fixed TTL and an injected time source, so
// tests can drive expiry without wall-clock sleeps. Expired entries are
// swept on access; RunSweeper adds a periodic background sweep.
type IdempotencyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewIdempotencyCache creates a cache with the given TTL. A nil now falls
// back to time.Now.
func NewIdempotencyCache(ttl time.Duration, now func() time.Time) *IdempotencyCache {
	if now == nil {
		now = time.Now
	}

	return &IdempotencyCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// CheckAndReserve atomically claims key. The check and the claim happen
// under one lock, so of many racing identical submissions exactly one gets
// reserved=true.
func (c *IdempotencyCache) CheckAndReserve(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweepLocked(now)

	if e, ok := c.entries[key]; ok {
		if e.pending {
			return "", false, nil
		}

		return e.transactionID, false, nil
	}

	c.entries[key] = cacheEntry{pending: true, expiresAt: now.Add(c.ttl)}

	return "", true, nil
}

// Store records the outcome under key with a fresh TTL.
func (c *IdempotencyCache) Store(ctx context.Context, key, transactionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{transactionID: transactionID, expiresAt: c.now().Add(c.ttl)}

	return nil
}

// Release frees a claim whose submission failed.
func (c *IdempotencyCache) Release(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// Len reports the number of live entries. Used by tests and the sweeper log.
func (c *IdempotencyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked(c.now())

	return len(c.entries)
}

func (c *IdempotencyCache) sweepLocked(now time.Time) {
	for key, e := range c.entries {
		if !e.expiresAt.After(now) {
			delete(c.entries, key)
		}
	}
}

// RunSweeper evicts expired entries every interval until ctx is cancelled.
func (c *IdempotencyCache) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			c.sweepLocked(c.now())
			c.mu.Unlock()
		}
	}
}
