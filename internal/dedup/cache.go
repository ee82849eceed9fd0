package dedup

import (
	"sync"
	"time"
)

// Cache suppresses re-processing of webhook deliveries retried by the
// platform. It keeps the first-seen time of each message id and forgets
// entries older than the retention window, so memory stays bounded to the
// trailing window and an ancient retry is processed again rather than
// blocked forever. Suppression is best-effort and scoped to the process
// lifetime; there is deliberately no persistence.
type Cache struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
}

// New creates a cache with the given retention window.
func New(window time.Duration) *Cache {
	return &Cache{
		window: window,
		seen:   make(map[string]time.Time),
	}
}

// CheckAndMark reports whether messageID was already seen within the
// retention window, recording it at now if not. Stale entries are evicted
// inline on every call; eviction piggybacks on the dedup query instead of
// running on a timer. The mutex covers the whole sweep-check-insert sequence
// because the HTTP server runs handlers on concurrent goroutines.
func (c *Cache) CheckAndMark(messageID string, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := now.Add(-c.window)
	for id, seenAt := range c.seen {
		if seenAt.Before(cutoff) {
			delete(c.seen, id)
		}
	}

	if _, ok := c.seen[messageID]; ok {
		return true
	}
	c.seen[messageID] = now
	return false
}

// Len returns the number of live entries. Used for observability.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
