package probe

import (
	"sync"
	"time"

	"github.com/3-lines-studio/folio/internal/core"
)

type cacheEntry struct {
	state     core.TileState
	expiresAt time.Time
}

// outcomeCache remembers probe results per ref. Displaying entries expire
// after ttl; Fallback entries are kept for the life of the cache so a broken
// ref is never probed again.
type outcomeCache struct {
	mu      sync.RWMutex
	entries map[core.ImageRef]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newOutcomeCache(ttl time.Duration, now func() time.Time) *outcomeCache {
	if now == nil {
		now = time.Now
	}
	return &outcomeCache{
		entries: make(map[core.ImageRef]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *outcomeCache) get(ref core.ImageRef) (core.TileState, bool) {
	c.mu.RLock()
	entry, exists := c.entries[ref]
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if core.IsFallback(entry.state) {
		return entry.state, true
	}

	if c.ttl <= 0 || c.now().After(entry.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[ref]; ok && !core.IsFallback(cur.state) {
			delete(c.entries, ref)
		}
		c.mu.Unlock()
		return nil, false
	}

	return entry.state, true
}

// record stores the outcome through core.Transition, so a ref that already
// fell back stays fallen back whatever a later probe reports.
func (c *outcomeCache) record(ref core.ImageRef, state core.TileState) core.TileState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cur, ok := c.entries[ref]; ok {
		next, err := core.Transition(cur.state, state)
		if err != nil {
			return cur.state
		}
		state = next
	}

	c.entries[ref] = cacheEntry{
		state:     state,
		expiresAt: c.now().Add(c.ttl),
	}
	return state
}

func (c *outcomeCache) clear() {
	c.mu.Lock()
	c.entries = make(map[core.ImageRef]cacheEntry)
	c.mu.Unlock()
}

func (c *outcomeCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
