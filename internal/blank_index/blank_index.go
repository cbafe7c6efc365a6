package blank_index

import (
	"sync"
	"time"

	"atontiles/internal/mercator"
)

// Index records tile addresses known to contain no markers, so repeat
// requests for empty regions skip the spatial query and render
// entirely. Entries expire after ttl, matching the rendered-tile TTL,
// so a region that gains markers after being marked blank self-heals on
// the first request after expiry. A ttl of zero disables expiry.
type Index struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[mercator.TileAddress]time.Time
	now     func() time.Time
}

func New(ttl time.Duration) *Index {
	return &Index{
		ttl:     ttl,
		entries: make(map[mercator.TileAddress]time.Time),
		now:     time.Now,
	}
}

func (i *Index) IsKnownBlank(addr mercator.TileAddress) bool {
	i.mu.RLock()
	markedAt, ok := i.entries[addr]
	i.mu.RUnlock()

	if !ok {
		return false
	}
	if i.ttl > 0 && i.now().Sub(markedAt) >= i.ttl {
		i.mu.Lock()
		// Re-check under the write lock; a concurrent MarkBlank may
		// have refreshed the entry in the meantime.
		if current, ok := i.entries[addr]; ok && i.now().Sub(current) >= i.ttl {
			delete(i.entries, addr)
		}
		i.mu.Unlock()
		return false
	}
	return true
}

func (i *Index) MarkBlank(addr mercator.TileAddress) {
	i.mu.Lock()
	i.entries[addr] = i.now()
	i.mu.Unlock()
}

func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return len(i.entries)
}
