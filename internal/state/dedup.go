package state

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Deduplicator remembers the sitemap documents already resolved in a run.
// A negative Bloom test settles a first visit; the exact set settles
// everything the filter reports as possibly seen.
type Deduplicator struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	exact  map[string]struct{}
}

// NewDeduplicator sizes the filter for estimatedItems documents, with a
// floor of 1000.
func NewDeduplicator(estimatedItems int) *Deduplicator {
	if estimatedItems < 1000 {
		estimatedItems = 1000
	}

	return &Deduplicator{
		filter: bloom.NewWithEstimates(uint(estimatedItems), 0.001),
		exact:  make(map[string]struct{}),
	}
}

// MarkSeen records url and reports whether this is its first visit.
func (d *Deduplicator) MarkSeen(url string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.filter.TestAndAddString(url) {
		if _, ok := d.exact[url]; ok {
			return false
		}
	}
	d.exact[url] = struct{}{}
	return true
}

// Count returns the number of distinct documents recorded.
func (d *Deduplicator) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.exact)
}
